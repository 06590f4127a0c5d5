package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formdesk/formdesk/model"
)

func TestCheckPublishable(t *testing.T) {
	questions := []model.Question{
		{
			Title: "pick one",
			Type:  model.QuestionTypeSingleChoice,
			Options: []model.Option{
				{Text: "a"}, {Text: "b"},
			},
		},
		{Title: "comments", Type: model.QuestionTypeText},
	}
	assert.NoError(t, CheckPublishable(questions))
}

func TestCheckPublishableReportsEveryViolation(t *testing.T) {
	questions := []model.Question{
		{Title: "lonely", Type: model.QuestionTypeSingleChoice, Options: []model.Option{{Text: "only"}}},
		{Title: "bare", Type: model.QuestionTypeMultipleChoice},
		{Title: "fine", Type: model.QuestionTypeRating},
	}

	err := CheckPublishable(questions)
	require.Error(t, err)
	assert.ErrorContains(t, err, `question "lonely" needs at least 2 options`)
	assert.ErrorContains(t, err, `question "bare" needs at least 2 options`)
}

func TestCheckPublishableNoQuestions(t *testing.T) {
	assert.NoError(t, CheckPublishable(nil))
}
