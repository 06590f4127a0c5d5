package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/formdesk/formdesk/model"
)

func completedResponse(duration time.Duration) model.Response {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	submit := start.Add(duration)
	return model.Response{
		Status:     model.ResponseStatusCompleted,
		StartTime:  start,
		SubmitTime: &submit,
	}
}

func TestDuration(t *testing.T) {
	r := completedResponse(95 * time.Second)
	assert.Equal(t, 95, *Duration(r))

	inProgress := model.Response{StartTime: time.Now()}
	assert.Nil(t, Duration(inProgress))
}

func TestDurationText(t *testing.T) {
	assert.Equal(t, "1m 35s", DurationText(completedResponse(95*time.Second)))
	assert.Equal(t, "45s", DurationText(completedResponse(45*time.Second)))
	assert.Equal(t, "0s", DurationText(completedResponse(0)))
	assert.Equal(t, "2m 0s", DurationText(completedResponse(2*time.Minute)))
	assert.Equal(t, "incomplete", DurationText(model.Response{StartTime: time.Now()}))
}

func TestOptionTexts(t *testing.T) {
	options := []model.Option{
		{ID: 1, Text: "Taste"},
		{ID: 2, Text: "Price"},
		{ID: 3, Text: "Other"},
	}
	answer := model.Answer{}
	answer.SetOptionIDs([]uint{3, 1})

	// selection order is preserved; unknown ids are skipped
	assert.Equal(t, []string{"Other", "Taste"}, OptionTexts(answer, options))

	answer.SetOptionIDs([]uint{2, 99})
	assert.Equal(t, []string{"Price"}, OptionTexts(answer, options))
}

func TestDisplayValueText(t *testing.T) {
	answer := model.Answer{Text: "free text wins", Value: "ignored"}
	answer.SetOptionIDs([]uint{1})
	assert.Equal(t, "free text wins", DisplayValue(answer, nil))
}

func TestDisplayValueOptions(t *testing.T) {
	options := []model.Option{
		{ID: 1, Text: "Taste"},
		{ID: 2, Text: "Other", AllowInput: true},
	}

	answer := model.Answer{}
	answer.SetOptionIDs([]uint{1, 2})
	answer.CustomInputs = datatypes.NewJSONType(map[string]string{"2": "more seating"})

	assert.Equal(t, "Taste, Other (more seating)", DisplayValue(answer, options))

	// repeated calls agree
	assert.Equal(t, "Taste, Other (more seating)", DisplayValue(answer, options))
}

func TestDisplayValueScalar(t *testing.T) {
	answer := model.Answer{Value: "4.5"}
	assert.Equal(t, "4.5", DisplayValue(answer, nil))

	assert.Equal(t, "", DisplayValue(model.Answer{}, nil))
}

func TestValidateCompletion(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Title: "first", IsRequired: true},
		{ID: 2, Title: "second"},
		{ID: 3, Title: "third", IsRequired: true},
	}

	answered := func(qid uint, text string) model.Answer {
		return model.Answer{QuestionID: qid, Text: text}
	}

	ok, missing := ValidateCompletion(questions, []model.Answer{
		answered(1, "yes"),
		answered(3, "also yes"),
	})
	assert.True(t, ok)
	assert.Empty(t, missing)

	ok, missing = ValidateCompletion(questions, []model.Answer{
		answered(1, "yes"),
	})
	assert.False(t, ok)
	assert.Equal(t, "third", missing)

	// an answer row with no content does not count
	ok, missing = ValidateCompletion(questions, []model.Answer{
		answered(1, "yes"),
		{QuestionID: 3},
	})
	assert.False(t, ok)
	assert.Equal(t, "third", missing)
}
