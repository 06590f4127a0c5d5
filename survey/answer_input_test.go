package survey

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formdesk/formdesk/model"
)

func decodeAnswer(t *testing.T, payload string) AnswerInput {
	t.Helper()
	var in AnswerInput
	require.NoError(t, json.Unmarshal([]byte(payload), &in))
	return in
}

func TestAnswerInputBareString(t *testing.T) {
	in := decodeAnswer(t, `"hello"`)
	assert.Equal(t, "hello", in.text())
	assert.Equal(t, "hello", in.scalarValue())
	assert.Equal(t, []string{"hello"}, in.optionIDs())
}

func TestAnswerInputBareNumber(t *testing.T) {
	in := decodeAnswer(t, `4`)
	assert.Equal(t, "4", in.scalarValue())
	assert.Equal(t, []string{"4"}, in.optionIDs())
}

func TestAnswerInputArray(t *testing.T) {
	in := decodeAnswer(t, `["1", 2, "3"]`)
	assert.Equal(t, []string{"1", "2", "3"}, in.optionIDs())
}

func TestAnswerInputObject(t *testing.T) {
	in := decodeAnswer(t, `{
		"options": [5, "6"],
		"custom_inputs": {"6": "something else"},
		"photos": ["2026/01/15/a.jpg"]
	}`)
	assert.Equal(t, []string{"5", "6"}, in.optionIDs())
	assert.Equal(t, map[string]string{"6": "something else"}, in.CustomInputs)
	assert.Equal(t, []string{"2026/01/15/a.jpg"}, in.Photos)
}

func TestAnswerInputObjectValue(t *testing.T) {
	in := decodeAnswer(t, `{"value": 4.5}`)
	assert.Equal(t, "4.5", in.scalarValue())

	in = decodeAnswer(t, `{"value": "2026-01-15"}`)
	assert.Equal(t, "2026-01-15", in.scalarValue())
}

func TestAnswerInputNull(t *testing.T) {
	in := decodeAnswer(t, `null`)
	assert.True(t, in.isEmptyFor(model.QuestionTypeText))
	assert.True(t, in.isEmptyFor(model.QuestionTypeSingleChoice))
	assert.True(t, in.isEmptyFor(model.QuestionTypeRating))
}

func TestAnswerInputIsEmptyFor(t *testing.T) {
	// a bare string counts for whichever field the question type reads
	in := decodeAnswer(t, `"x"`)
	assert.False(t, in.isEmptyFor(model.QuestionTypeText))
	assert.False(t, in.isEmptyFor(model.QuestionTypeSingleChoice))
	assert.False(t, in.isEmptyFor(model.QuestionTypeDate))

	// structured text does not satisfy a choice question
	structured := decodeAnswer(t, `{"text": "words"}`)
	assert.False(t, structured.isEmptyFor(model.QuestionTypeText))
	assert.True(t, structured.isEmptyFor(model.QuestionTypeMultipleChoice))
}
