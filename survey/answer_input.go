package survey

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/formdesk/formdesk/model"
)

// AnswerInput is one submitted answer. Clients may send a bare JSON string,
// an array of option ids, or the structured object form; either way the
// field that gets read is chosen by the question's declared type, never by
// the shape the payload happened to arrive in.
type AnswerInput struct {
	Text         string            `json:"text"`
	Options      []string          `json:"options"`
	Value        string            `json:"value"`
	CustomInputs map[string]string `json:"custom_inputs"`
	Photos       []string          `json:"photos"`

	scalar string
}

func (in *AnswerInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &in.scalar)

	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		in.Options = make([]string, 0, len(raw))
		for _, item := range raw {
			s, err := scalarString(item)
			if err != nil {
				return err
			}
			in.Options = append(in.Options, s)
		}
		return nil

	case '{':
		var obj struct {
			Text         string            `json:"text"`
			Options      []json.RawMessage `json:"options"`
			Value        json.RawMessage   `json:"value"`
			CustomInputs map[string]string `json:"custom_inputs"`
			Photos       []string          `json:"photos"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		in.Text = obj.Text
		in.CustomInputs = obj.CustomInputs
		in.Photos = obj.Photos
		for _, item := range obj.Options {
			s, err := scalarString(item)
			if err != nil {
				return err
			}
			in.Options = append(in.Options, s)
		}
		if len(obj.Value) > 0 && string(obj.Value) != "null" {
			s, err := scalarString(obj.Value)
			if err != nil {
				return err
			}
			in.Value = s
		}
		return nil

	default:
		// bare number
		in.scalar = string(data)
		return nil
	}
}

func scalarString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func (in AnswerInput) text() string {
	if in.Text != "" {
		return in.Text
	}
	return in.scalar
}

func (in AnswerInput) optionIDs() []string {
	if len(in.Options) > 0 {
		return in.Options
	}
	if in.scalar != "" {
		return []string{in.scalar}
	}
	return nil
}

func (in AnswerInput) scalarValue() string {
	if in.Value != "" {
		return in.Value
	}
	return in.scalar
}

// isEmptyFor reports whether no usable value was supplied for a question of
// the given type.
func (in AnswerInput) isEmptyFor(questionType string) bool {
	switch questionType {
	case model.QuestionTypeSingleChoice, model.QuestionTypeMultipleChoice:
		return len(in.optionIDs()) == 0
	case model.QuestionTypeText, model.QuestionTypeTextarea:
		return in.text() == ""
	default:
		return in.scalarValue() == ""
	}
}

func parseOptionID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
