package survey

import (
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/formdesk/formdesk/model"
)

// MobilePattern matches the mobile numbers accepted on submissions and
// notice confirmations.
var MobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

const (
	defaultMinRating = 1.0
	defaultMaxRating = 5.0
)

// ValidateAnswer checks one submitted value against its question's type and
// configuration. It is a pure function over the question (with its options
// preloaded) and the input; required-ness is checked before any type rule.
func ValidateAnswer(q model.Question, in AnswerInput) error {
	empty := in.isEmptyFor(q.Type)
	if q.IsRequired && empty {
		return validationf("question %q is a required field", q.Title)
	}
	if empty {
		return nil
	}

	cfg := q.Config.Data()

	switch q.Type {
	case model.QuestionTypeSingleChoice:
		ids := in.optionIDs()
		if len(ids) != 1 {
			return validationf("question %q expects exactly one option", q.Title)
		}
		if !optionExists(q.Options, ids[0]) {
			return &ValidationError{Message: "selected option does not exist"}
		}

	case model.QuestionTypeMultipleChoice:
		for _, id := range in.optionIDs() {
			if !optionExists(q.Options, id) {
				return validationf("option %s does not exist", id)
			}
		}

	case model.QuestionTypeText, model.QuestionTypeTextarea:
		if cfg.MaxLength != nil && utf8.RuneCountInString(in.text()) > *cfg.MaxLength {
			return validationf("text length must not exceed %d characters", *cfg.MaxLength)
		}

	case model.QuestionTypeRating:
		rating, err := strconv.ParseFloat(in.scalarValue(), 64)
		if err != nil {
			return &ValidationError{Message: "invalid rating format"}
		}
		min, max := defaultMinRating, defaultMaxRating
		if cfg.MinRating != nil {
			min = *cfg.MinRating
		}
		if cfg.MaxRating != nil {
			max = *cfg.MaxRating
		}
		if rating < min || rating > max {
			return validationf("rating must be between %v and %v", min, max)
		}

	case model.QuestionTypeDate:
		// accepted as an opaque string

	default:
		return validationf("unknown question type %q", q.Type)
	}

	return nil
}

func optionExists(options []model.Option, id string) bool {
	parsed, ok := parseOptionID(id)
	if !ok {
		return false
	}
	for _, opt := range options {
		if opt.ID == parsed {
			return true
		}
	}
	return false
}
