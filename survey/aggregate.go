package survey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/formdesk/formdesk/model"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Duration returns the seconds between start and submit, or nil while the
// response is still in progress.
func Duration(r model.Response) *int {
	if r.SubmitTime == nil {
		return nil
	}
	seconds := int(r.SubmitTime.Sub(r.StartTime).Seconds())
	return &seconds
}

func DurationText(r model.Response) string {
	duration := Duration(r)
	if duration == nil {
		return "incomplete"
	}
	minutes := *duration / 60
	seconds := *duration % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// OptionTexts resolves an answer's stored option ids to their labels, in
// the order they were selected.
func OptionTexts(a model.Answer, options []model.Option) []string {
	byID := lo.KeyBy(options, func(o model.Option) uint { return o.ID })
	var texts []string
	for _, id := range a.GetOptionIDs() {
		if opt, ok := byID[id]; ok {
			texts = append(texts, opt.Text)
		}
	}
	return texts
}

// DisplayValue renders an answer for humans: free text wins, then resolved
// option labels (with the custom input in parentheses where the option
// allows one), then the scalar value, then the empty string. It is a pure
// function of its arguments, so repeated calls agree.
func DisplayValue(a model.Answer, options []model.Option) string {
	if a.Text != "" {
		return a.Text
	}
	if a.OptionIDs != "" {
		byID := lo.KeyBy(options, func(o model.Option) uint { return o.ID })
		inputs := a.CustomInputs.Data()
		var parts []string
		for _, id := range a.GetOptionIDs() {
			opt, ok := byID[id]
			if !ok {
				continue
			}
			label := opt.Text
			if opt.AllowInput {
				if text, ok := inputs[strconv.FormatUint(uint64(id), 10)]; ok && text != "" {
					label = fmt.Sprintf("%s (%s)", label, text)
				}
			}
			parts = append(parts, label)
		}
		return strings.Join(parts, ", ")
	}
	if a.Value != "" {
		return a.Value
	}
	return ""
}

// ValidateCompletion reports whether every required question has an answer
// with content; when one is missing, the second return is that question's
// title.
func ValidateCompletion(questions []model.Question, answers []model.Answer) (bool, string) {
	byQuestion := lo.KeyBy(answers, func(a model.Answer) uint { return a.QuestionID })
	for _, question := range questions {
		if !question.IsRequired {
			continue
		}
		answer, ok := byQuestion[question.ID]
		if !ok || !answer.HasContent() {
			return false, question.Title
		}
	}
	return true, ""
}

// LoadResponseView fetches a response with its answers plus the parent
// questionnaire's ordered questions and options, ready for display or
// export.
func LoadResponseView(db *gorm.DB, responseID uint) (*model.Response, *model.Questionnaire, error) {
	var response model.Response
	if err := db.Preload("Answers").First(&response, responseID).Error; err != nil {
		return nil, nil, err
	}
	var questionnaire model.Questionnaire
	err := db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&questionnaire, response.QuestionnaireID).Error
	if err != nil {
		return nil, nil, err
	}
	return &response, &questionnaire, nil
}
