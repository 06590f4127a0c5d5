package survey

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/formdesk/formdesk/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionInput is the decoded body of a submission request. Answers are
// keyed by question id.
type SubmissionInput struct {
	Phone   string                 `json:"phone" validate:"required,cnmobile"`
	Name    string                 `json:"name" validate:"max=50"`
	Answers map[string]AnswerInput `json:"answers" validate:"required"`
}

// SubmissionMeta carries the request-scoped facts the workflow needs; they
// are passed in explicitly so the workflow never reads ambient request
// state.
type SubmissionMeta struct {
	UserID    *uint
	IP        string
	UserAgent string
}

// Submit runs one submission attempt: eligibility check, required-field
// check, per-answer validation, then a single transaction persisting the
// response and all its answers. Business-rule rejections come back as
// EligibilityError or ValidationError and persist nothing; unexpected write
// failures roll back and come back as PersistenceError.
//
// The capacity check and the insert are not serialized against concurrent
// submissions, so two requests racing a max-responses cap can both pass it.
func Submit(ctx context.Context, db *gorm.DB, questionnaireID uint, in SubmissionInput, meta SubmissionMeta) (*model.Response, error) {
	var questionnaire model.Questionnaire
	err := db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&questionnaire, questionnaireID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionnaireNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := checkEligibility(ctx, db, &questionnaire, now); err != nil {
		return nil, err
	}

	if !MobilePattern.MatchString(in.Phone) {
		return nil, &ValidationError{Message: "invalid phone number"}
	}

	for _, question := range questionnaire.Questions {
		if !question.IsRequired {
			continue
		}
		answer, ok := in.Answers[strconv.FormatUint(uint64(question.ID), 10)]
		if !ok || answer.isEmptyFor(question.Type) {
			return nil, validationf("question %q is a required field", question.Title)
		}
	}

	known := make(map[string]bool, len(questionnaire.Questions))
	for _, question := range questionnaire.Questions {
		known[strconv.FormatUint(uint64(question.ID), 10)] = true
	}
	for submitted := range in.Answers {
		if !known[submitted] {
			return nil, validationf("unknown question %s", submitted)
		}
	}

	var answers []model.Answer
	for _, question := range questionnaire.Questions {
		input, ok := in.Answers[strconv.FormatUint(uint64(question.ID), 10)]
		if !ok || input.isEmptyFor(question.Type) {
			continue
		}
		if err := ValidateAnswer(question, input); err != nil {
			return nil, err
		}
		answers = append(answers, buildAnswer(question, input))
	}

	response := model.Response{
		QuestionnaireID: questionnaire.ID,
		UserID:          meta.UserID,
		Phone:           in.Phone,
		Name:            in.Name,
		IPAddress:       meta.IP,
		UserAgent:       meta.UserAgent,
		Status:          model.ResponseStatusCompleted,
		StartTime:       now,
		SubmitTime:      &now,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Answers").Create(&response).Error; err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].ResponseID = response.ID
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "response_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"answer_text", "answer_option_ids", "answer_value", "custom_inputs", "photos",
			}),
		}).Create(&answers).Error
	})
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	response.Answers = answers
	return &response, nil
}

func checkEligibility(ctx context.Context, db *gorm.DB, q *model.Questionnaire, now time.Time) error {
	if !q.IsPublished() {
		return &EligibilityError{Message: "questionnaire is not open"}
	}
	if q.StartTime != nil && now.Before(*q.StartTime) {
		return &EligibilityError{Message: "questionnaire is not yet open"}
	}
	if q.EndTime != nil && now.After(*q.EndTime) {
		return &EligibilityError{Message: "questionnaire is closed"}
	}
	if q.MaxResponses != nil {
		var completed int64
		err := db.WithContext(ctx).Model(&model.Response{}).
			Where("questionnaire_id = ? AND status = ?", q.ID, model.ResponseStatusCompleted).
			Count(&completed).Error
		if err != nil {
			return err
		}
		if completed >= int64(*q.MaxResponses) {
			return &EligibilityError{Message: "response cap reached"}
		}
	}
	return nil
}

// buildAnswer maps the input onto the one payload shape the question's type
// implies.
func buildAnswer(q model.Question, in AnswerInput) model.Answer {
	answer := model.Answer{QuestionID: q.ID}

	switch q.Type {
	case model.QuestionTypeSingleChoice, model.QuestionTypeMultipleChoice:
		var ids []uint
		for _, s := range in.optionIDs() {
			if id, ok := parseOptionID(s); ok {
				ids = append(ids, id)
			}
		}
		answer.SetOptionIDs(ids)
		if inputs := customInputsFor(q.Options, ids, in.CustomInputs); len(inputs) > 0 {
			answer.CustomInputs = datatypes.NewJSONType(inputs)
		}

	case model.QuestionTypeText, model.QuestionTypeTextarea:
		answer.Text = in.text()

	case model.QuestionTypeRating:
		rating, _ := strconv.ParseFloat(in.scalarValue(), 64)
		answer.Value = strconv.FormatFloat(rating, 'f', -1, 64)

	case model.QuestionTypeDate:
		answer.Value = in.scalarValue()
	}

	if len(in.Photos) > 0 {
		answer.Photos = in.Photos
	}
	return answer
}

// customInputsFor keeps only the free-text inputs attached to selected
// options that actually allow custom input.
func customInputsFor(options []model.Option, selected []uint, inputs map[string]string) map[string]string {
	if len(inputs) == 0 {
		return nil
	}
	allowed := make(map[uint]bool, len(options))
	for _, opt := range options {
		if opt.AllowInput {
			allowed[opt.ID] = true
		}
	}
	kept := make(map[string]string)
	for _, id := range selected {
		key := strconv.FormatUint(uint64(id), 10)
		if text, ok := inputs[key]; ok && text != "" && allowed[id] {
			kept[key] = text
		}
	}
	return kept
}
