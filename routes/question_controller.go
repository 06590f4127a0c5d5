package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/httpx"
	"github.com/formdesk/formdesk/log"
	"github.com/formdesk/formdesk/model"
)

type optionForm struct {
	Text       string `json:"text" validate:"required,max=500"`
	Value      string `json:"value" validate:"max=100"`
	IsOther    bool   `json:"is_other"`
	AllowInput bool   `json:"allow_input"`
	IsCorrect  bool   `json:"is_correct"`
}

type questionForm struct {
	QuestionnaireID uint                 `json:"questionnaire_id"`
	Title           string               `json:"title" validate:"required,max=500"`
	Description     string               `json:"description"`
	Type            string               `json:"question_type" validate:"required,oneof=single_choice multiple_choice text textarea rating date"`
	IsRequired      bool                 `json:"is_required"`
	SortOrder       int                  `json:"sort_order"`
	Config          model.QuestionConfig `json:"config"`
	Options         []optionForm         `json:"options" validate:"dive"`
}

func optionsFromForm(questionID uint, forms []optionForm) []model.Option {
	options := make([]model.Option, 0, len(forms))
	for i, form := range forms {
		options = append(options, model.Option{
			QuestionID: questionID,
			Text:       form.Text,
			Value:      form.Value,
			SortOrder:  i,
			IsOther:    form.IsOther,
			AllowInput: form.AllowInput,
			IsCorrect:  form.IsCorrect,
		})
	}
	return options
}

func ListQuestions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var questions []model.Question
		err = app.WithContext(r.Context()).
			Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
			Where("questionnaire_id = ?", id).
			Order("sort_order ASC").
			Find(&questions).Error
		if err != nil {
			httpx.LogInternalError(w, "db.get_questions", err)
			return
		}

		httpx.Success(w, r, "ok", questions)
	}
}

func SaveQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form questionForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if form.QuestionnaireID == 0 {
			httpx.Fail(w, r, "missing questionnaire id")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		var questionnaire model.Questionnaire
		err := app.WithContext(r.Context()).First(&questionnaire, form.QuestionnaireID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "save_question.questionnaire", form.QuestionnaireID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		question := model.Question{
			QuestionnaireID: form.QuestionnaireID,
			Title:           form.Title,
			Description:     form.Description,
			Type:            form.Type,
			IsRequired:      form.IsRequired,
			SortOrder:       form.SortOrder,
			Config:          datatypes.NewJSONType(form.Config),
		}

		err = app.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			if !question.HasOptions() || len(form.Options) == 0 {
				return nil
			}
			options := optionsFromForm(question.ID, form.Options)
			return tx.Create(&options).Error
		})
		if err != nil {
			httpx.LogInternalError(w, "db.insert_question", err)
			return
		}

		httpx.Success(w, r, "saved", map[string]any{"id": question.ID})
	}
}

func GetQuestionById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var question model.Question
		err = app.WithContext(r.Context()).
			Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
			First(&question, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "get_question", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_question", err)
			return
		}

		httpx.Success(w, r, "ok", question)
	}
}

// UpdateQuestion rewrites the question and replaces its options wholesale.
func UpdateQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var form questionForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		var question model.Question
		err = app.WithContext(r.Context()).First(&question, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "update_question", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_question", err)
			return
		}

		question.Title = form.Title
		question.Description = form.Description
		question.Type = form.Type
		question.IsRequired = form.IsRequired
		question.SortOrder = form.SortOrder
		question.Config = datatypes.NewJSONType(form.Config)

		err = app.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&question).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id = ?", question.ID).Delete(&model.Option{}).Error; err != nil {
				return err
			}
			if !question.HasOptions() || len(form.Options) == 0 {
				return nil
			}
			options := optionsFromForm(question.ID, form.Options)
			return tx.Create(&options).Error
		})
		if err != nil {
			httpx.LogInternalError(w, "db.update_question", err)
			return
		}

		httpx.Success(w, r, "updated", nil)
	}
}

func DeleteQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		result := app.WithContext(r.Context()).Delete(&model.Question{}, id)
		if result.Error != nil {
			httpx.LogInternalError(w, "db.delete_question", result.Error)
			return
		}
		if result.RowsAffected == 0 {
			httpx.LogNotFound(w, "delete_question", id)
			return
		}

		httpx.Success(w, r, "deleted", nil)
	}
}
