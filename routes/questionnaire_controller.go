package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"gorm.io/gorm"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/httpx"
	"github.com/formdesk/formdesk/log"
	"github.com/formdesk/formdesk/model"
	"github.com/formdesk/formdesk/routes/middlewares"
	"github.com/formdesk/formdesk/survey"
)

type questionnaireForm struct {
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description"`
	Type           string `json:"questionnaire_type" validate:"omitempty,oneof=survey feedback evaluation registration"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	MaxResponses   *int   `json:"max_responses" validate:"omitempty,min=1"`
	AllowAnonymous *bool  `json:"allow_anonymous"`
	RequireLogin   *bool  `json:"require_login"`
	SortOrder      int    `json:"sort_order"`
}

type questionnaireRow struct {
	model.Questionnaire
	StatusText    string `json:"status_text"`
	ResponseCount int64  `json:"response_count"`
	QuestionCount int64  `json:"question_count"`
}

func questionnaireToRow(app app.App, q model.Questionnaire) (questionnaireRow, error) {
	row := questionnaireRow{Questionnaire: q, StatusText: q.StatusText()}
	err := app.Model(&model.Response{}).
		Where("questionnaire_id = ? AND status = ?", q.ID, model.ResponseStatusCompleted).
		Count(&row.ResponseCount).Error
	if err != nil {
		return row, err
	}
	err = app.Model(&model.Question{}).
		Where("questionnaire_id = ?", q.ID).
		Count(&row.QuestionCount).Error
	return row, err
}

func ListQuestionnaires(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := pagination(r)

		query := app.WithContext(r.Context()).Model(&model.Questionnaire{})
		if title := r.URL.Query().Get("title"); title != "" {
			query = query.Where("title LIKE ?", "%"+title+"%")
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			httpx.LogInternalError(w, "db.get_questionnaires.count", err)
			return
		}

		var questionnaires []model.Questionnaire
		err := query.Order("sort_order ASC").
			Offset((page - 1) * limit).Limit(limit).
			Find(&questionnaires).Error
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaires", err)
			return
		}

		rows := make([]questionnaireRow, 0, len(questionnaires))
		for _, q := range questionnaires {
			row, err := questionnaireToRow(app, q)
			if err != nil {
				httpx.LogInternalError(w, "db.get_questionnaires.counts", err)
				return
			}
			rows = append(rows, row)
		}
		httpx.Table(w, r, count, rows)
	}
}

func CreateQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form questionnaireForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		startTime, err := parseTimePtr(form.StartTime)
		if err != nil {
			httpx.Fail(w, r, "invalid start time format")
			return
		}
		endTime, err := parseTimePtr(form.EndTime)
		if err != nil {
			httpx.Fail(w, r, "invalid end time format")
			return
		}

		questionnaire := model.Questionnaire{
			Title:        form.Title,
			Description:  form.Description,
			Type:         form.Type,
			Status:       model.QuestionnaireStatusDraft,
			CreatorID:    middlewares.UserID(r),
			StartTime:    startTime,
			EndTime:      endTime,
			MaxResponses: form.MaxResponses,
			SortOrder:    form.SortOrder,
		}
		if questionnaire.Type == "" {
			questionnaire.Type = model.QuestionnaireTypeSurvey
		}
		questionnaire.AllowAnonymous = form.AllowAnonymous == nil || *form.AllowAnonymous
		questionnaire.RequireLogin = form.RequireLogin != nil && *form.RequireLogin

		if err := app.WithContext(r.Context()).Create(&questionnaire).Error; err != nil {
			httpx.LogInternalError(w, "db.insert_questionnaire", err)
			return
		}

		httpx.Success(w, r, "created", map[string]any{"id": questionnaire.ID})
	}
}

func GetQuestionnaireById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var questionnaire model.Questionnaire
		err = app.WithContext(r.Context()).First(&questionnaire, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "get_questionnaire", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		row, err := questionnaireToRow(app, questionnaire)
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire.counts", err)
			return
		}

		httpx.Success(w, r, "ok", row)
	}
}

func UpdateQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var form questionnaireForm
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := app.Validate.Struct(form); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		startTime, err := parseTimePtr(form.StartTime)
		if err != nil {
			httpx.Fail(w, r, "invalid start time format")
			return
		}
		endTime, err := parseTimePtr(form.EndTime)
		if err != nil {
			httpx.Fail(w, r, "invalid end time format")
			return
		}

		updates := map[string]any{
			"title":         form.Title,
			"description":   form.Description,
			"start_time":    startTime,
			"end_time":      endTime,
			"max_responses": form.MaxResponses,
			"sort_order":    form.SortOrder,
		}
		if form.Type != "" {
			updates["questionnaire_type"] = form.Type
		}
		if form.AllowAnonymous != nil {
			updates["allow_anonymous"] = *form.AllowAnonymous
		}
		if form.RequireLogin != nil {
			updates["require_login"] = *form.RequireLogin
		}

		result := app.WithContext(r.Context()).
			Model(&model.Questionnaire{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			httpx.LogInternalError(w, "db.update_questionnaire", result.Error)
			return
		}
		if result.RowsAffected == 0 {
			httpx.LogNotFound(w, "update_questionnaire", id)
			return
		}

		httpx.Success(w, r, "updated", nil)
	}
}

// ChangeQuestionnaireStatus moves a questionnaire through its lifecycle;
// publishing first checks the structural preconditions.
func ChangeQuestionnaireStatus(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var body struct {
			Status int `json:"status"`
		}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if body.Status < model.QuestionnaireStatusDraft || body.Status > model.QuestionnaireStatusArchived {
			httpx.Fail(w, r, "invalid status")
			return
		}

		var questionnaire model.Questionnaire
		err = app.WithContext(r.Context()).
			Preload("Questions.Options").
			First(&questionnaire, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "change_questionnaire_status", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		if body.Status == model.QuestionnaireStatusPublished {
			if err := survey.CheckPublishable(questionnaire.Questions); err != nil {
				httpx.Fail(w, r, err.Error())
				return
			}
		}

		err = app.WithContext(r.Context()).
			Model(&questionnaire).
			Update("status", body.Status).Error
		if err != nil {
			httpx.LogInternalError(w, "db.update_questionnaire.status", err)
			return
		}

		httpx.Success(w, r, "updated", nil)
	}
}

func DeleteQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		// questions, options, responses and answers go with it through the
		// FK cascades
		result := app.WithContext(r.Context()).Delete(&model.Questionnaire{}, id)
		if result.Error != nil {
			httpx.LogInternalError(w, "db.delete_questionnaire", result.Error)
			return
		}
		if result.RowsAffected == 0 {
			httpx.LogNotFound(w, "delete_questionnaire", id)
			return
		}

		httpx.Success(w, r, "deleted", nil)
	}
}
