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

func PublicGetQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var questionnaire model.Questionnaire
		err = app.WithContext(r.Context()).
			Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
			Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
			First(&questionnaire, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "get_questionnaire", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		if !questionnaire.IsPublished() {
			httpx.LogNotFound(w, "get_questionnaire.unpublished", id)
			return
		}

		render.JSON(w, r, questionnaire)
	}
}

func PublicSubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var input survey.SubmissionInput
		if err := render.DecodeJSON(r.Body, &input); err != nil {
			httpx.Fail(w, r, "malformed request body")
			return
		}
		if err := app.Validate.Struct(input); err != nil {
			httpx.Fail(w, r, validationMessage(err))
			return
		}

		meta := survey.SubmissionMeta{
			UserID:    middlewares.UserID(r),
			IP:        clientIP(r),
			UserAgent: r.UserAgent(),
		}

		response, err := survey.Submit(r.Context(), app.DB, id, input, meta)
		if err != nil {
			var (
				validationErr  *survey.ValidationError
				eligibilityErr *survey.EligibilityError
				persistenceErr *survey.PersistenceError
			)
			switch {
			case errors.Is(err, survey.ErrQuestionnaireNotFound):
				httpx.LogNotFound(w, "submit_response.questionnaire", id)
			case errors.As(err, &validationErr), errors.As(err, &eligibilityErr):
				httpx.Fail(w, r, err.Error())
			case errors.As(err, &persistenceErr):
				log.Errorf("submit_response.persist: %s", persistenceErr.Err)
				httpx.Fail(w, r, persistenceErr.Error())
			default:
				httpx.LogInternalError(w, "submit_response", err)
			}
			return
		}

		httpx.Success(w, r, "submitted", map[string]any{"response_id": response.ID})
	}
}
