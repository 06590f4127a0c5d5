package routes

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/httpx"
	"github.com/formdesk/formdesk/log"
	"github.com/formdesk/formdesk/model"
	"github.com/formdesk/formdesk/survey"
)

type responseRow struct {
	model.Response
	StatusText   string `json:"status_text"`
	DurationText string `json:"duration_text"`
}

type answerView struct {
	QuestionID    uint     `json:"question_id"`
	QuestionTitle string   `json:"question_title"`
	QuestionType  string   `json:"question_type"`
	DisplayValue  string   `json:"display_value"`
	OptionTexts   []string `json:"option_texts,omitempty"`
	Photos        []string `json:"photos,omitempty"`
}

func ListResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		page, limit := pagination(r)
		query := app.WithContext(r.Context()).
			Model(&model.Response{}).
			Where("questionnaire_id = ?", id)

		if status := r.URL.Query().Get("status"); status != "" {
			s, err := strconv.Atoi(status)
			if err != nil {
				httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_query_param.status")
				return
			}
			query = query.Where("status = ?", s)
		}
		if phone := r.URL.Query().Get("phone"); phone != "" {
			query = query.Where("phone LIKE ?", "%"+phone+"%")
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			httpx.LogInternalError(w, "db.count_responses", err)
			return
		}

		var responses []model.Response
		err = query.
			Order("start_time DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&responses).Error
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		rows := make([]responseRow, len(responses))
		for i, response := range responses {
			rows[i] = responseRow{
				Response:     response,
				StatusText:   response.StatusText(),
				DurationText: survey.DurationText(response),
			}
		}

		httpx.Table(w, r, count, rows)
	}
}

func GetResponseById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		response, questionnaire, err := survey.LoadResponseView(app.WithContext(r.Context()), id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.LogNotFound(w, "get_response", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_response", err)
			return
		}

		answersByQuestion := make(map[uint]model.Answer, len(response.Answers))
		for _, answer := range response.Answers {
			answersByQuestion[answer.QuestionID] = answer
		}

		answers := make([]answerView, 0, len(questionnaire.Questions))
		for _, question := range questionnaire.Questions {
			view := answerView{
				QuestionID:    question.ID,
				QuestionTitle: question.Title,
				QuestionType:  question.Type,
			}
			if answer, ok := answersByQuestion[question.ID]; ok {
				view.DisplayValue = survey.DisplayValue(answer, question.Options)
				if question.HasOptions() {
					view.OptionTexts = survey.OptionTexts(answer, question.Options)
				}
				view.Photos = answer.Photos
			}
			answers = append(answers, view)
		}

		httpx.Success(w, r, "ok", map[string]any{
			"response":            responseRow{Response: *response, StatusText: response.StatusText(), DurationText: survey.DurationText(*response)},
			"questionnaire_title": questionnaire.Title,
			"answers":             answers,
		})
	}
}

func DeleteResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		result := app.WithContext(r.Context()).Delete(&model.Response{}, id)
		if result.Error != nil {
			httpx.LogInternalError(w, "db.delete_response", result.Error)
			return
		}
		if result.RowsAffected == 0 {
			httpx.LogNotFound(w, "delete_response", id)
			return
		}

		httpx.Success(w, r, "deleted", nil)
	}
}
