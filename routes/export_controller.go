package routes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"gorm.io/gorm"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/httpx"
	"github.com/formdesk/formdesk/log"
	"github.com/formdesk/formdesk/model"
	"github.com/formdesk/formdesk/survey"
)

type exportedResponse struct {
	ID         uint              `json:"id"`
	Phone      string            `json:"phone"`
	Name       string            `json:"name"`
	Status     string            `json:"status"`
	StartTime  string            `json:"start_time"`
	SubmitTime string            `json:"submit_time"`
	Duration   string            `json:"duration"`
	Answers    map[string]string `json:"answers"`
}

// ExportResponses streams all of a questionnaire's responses as CSV
// (default) or JSON, one row per response with a column per question.
func ExportResponses(app app.App) http.HandlerFunc {
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
			httpx.LogNotFound(w, "export_responses.questionnaire", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		var responses []model.Response
		err = app.WithContext(r.Context()).
			Preload("Answers").
			Where("questionnaire_id = ?", id).
			Order("start_time ASC").
			Find(&responses).Error
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		stamp := time.Now().Format("20060102150405")
		if r.URL.Query().Get("format") == "json" {
			exportJSON(w, r, questionnaire, responses, stamp)
			return
		}
		exportCSV(w, questionnaire, responses, stamp)
	}
}

func exportJSON(w http.ResponseWriter, r *http.Request, questionnaire model.Questionnaire, responses []model.Response, stamp string) {
	out := make([]exportedResponse, 0, len(responses))
	for _, response := range responses {
		answersByQuestion := make(map[uint]model.Answer, len(response.Answers))
		for _, answer := range response.Answers {
			answersByQuestion[answer.QuestionID] = answer
		}

		answers := make(map[string]string, len(questionnaire.Questions))
		for _, question := range questionnaire.Questions {
			value := ""
			if answer, ok := answersByQuestion[question.ID]; ok {
				value = survey.DisplayValue(answer, question.Options)
			}
			answers[question.Title] = value
		}

		submitTime := ""
		if response.SubmitTime != nil {
			submitTime = response.SubmitTime.Format(timeLayout)
		}
		out = append(out, exportedResponse{
			ID:         response.ID,
			Phone:      response.Phone,
			Name:       response.Name,
			Status:     response.StatusText(),
			StartTime:  response.StartTime.Format(timeLayout),
			SubmitTime: submitTime,
			Duration:   survey.DurationText(response),
			Answers:    answers,
		})
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="responses_%d_%s.json"`, questionnaire.ID, stamp))
	render.JSON(w, r, map[string]any{
		"questionnaire": questionnaire.Title,
		"exported_at":   time.Now().Format(timeLayout),
		"count":         len(out),
		"responses":     out,
	})
}

func exportCSV(w http.ResponseWriter, questionnaire model.Questionnaire, responses []model.Response, stamp string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="responses_%d_%s.csv"`, questionnaire.ID, stamp))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"ID", "Phone", "Name", "Status", "Start Time", "Submit Time", "Duration"}
	for _, question := range questionnaire.Questions {
		header = append(header, question.Title)
	}
	if err := writer.Write(header); err != nil {
		log.Errorf("export_responses: write csv header: %s", err)
		return
	}

	for _, response := range responses {
		answersByQuestion := make(map[uint]model.Answer, len(response.Answers))
		for _, answer := range response.Answers {
			answersByQuestion[answer.QuestionID] = answer
		}

		submitTime := ""
		if response.SubmitTime != nil {
			submitTime = response.SubmitTime.Format(timeLayout)
		}
		row := []string{
			fmt.Sprint(response.ID),
			response.Phone,
			response.Name,
			response.StatusText(),
			response.StartTime.Format(timeLayout),
			submitTime,
			survey.DurationText(response),
		}
		for _, question := range questionnaire.Questions {
			value := ""
			if answer, ok := answersByQuestion[question.ID]; ok {
				value = survey.DisplayValue(answer, question.Options)
			}
			row = append(row, value)
		}
		if err := writer.Write(row); err != nil {
			log.Errorf("export_responses: write csv row: %s", err)
			return
		}
	}
}
