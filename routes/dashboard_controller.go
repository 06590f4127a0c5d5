package routes

import (
	"net/http"
	"time"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/httpx"
	"github.com/formdesk/formdesk/model"
	"github.com/formdesk/formdesk/survey"
)

// DashboardStats aggregates the numbers shown on the admin landing page:
// questionnaire and response totals, today's activity, and the 7 and 30 day
// response trends.
func DashboardStats(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		db := app.WithContext(r.Context())
		now := time.Now()

		var questionnaires, published int64
		if err := db.Model(&model.Questionnaire{}).Count(&questionnaires).Error; err != nil {
			httpx.LogInternalError(w, "db.count_questionnaires", err)
			return
		}
		err := db.Model(&model.Questionnaire{}).
			Where("status = ?", model.QuestionnaireStatusPublished).
			Count(&published).Error
		if err != nil {
			httpx.LogInternalError(w, "db.count_published", err)
			return
		}

		overview, err := survey.GetOverview(db, nil)
		if err != nil {
			httpx.LogInternalError(w, "db.get_overview", err)
			return
		}

		responsesToday, err := survey.CountResponsesOn(db, now)
		if err != nil {
			httpx.LogInternalError(w, "db.count_responses_today", err)
			return
		}

		var confirmsToday int64
		err = db.Model(&model.NoticeConfirm{}).
			Where("date(created_at) = ?", now.Format("2006-01-02")).
			Count(&confirmsToday).Error
		if err != nil {
			httpx.LogInternalError(w, "db.count_confirms_today", err)
			return
		}

		trendWeek, err := survey.ResponseTrend(db, now, 7)
		if err != nil {
			httpx.LogInternalError(w, "db.get_trend_week", err)
			return
		}
		trendMonth, err := survey.ResponseTrend(db, now, 30)
		if err != nil {
			httpx.LogInternalError(w, "db.get_trend_month", err)
			return
		}

		httpx.Success(w, r, "ok", map[string]any{
			"questionnaires":           questionnaires,
			"published_questionnaires": published,
			"responses":                overview,
			"responses_today":          responsesToday,
			"notice_confirms_today":    confirmsToday,
			"trend_week":               trendWeek,
			"trend_month":              trendMonth,
		})
	}
}
