package survey

import (
	"math"
	"time"

	"github.com/formdesk/formdesk/model"
	"gorm.io/gorm"
)

// Overview is the completion rollup over a set of responses.
type Overview struct {
	Total          int64   `json:"total_responses"`
	Completed      int64   `json:"completed_responses"`
	InProgress     int64   `json:"in_progress_responses"`
	CompletionRate float64 `json:"completion_rate"`
}

// GetOverview computes response counts and the completion rate, scoped to
// one questionnaire when questionnaireID is non-nil.
func GetOverview(db *gorm.DB, questionnaireID *uint) (Overview, error) {
	query := db.Model(&model.Response{})
	if questionnaireID != nil {
		query = query.Where("questionnaire_id = ?", *questionnaireID)
	}

	var out Overview
	if err := query.Session(&gorm.Session{}).Count(&out.Total).Error; err != nil {
		return out, err
	}
	err := query.Session(&gorm.Session{}).
		Where("status = ?", model.ResponseStatusCompleted).
		Count(&out.Completed).Error
	if err != nil {
		return out, err
	}
	out.InProgress = out.Total - out.Completed
	if out.Total > 0 {
		out.CompletionRate = math.Round(float64(out.Completed)/float64(out.Total)*100*100) / 100
	}
	return out, nil
}

// TrendPoint is one day's response count; Date is rendered "MM-DD".
type TrendPoint struct {
	Date      string `json:"date"`
	Responses int64  `json:"responses"`
}

// ResponseTrend buckets responses by their start date over the trailing
// `days` days (today included), oldest first. Days without responses appear
// with a zero count.
func ResponseTrend(db *gorm.DB, now time.Time, days int) ([]TrendPoint, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	oldest := today.AddDate(0, 0, -(days - 1))

	var rows []struct {
		Day string
		N   int64
	}
	err := db.Model(&model.Response{}).
		Select("date(start_time) AS day, count(*) AS n").
		Where("start_time >= ?", oldest).
		Group("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Day] = row.N
	}

	trend := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := oldest.AddDate(0, 0, i)
		trend = append(trend, TrendPoint{
			Date:      day.Format("01-02"),
			Responses: counts[day.Format("2006-01-02")],
		})
	}
	return trend, nil
}

// CountResponsesOn counts responses whose start date falls on the given
// day.
func CountResponsesOn(db *gorm.DB, day time.Time) (int64, error) {
	var n int64
	err := db.Model(&model.Response{}).
		Where("date(start_time) = ?", day.Format("2006-01-02")).
		Count(&n).Error
	return n, err
}
