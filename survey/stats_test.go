package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/formdesk/formdesk/model"
)

func seedResponses(t *testing.T, db *gorm.DB, questionnaireID uint, completed, inProgress int, start time.Time) {
	t.Helper()
	for i := 0; i < completed; i++ {
		submit := start.Add(time.Minute)
		require.NoError(t, db.Create(&model.Response{
			QuestionnaireID: questionnaireID,
			Status:          model.ResponseStatusCompleted,
			StartTime:       start,
			SubmitTime:      &submit,
		}).Error)
	}
	for i := 0; i < inProgress; i++ {
		require.NoError(t, db.Create(&model.Response{
			QuestionnaireID: questionnaireID,
			Status:          model.ResponseStatusInProgress,
			StartTime:       start,
		}).Error)
	}
}

func TestGetOverview(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()
	seedResponses(t, db, 1, 2, 1, now)
	seedResponses(t, db, 2, 1, 0, now)

	overview, err := GetOverview(db, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), overview.Total)
	assert.Equal(t, int64(3), overview.Completed)
	assert.Equal(t, int64(1), overview.InProgress)
	assert.Equal(t, 75.0, overview.CompletionRate)

	qid := uint(1)
	overview, err = GetOverview(db, &qid)
	require.NoError(t, err)
	assert.Equal(t, int64(3), overview.Total)
	assert.Equal(t, int64(2), overview.Completed)
	assert.InDelta(t, 66.67, overview.CompletionRate, 0.001)
}

func TestGetOverviewEmpty(t *testing.T) {
	db := openTestDB(t)

	overview, err := GetOverview(db, nil)
	require.NoError(t, err)
	assert.Zero(t, overview.Total)
	assert.Zero(t, overview.CompletionRate)
}

func TestResponseTrend(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()
	seedResponses(t, db, 1, 2, 0, now)
	seedResponses(t, db, 1, 1, 0, now.AddDate(0, 0, -2))
	// outside the window
	seedResponses(t, db, 1, 5, 0, now.AddDate(0, 0, -10))

	trend, err := ResponseTrend(db, now, 7)
	require.NoError(t, err)
	require.Len(t, trend, 7)

	// oldest first, today last
	assert.Equal(t, now.AddDate(0, 0, -6).Format("01-02"), trend[0].Date)
	assert.Equal(t, now.Format("01-02"), trend[6].Date)

	assert.Equal(t, int64(2), trend[6].Responses)
	assert.Equal(t, int64(1), trend[4].Responses)
	assert.Equal(t, int64(0), trend[0].Responses)
	assert.Equal(t, int64(0), trend[5].Responses)
}

func TestCountResponsesOn(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()
	seedResponses(t, db, 1, 3, 1, now)
	seedResponses(t, db, 1, 2, 0, now.AddDate(0, 0, -1))

	n, err := CountResponsesOn(db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = CountResponsesOn(db, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCleanupStaleResponses(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()
	seedResponses(t, db, 1, 1, 1, now)
	seedResponses(t, db, 1, 1, 2, now.Add(-72*time.Hour))

	removed, err := CleanupStaleResponses(db, 48*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	// completed responses are never touched, recent in-progress ones stay
	var count int64
	require.NoError(t, db.Model(&model.Response{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}
