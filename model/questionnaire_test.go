package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(n int) *int              { return &n }

func TestQuestionnaireStatusText(t *testing.T) {
	for status, want := range map[int]string{
		QuestionnaireStatusDraft:     "draft",
		QuestionnaireStatusPublished: "published",
		QuestionnaireStatusStopped:   "stopped",
		QuestionnaireStatusArchived:  "archived",
		42:                           "unknown",
	} {
		q := Questionnaire{Status: status}
		assert.Equal(t, want, q.StatusText())
	}
}

func TestCanSubmit(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	q := Questionnaire{Status: QuestionnaireStatusPublished}
	assert.True(t, q.CanSubmit(now, 0))

	q.Status = QuestionnaireStatusDraft
	assert.False(t, q.CanSubmit(now, 0))
	q.Status = QuestionnaireStatusStopped
	assert.False(t, q.CanSubmit(now, 0))
	q.Status = QuestionnaireStatusArchived
	assert.False(t, q.CanSubmit(now, 0))
}

func TestCanSubmitWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	q := Questionnaire{
		Status:    QuestionnaireStatusPublished,
		StartTime: timePtr(now.Add(-time.Hour)),
		EndTime:   timePtr(now.Add(time.Hour)),
	}
	assert.True(t, q.CanSubmit(now, 0))

	q.StartTime = timePtr(now.Add(time.Minute))
	assert.False(t, q.CanSubmit(now, 0))

	q.StartTime = nil
	q.EndTime = timePtr(now.Add(-time.Minute))
	assert.False(t, q.CanSubmit(now, 0))
}

func TestCanSubmitCap(t *testing.T) {
	now := time.Now()
	q := Questionnaire{
		Status:       QuestionnaireStatusPublished,
		MaxResponses: intPtr(2),
	}
	assert.True(t, q.CanSubmit(now, 0))
	assert.True(t, q.CanSubmit(now, 1))
	assert.False(t, q.CanSubmit(now, 2))
	assert.False(t, q.CanSubmit(now, 3))
}

func TestAnswerOptionIDs(t *testing.T) {
	var a Answer
	a.SetOptionIDs([]uint{3, 1, 2})
	assert.Equal(t, "3,1,2", a.OptionIDs)
	assert.Equal(t, []uint{3, 1, 2}, a.GetOptionIDs())

	a.OptionIDs = ""
	assert.Nil(t, a.GetOptionIDs())

	// junk segments are skipped
	a.OptionIDs = "1, x,2,"
	assert.Equal(t, []uint{1, 2}, a.GetOptionIDs())
}

func TestOptionDisplayText(t *testing.T) {
	assert.Equal(t, "Taste", (&Option{Text: "Taste"}).DisplayText())
	assert.Equal(t, "Something else (other)", (&Option{Text: "Something else", IsOther: true}).DisplayText())
}

func TestNoticeIsActive(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	n := Notice{Status: NoticeStatusEnabled}
	assert.True(t, n.IsActive(now))

	n.Status = NoticeStatusDisabled
	assert.False(t, n.IsActive(now))

	n = Notice{
		Status:        NoticeStatusEnabled,
		EffectiveDate: timePtr(now.Add(time.Hour)),
	}
	assert.False(t, n.IsActive(now))

	n = Notice{
		Status:     NoticeStatusEnabled,
		ExpiryDate: timePtr(now.Add(-time.Hour)),
	}
	assert.False(t, n.IsActive(now))
}
