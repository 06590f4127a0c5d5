package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/model"
)

func testApp(t *testing.T) app.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Questionnaire{},
		&model.Question{},
		&model.Option{},
		&model.Response{},
		&model.Answer{},
	))

	return app.App{DB: db, Validate: app.NewValidator()}
}

func TestQuestionnaireToRow(t *testing.T) {
	a := testApp(t)

	questionnaire := model.Questionnaire{
		Title:  "Canteen Feedback",
		Status: model.QuestionnaireStatusPublished,
	}
	require.NoError(t, a.Create(&questionnaire).Error)
	require.NoError(t, a.Create(&[]model.Question{
		{QuestionnaireID: questionnaire.ID, Title: "q1", Type: model.QuestionTypeText},
		{QuestionnaireID: questionnaire.ID, Title: "q2", Type: model.QuestionTypeRating},
	}).Error)
	require.NoError(t, a.Create(&[]model.Response{
		{QuestionnaireID: questionnaire.ID, Status: model.ResponseStatusCompleted},
		{QuestionnaireID: questionnaire.ID, Status: model.ResponseStatusCompleted},
		{QuestionnaireID: questionnaire.ID, Status: model.ResponseStatusInProgress},
	}).Error)

	row, err := questionnaireToRow(a, questionnaire)
	require.NoError(t, err)
	assert.Equal(t, "published", row.StatusText)
	assert.Equal(t, int64(2), row.ResponseCount)
	assert.Equal(t, int64(2), row.QuestionCount)
}

func TestQuestionnaireToRowReportsQueryErrors(t *testing.T) {
	a := testApp(t)

	questionnaire := model.Questionnaire{Title: "broken"}
	require.NoError(t, a.Create(&questionnaire).Error)

	// losing the response table makes the count query fail
	require.NoError(t, a.Migrator().DropTable(&model.Response{}))

	_, err := questionnaireToRow(a, questionnaire)
	assert.Error(t, err)
}
