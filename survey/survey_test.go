package survey

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/formdesk/formdesk/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&model.Questionnaire{},
		&model.Question{},
		&model.Option{},
		&model.Response{},
		&model.Answer{},
	)
	require.NoError(t, err)

	return db
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func strAnswer(s string) AnswerInput {
	return AnswerInput{scalar: s}
}
