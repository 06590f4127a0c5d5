package database

import (
	"time"

	"github.com/formdesk/formdesk/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Open(cfg config.Config) (db *gorm.DB, err error) {
	// _foreign_keys applies to every pooled connection, which a one-off
	// PRAGMA would not
	db, err = gorm.Open(sqlite.Open(cfg.DBUrl+"?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	// db tuning options
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(2 * time.Hour)

	if err = migrateDB(sqlDB); err != nil {
		sqlDB.Close()
		return
	}

	if err = Seed(db); err != nil {
		sqlDB.Close()
		return
	}

	return
}
