package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/formdesk/formdesk/app"
	"github.com/formdesk/formdesk/config"
	"github.com/formdesk/formdesk/database"
	"github.com/formdesk/formdesk/httpx"
	"github.com/formdesk/formdesk/log"
	"github.com/formdesk/formdesk/routes"
	"github.com/formdesk/formdesk/survey"
)

const staleResponseAge = 48 * time.Hour

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	bearerServer := httpx.NewBearerServer(db, cfg)

	app := app.App{
		DB:           db,
		BearerServer: bearerServer,
		Config:       cfg,
		Validate:     app.NewValidator(),
	}

	scheduler := cron.New()
	scheduler.AddFunc("@hourly", func() {
		n, err := survey.CleanupStaleResponses(db, staleResponseAge)
		if err != nil {
			log.Errorf("janitor.cleanup_responses: %s", err)
			return
		}
		if n > 0 {
			log.Infof("janitor.cleanup_responses: removed %d stale responses", n)
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
