package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"hermannm.dev/devlog"
	"hermannm.dev/devlog/log"
	"hermannm.dev/timereport/api"
	"hermannm.dev/timereport/clause"
	"hermannm.dev/timereport/config"
	"hermannm.dev/timereport/entrystore"
)

func main() {
	logHandler := devlog.NewHandler(os.Stdout, &devlog.Options{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(logHandler))

	conf, err := config.ReadFromEnv()
	if err != nil {
		log.ErrorCause(err, "failed to read config from env")
		os.Exit(1)
	}

	store, err := entrystore.NewEntryStore(conf.DatabasePath)
	if err != nil {
		log.ErrorCause(err, "failed to open entry store")
		os.Exit(1)
	}
	defer store.Close()

	watcher, err := entrystore.NewWatcher(store, conf.NotesDir)
	if err != nil {
		log.ErrorCause(err, "failed to watch notes directory")
		os.Exit(1)
	}
	defer watcher.Close()

	ctx := context.Background()
	if err := watcher.IngestAll(ctx); err != nil {
		log.ErrorCause(err, "failed to ingest note files")
		os.Exit(1)
	}
	go watcher.Run(ctx)

	reportAPI := api.NewReportAPI(store, clause.NewDefaultRegistry(), http.NewServeMux(), api.Config{
		Port:        conf.API.Port,
		HoursPerDay: conf.HoursPerDay,
	})

	log.Infof("Listening on port %s...", conf.API.Port)
	if err := reportAPI.ListenAndServe(); err != nil {
		log.ErrorCause(err, "server stopped")
		os.Exit(1)
	}
}
