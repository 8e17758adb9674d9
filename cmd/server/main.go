package main

import (
	"context"
	"fmt"

	"github.com/panelportal/server/internal/config"
	"github.com/panelportal/server/internal/fstree"
	handler "github.com/panelportal/server/internal/handler/http"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/mailer"
	"github.com/panelportal/server/internal/server"
	"github.com/panelportal/server/internal/service"
	"github.com/panelportal/server/internal/store"
	"github.com/panelportal/server/internal/workers"
	"github.com/panelportal/server/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("panel-portal-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := log.WithContext(context.Background())

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err := migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, log)

	var mail mailer.Mailer
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTP(cfg.SMTP, log)
	} else {
		mail = mailer.NewNoop(log)
	}

	fsReader := fstree.NewReader(cfg.Storage.Files.DocumentRoot)

	services := service.NewServices(storages, fsReader, mail, db.Classifier(), cfg, log)

	handlers := handler.NewHandler(services, log)

	srv, err := server.NewServer(handlers.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	backgroundWorkers := workers.NewWorkers(services, cfg.Workers, log)
	backgroundWorkers.Run()
	defer backgroundWorkers.Stop()

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
