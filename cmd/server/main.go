package main

import (
	"context"
	"fmt"

	"github.com/anexlab/gatekeeper/internal/config"
	"github.com/anexlab/gatekeeper/internal/crypto"
	"github.com/anexlab/gatekeeper/internal/handler"
	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/server"
	"github.com/anexlab/gatekeeper/internal/service"
	"github.com/anexlab/gatekeeper/internal/store"
	"github.com/anexlab/gatekeeper/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("gatekeeper")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	cipher, err := crypto.NewCipher(cfg.App.MasterKey)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating cipher")
	}
	hasher := crypto.NewPasswordHasher()

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err := migrations.Migrate(db.DB, cfg.Storage.DB.Driver); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	repos := store.NewRepositories(db, log)
	services := service.NewServices(repos, cipher, hasher, cfg.App, log)

	adminKey, created, err := services.AdminService.Bootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("error provisioning admin record")
	}
	if created {
		// Printed exactly once, on first boot. The key is not recoverable
		// later without the master key.
		fmt.Printf("Admin key: %s\n", adminKey)
	}

	handlers := handler.NewHandlers(services, *cfg, log)

	server.NewServer(handlers, cfg.Server, log).RunServer()
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
