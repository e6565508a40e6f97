package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/Jeevanbnj/F-Glu/config"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	config.SetupLogging(cfg.LogLevel)

	db, err := storage.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}

	if err := storage.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate schema")
	}
	log.WithField("driver", cfg.Database.Driver).Info("schema is up to date")
}
