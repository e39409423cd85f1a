package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lexio-app/lexio/internal/config"
	"github.com/lexio-app/lexio/internal/database"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.Load() > %w", err)
	}
	return cfg, nil
}

func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	return db, nil
}
