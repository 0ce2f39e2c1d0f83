package main

import (
	"context"
	"flag"
	"log"

	"quiz-tube/internal/config"
	"quiz-tube/internal/database"
	"quiz-tube/internal/logger"

	"go.uber.org/zap"
)

func main() {
	down := flag.Int("down", 0, "revert this many migrations instead of applying pending ones")
	configPath := flag.String("config", "", "path to a config file (defaults to ./config.yaml or ./config/config.yaml)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadConfigFile(*configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		l.Fatal("Failed to load migrations", zap.Error(err))
	}

	if *down > 0 {
		err = migrator.Down(ctx, *down)
	} else {
		err = migrator.Up(ctx)
	}
	if err != nil {
		l.Fatal("Migration failed", zap.Error(err))
	}
}
