package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	st, err := store.Open(cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Infof("Schema up to date (%s)", st.Driver())
}
