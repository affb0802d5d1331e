package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/accesshub/accesshub/internal/app"
	"github.com/accesshub/accesshub/internal/database"
	"github.com/accesshub/accesshub/internal/models"
	"github.com/accesshub/accesshub/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run prepares the schema: it loads configuration, opens the configured
// database, migrates all record kinds and installs the seed roles. Query
// and write traffic is driven by the embedding application through the
// service layer.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("accesshub", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Logging.Level); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	db, err := database.Open(cfg.Database.DatabaseOptions())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer closeDatabase(db, log)

	if err := database.MigrateAndSeed(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("prepare schema: %w", err)
	}

	var roles int64
	if err := db.WithContext(ctx).Model(&models.Role{}).Count(&roles).Error; err != nil {
		return fmt.Errorf("count roles: %w", err)
	}

	log.Info("schema ready",
		zap.String("driver", cfg.Database.Driver),
		zap.Int64("roles", roles))
	return nil
}

func loadConfig(path string) (*app.Config, error) {
	if path == "" {
		return app.LoadConfig()
	}
	return app.LoadConfig(path)
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("database handle unavailable on shutdown", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("database close failed", zap.Error(err))
	}
}
