package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/pkg/errs"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type migrateConfig struct {
	DB     config.DBConfig
	Log    config.LogConfig
	Dir    string        `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	Binary string        `envconfig:"ATLAS_BIN" default:"atlas"`
	Wait   time.Duration `envconfig:"MIGRATIONS_TIMEOUT" default:"2m"`
}

func main() {
	_ = godotenv.Load()

	var cfg migrateConfig
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("failed to process env config", "error", err)
		os.Exit(1)
	}
	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Wait)
	defer cancel()

	applied, err := apply(ctx, cfg)
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations applied", "count", applied, "dir", cfg.Dir)
}

func apply(ctx context.Context, cfg migrateConfig) (int, error) {
	workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(os.DirFS(cfg.Dir)))
	if err != nil {
		return 0, errs.Wrap(err, "prepare migrations")
	}
	defer func() { _ = workdir.Close() }()

	client, err := atlasexec.NewClient(workdir.Path(), cfg.Binary)
	if err != nil {
		return 0, errs.Wrap(err, "init atlas client")
	}
	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL: cfg.DB.BuildDSN(),
	})
	if err != nil {
		return 0, errs.Wrap(err, "apply migrations")
	}
	return len(res.Applied), nil
}
