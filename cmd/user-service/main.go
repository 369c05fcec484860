package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	migrate "github.com/golang-migrate/migrate/v4"
	migrateMySQL "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"

	"github.com/sagarsuperuser/useradmin/cmd/runner"
	"github.com/sagarsuperuser/useradmin/internal/common"
	"github.com/sagarsuperuser/useradmin/server/settings"
	mysqlDriver "github.com/sagarsuperuser/useradmin/store/db/mysql"
)

func main() {
	settings, err := settings.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid settings")
	}
	runner.SetupLogger(settings)

	args := os.Args
	cmd := "serve"
	if len(args) > 1 {
		cmd = strings.ToLower(args[1])
	}

	switch cmd {
	case "serve":
		if err := runServer(settings); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case "migrate":
		direction := "up"
		if len(args) > 2 {
			direction = strings.ToLower(args[2])
		}
		if err := runMigrations(settings, direction); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	default:
		log.Fatal().Str("command", cmd).Msg("unknown command (use serve|migrate [up|down])")
	}
}

func runServer(settings *settings.Settings) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runner.NewRunner(settings).Run(ctx)
}

func runMigrations(settings *settings.Settings, direction string) error {
	drv, ok := mysqlDriver.NewDB(settings, common.NowUTC).(*mysqlDriver.DB)
	if !ok {
		return errors.New("mysql driver unavailable")
	}
	defer drv.Close()

	inst, err := migrateMySQL.WithInstance(drv.GetDB(), &migrateMySQL.Config{})
	if err != nil {
		return fmt.Errorf("init migrate instance: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(settings.MigrationsPath, "mysql", inst)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	log.Info().Str("source", settings.MigrationsPath).Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
	return nil
}
