package runner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/sagarsuperuser/useradmin/internal/common"
	"github.com/sagarsuperuser/useradmin/server"
	"github.com/sagarsuperuser/useradmin/server/settings"
	"github.com/sagarsuperuser/useradmin/store"
	"github.com/sagarsuperuser/useradmin/store/db"
)

type Runner struct {
	settings *settings.Settings
}

func NewRunner(s *settings.Settings) *Runner {
	return &Runner{
		settings: s,
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// for at most the configured shutdown timeout.
func (runner *Runner) Run(ctx context.Context) error {
	log.Info().Str("mode", runner.settings.Mode).
		Str("log_level", log.Logger.GetLevel().String()).
		Msg("Logger initialized")

	// setup Database driver
	dbDriver, err := db.NewDBDriver(runner.settings, common.NowUTC)
	if err != nil {
		return err
	}

	// set up store
	storeInstance := store.New(dbDriver, common.NowUTC)
	defer func() {
		if err := storeInstance.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	// setup server
	srv, err := server.NewServer(runner.settings, storeInstance)
	if err != nil {
		return err
	}
	if err := srv.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Server shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), runner.settings.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
