package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-client/internal/config"
	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/internal/service"
	"github.com/MKhiriev/go-vault-client/internal/workers"
	"golang.org/x/sync/errgroup"
)

var ErrNoUI = errors.New("client: ui is required")

type App struct {
	services *service.ClientServices
	ui       UI
	workers  *workers.Workers
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui UI, cfg config.ClientWorkers, logger *logger.Logger) (*App, error) {
	if ui == nil {
		return nil, ErrNoUI
	}
	return &App{
		services: services,
		ui:       ui,
		workers:  workers.NewWorkers(workers.NewSessionRefreshWorker(services.RefreshJob, cfg.SessionRefreshInterval)),
		logger:   logger,
	}, nil
}

// Run blocks until the UI exits or ctx is cancelled, then stops the workers
// and closes the services.
func (a *App) Run(ctx context.Context) error {
	defer a.services.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if err := a.ui.Run(gctx); err != nil {
			return fmt.Errorf("ui: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := a.workers.Run(gctx); err != nil {
			return fmt.Errorf("workers: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.logger.Info().Err(err).Msg("client stopped")
	return err
}
