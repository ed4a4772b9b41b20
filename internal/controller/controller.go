package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/yourusername/tribo-console/internal/config"
	"github.com/yourusername/tribo-console/internal/metrics"
	"github.com/yourusername/tribo-console/internal/view"
)

// Controller wires the console components together and drives the periodic loops
type Controller struct {
	cfg    *config.Config
	view   view.View
	logger zerolog.Logger

	Connection *Connection
	Commands   *Dispatcher
	Log        *LogStream
	Gallery    *Gallery

	ready atomic.Bool
}

// NewController creates a console controller rendering into v
func NewController(cfg *config.Config, api API, v view.View, logger zerolog.Logger) *Controller {
	gallery := NewGallery(api, v, cfg.DefaultCategory, logger)
	return &Controller{
		cfg:        cfg,
		view:       v,
		logger:     logger.With().Str("component", "controller").Logger(),
		Connection: NewConnection(api, v, logger),
		Commands:   NewDispatcher(api, v, gallery, cfg.Commands, logger),
		Log:        NewLogStream(api, v, cfg.LogNearBottom, logger),
		Gallery:    gallery,
	}
}

// Ready reports whether the startup sequence has completed
func (c *Controller) Ready() bool {
	return c.ready.Load()
}

// Start takes the first snapshot of the backend and then enables interaction. The order is fixed
// so the controls never act on state that has not been observed yet.
func (c *Controller) Start(ctx context.Context) {
	start := time.Now()

	c.Connection.ListPorts(ctx)
	c.Connection.RefreshStatus(ctx)
	if err := c.Gallery.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Initial gallery refresh failed")
	}

	c.view.SetInteractive(true)
	c.ready.Store(true)
	metrics.HealthStatus.Set(1)

	c.logger.Info().
		Dur("elapsed", time.Since(start)).
		Str("state", c.Connection.State().String()).
		Msg("Initial snapshot loaded")
}

// Run performs the startup sequence and then polls status and log until ctx is cancelled
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info().
		Dur("status_interval", c.cfg.StatusInterval).
		Dur("log_interval", c.cfg.LogInterval).
		Str("backend_url", c.cfg.BackendURL).
		Msg("Starting console engine")

	c.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.runStatusLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		c.runLogLoop(ctx)
	}()
	wg.Wait()

	c.ready.Store(false)
	return ctx.Err()
}
