package controller

import (
	"context"
	"time"

	"github.com/yourusername/tribo-console/internal/backend"
)

// runStatusLoop polls the connection status on a fixed interval, without backoff
func (c *Controller) runStatusLoop(ctx context.Context) {
	c.logger.Info().
		Dur("interval", c.cfg.StatusInterval).
		Msg("Watching connection status")

	ticker := time.NewTicker(c.cfg.StatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prev := c.Connection.State()
			state := c.Connection.RefreshStatus(ctx)

			if prev == backend.Connected && state != backend.Connected {
				c.logger.Warn().Msg("Backend reports the serial connection was lost")
			}
		}
	}
}
