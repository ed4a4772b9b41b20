package controller

import (
	"context"
	"time"

	"github.com/yourusername/tribo-console/internal/backend"
)

// runLogLoop fetches new log lines on a fixed interval. Failures never stop the loop.
func (c *Controller) runLogLoop(ctx context.Context) {
	c.logger.Info().
		Dur("interval", c.cfg.LogInterval).
		Msg("Starting log polling")

	ticker := time.NewTicker(c.cfg.LogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := c.Log.Poll(ctx)
			switch {
			case err == nil:
			case backend.IsIgnorable(err):
				c.logger.Debug().Err(err).Msg("Log poll failed")
			default:
				c.logger.Error().Err(err).Msg("Log poll failed")
			}
		}
	}
}
