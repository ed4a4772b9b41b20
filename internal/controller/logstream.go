package controller

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yourusername/tribo-console/internal/backend"
	"github.com/yourusername/tribo-console/internal/metrics"
	"github.com/yourusername/tribo-console/internal/view"
)

// LogStream incrementally fetches the backend log with a resumable cursor
type LogStream struct {
	api       API
	view      view.View
	threshold int
	logger    zerolog.Logger

	mu       sync.Mutex
	cursor   int
	inflight bool
}

// NewLogStream creates a log streamer starting at offset 0. threshold is the distance from the
// bottom, in lines, within which the viewer follows new output.
func NewLogStream(api API, v view.View, threshold int, logger zerolog.Logger) *LogStream {
	return &LogStream{
		api:       api,
		view:      v,
		threshold: threshold,
		logger:    logger.With().Str("component", "log-stream").Logger(),
	}
}

// Cursor returns the offset of the next unread line
func (l *LogStream) Cursor() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor
}

// Poll appends lines at or after the cursor. A poll started while another is in flight is skipped,
// so the cursor only moves here and never under a concurrent poll. Transport failures are returned
// as ignorable errors and leave the cursor untouched.
func (l *LogStream) Poll(ctx context.Context) error {
	l.mu.Lock()
	if l.inflight {
		l.mu.Unlock()
		metrics.PollsTotal.WithLabelValues("log", "skipped").Inc()
		return nil
	}
	l.inflight = true
	since := l.cursor
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.inflight = false
		l.mu.Unlock()
	}()

	resp, err := l.api.Log(ctx, since)
	if err != nil {
		metrics.PollsTotal.WithLabelValues("log", "failure").Inc()
		return backend.Ignorable(err)
	}
	metrics.PollsTotal.WithLabelValues("log", "success").Inc()

	if len(resp.Lines) == 0 {
		return nil
	}

	follow := l.view.LogNearBottom(l.threshold)
	l.view.AppendLog(strings.Join(resp.Lines, "\n") + "\n")
	if follow {
		l.view.ScrollLogToBottom()
	}
	metrics.LogLinesTotal.Add(float64(len(resp.Lines)))

	if resp.Next == nil || *resp.Next < since {
		l.logger.Debug().
			Int("cursor", since).
			Interface("next", resp.Next).
			Msg("Ignoring missing or backward log cursor")
		return nil
	}

	l.mu.Lock()
	l.cursor = *resp.Next
	l.mu.Unlock()
	metrics.LogCursor.Set(float64(*resp.Next))
	return nil
}
