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

const (
	statusConnected       = "Connected"
	statusDisconnected    = "Disconnected"
	statusConnectionError = "Connection error"
	statusConnectFailed   = "Failed to connect"
	statusPortsFailed     = "Failed to load ports"
)

// Connection owns the connection state and keeps the connect/disconnect controls consistent with it
type Connection struct {
	api    API
	view   view.View
	logger zerolog.Logger

	mu    sync.Mutex
	state backend.ConnectionState
	seq   sequencer
	out   outbox
}

// NewConnection creates a connection controller starting in the disconnected state
func NewConnection(api API, v view.View, logger zerolog.Logger) *Connection {
	return &Connection{
		api:    api,
		view:   v,
		logger: logger.With().Str("component", "connection").Logger(),
		state:  backend.Disconnected,
	}
}

// State returns the last known connection state
func (c *Connection) State() backend.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ListPorts loads the serial ports into the selector. A failure yields an empty list and an
// error indicator in place of the selector.
func (c *Connection) ListPorts(ctx context.Context) []string {
	ports, err := c.api.ListPorts(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to list serial ports")
		c.view.SetPortsError(statusPortsFailed)
		return []string{}
	}
	c.logger.Debug().Int("ports", len(ports)).Msg("Serial ports loaded")
	c.view.SetPorts(ports)
	return ports
}

// RefreshStatus polls the backend and reconciles state, status line and controls
func (c *Connection) RefreshStatus(ctx context.Context) backend.ConnectionState {
	return c.refresh(ctx, false)
}

// refresh resynchronizes with the backend. keepMessage leaves the status text alone so a failure
// message shown by the caller stays visible.
func (c *Connection) refresh(ctx context.Context, keepMessage bool) backend.ConnectionState {
	c.mu.Lock()
	seq := c.seq.next()
	c.mu.Unlock()

	connected, err := c.api.Status(ctx)

	c.mu.Lock()
	if !c.seq.latest(seq) {
		state := c.state
		c.mu.Unlock()
		metrics.StaleResponsesTotal.WithLabelValues("status").Inc()
		c.logger.Debug().Uint64("seq", seq).Msg("Discarding stale status response")
		return state
	}
	if err != nil {
		state := c.state
		metrics.PollsTotal.WithLabelValues("status", "failure").Inc()
		if ctx.Err() != nil {
			c.mu.Unlock()
			return state
		}
		ticket := c.out.take()
		c.mu.Unlock()

		// A single missed poll must not flip the controls; only the status line reports it.
		c.logger.Warn().Err(err).Msg("Status poll failed")
		c.out.deliver(ticket, func() {
			c.view.SetStatus(statusConnectionError, view.StyleError)
		})
		return state
	}

	metrics.PollsTotal.WithLabelValues("status", "success").Inc()
	next := backend.Disconnected
	if connected {
		next = backend.Connected
	}
	controls := c.apply(next)
	ticket := c.out.take()
	c.mu.Unlock()

	c.out.deliver(ticket, func() {
		c.view.SetControls(controls)
		if keepMessage {
			return
		}
		if connected {
			c.view.SetStatus(statusConnected, view.StyleOK)
		} else {
			c.view.SetStatus(statusDisconnected, view.StyleError)
		}
	})
	return next
}

// Connect asks the backend to open port, then resynchronizes from a status poll.
// An empty port is a no-op.
func (c *Connection) Connect(ctx context.Context, port string) {
	port = strings.TrimSpace(port)
	if port == "" {
		return
	}

	c.mu.Lock()
	c.seq.next() // supersede polls issued before the request
	controls := c.apply(backend.Connecting)
	ticket := c.out.take()
	c.mu.Unlock()

	c.out.deliver(ticket, func() {
		c.view.SetControls(controls)
		c.view.SetStatus("Connecting to "+port+"...", view.StylePending)
	})

	ack, err := c.api.Connect(ctx, port)
	failure := ""
	switch {
	case err != nil:
		c.logger.Error().Err(err).Str("port", port).Msg("Connect request failed")
		failure = statusConnectFailed
	case !ack.OK:
		c.logger.Warn().Str("port", port).Str("msg", ack.Msg).Msg("Backend rejected connect")
		failure = msgOr(ack.Msg, statusConnectFailed)
	}
	if failure != "" {
		c.mu.Lock()
		ticket := c.out.take()
		c.mu.Unlock()
		c.out.deliver(ticket, func() {
			c.view.SetStatus(failure, view.StyleError)
		})
	}

	c.refresh(ctx, failure != "")
}

// Disconnect asks the backend to close the port, optimistically shows the disconnected state and
// then resynchronizes.
func (c *Connection) Disconnect(ctx context.Context) {
	err := c.api.Disconnect(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Disconnect request failed")
	}

	c.mu.Lock()
	c.seq.next()
	controls := c.apply(backend.Disconnected)
	ticket := c.out.take()
	c.mu.Unlock()

	c.out.deliver(ticket, func() {
		c.view.SetControls(controls)
		c.view.SetStatus(statusDisconnected, view.StyleError)
	})

	c.refresh(ctx, false)
}

// apply records a new state and returns the controls derived from it. Callers hold c.mu.
func (c *Connection) apply(state backend.ConnectionState) view.Controls {
	if state != c.state {
		c.logger.Info().
			Str("from", c.state.String()).
			Str("to", state.String()).
			Msg("Connection state changed")
	}
	c.state = state
	metrics.ConnectionState.Set(float64(state))
	return view.ControlsFor(state)
}
