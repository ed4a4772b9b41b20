package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yourusername/tribo-console/internal/backend"
	"github.com/yourusername/tribo-console/internal/metrics"
	"github.com/yourusername/tribo-console/internal/view"
)

var (
	// ErrSuppressed is returned when blank operator input means no request was made
	ErrSuppressed = errors.New("empty input, nothing sent")
	// ErrNotConfirmed is returned when the operator declined a shutdown
	ErrNotConfirmed = errors.New("shutdown not confirmed")
)

// ParamKeywords are the parameterized instructions the device understands:
// mass in grams, the two lever arm settings and the up/down motor run times in ms.
var ParamKeywords = []string{"m", "lbc", "lbt", "u", "j"}

// Dispatcher sends operator commands. It never changes the connection state.
type Dispatcher struct {
	api     API
	view    view.View
	gallery *Gallery
	presets []string
	logger  zerolog.Logger
}

// NewDispatcher creates a command dispatcher. gallery is refreshed after commands that produce
// artifacts.
func NewDispatcher(api API, v view.View, gallery *Gallery, presets []string, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		api:     api,
		view:    v,
		gallery: gallery,
		presets: presets,
		logger:  logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Presets returns the fixed command tokens offered as buttons
func (d *Dispatcher) Presets() []string {
	return append([]string(nil), d.presets...)
}

// Send forwards a pre-formatted instruction. Success is silent; a rejection shows the backend
// message.
func (d *Dispatcher) Send(ctx context.Context, command string) (backend.Ack, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		metrics.CommandsTotal.WithLabelValues("send", "suppressed").Inc()
		return backend.Ack{}, ErrSuppressed
	}

	ack, err := d.api.Send(ctx, command)
	if err != nil {
		metrics.CommandsTotal.WithLabelValues("send", "error").Inc()
		d.logger.Error().Err(err).Str("command", command).Msg("Failed to send command")
		d.view.SetStatus("Failed to send command", view.StyleError)
		return backend.Ack{}, err
	}
	if !ack.OK {
		metrics.CommandsTotal.WithLabelValues("send", "rejected").Inc()
		d.view.SetStatus(msgOr(ack.Msg, "Command rejected"), view.StyleError)
		return ack, nil
	}

	metrics.CommandsTotal.WithLabelValues("send", "ok").Inc()
	return ack, nil
}

// SendParam builds "<keyword> <value>" from a labeled input. A blank value sends nothing.
func (d *Dispatcher) SendParam(ctx context.Context, keyword, value string) (backend.Ack, error) {
	keyword = strings.TrimSpace(keyword)
	value = strings.TrimSpace(value)
	if keyword == "" || value == "" {
		metrics.CommandsTotal.WithLabelValues("send", "suppressed").Inc()
		return backend.Ack{}, ErrSuppressed
	}
	return d.Send(ctx, keyword+" "+value)
}

// ParseOffset reads the chart offset input, treating empty or non-numeric text as 0
func ParseOffset(text string) int {
	offset, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return offset
}

// GenerateChart plots a trial and then refreshes the gallery whatever the outcome
func (d *Dispatcher) GenerateChart(ctx context.Context, offsetText string) (backend.Ack, error) {
	offset := ParseOffset(offsetText)
	d.view.SetStatus(fmt.Sprintf("Generating chart (offset %d)...", offset), view.StylePending)

	ack, err := d.api.GenerateChart(ctx, offset)
	d.report("chart", ack, err, "Chart generation failed")

	d.gallery.Refresh(ctx)
	return ack, err
}

// RunAnalysis runs the batch analysis and then refreshes the gallery whatever the outcome
func (d *Dispatcher) RunAnalysis(ctx context.Context) (backend.Ack, error) {
	d.view.SetStatus("Running analysis...", view.StylePending)

	ack, err := d.api.RunAnalysis(ctx)
	d.report("analysis", ack, err, "Analysis failed")

	d.gallery.Refresh(ctx)
	return ack, err
}

// ShutdownBackend stops the backend process once confirm returns true. Polling is not expected to
// succeed afterwards.
func (d *Dispatcher) ShutdownBackend(ctx context.Context, confirm func() bool) (backend.Ack, error) {
	if confirm == nil || !confirm() {
		metrics.CommandsTotal.WithLabelValues("shutdown", "suppressed").Inc()
		return backend.Ack{}, ErrNotConfirmed
	}

	ack, err := d.api.Shutdown(ctx)
	d.report("shutdown", ack, err, "Shutdown request failed")
	return ack, err
}

// report shows the backend acknowledgment, or fallback when the request itself failed
func (d *Dispatcher) report(kind string, ack backend.Ack, err error, fallback string) {
	switch {
	case err != nil:
		metrics.CommandsTotal.WithLabelValues(kind, "error").Inc()
		d.logger.Error().Err(err).Str("kind", kind).Msg(fallback)
		d.view.SetStatus(fallback, view.StyleError)
	case !ack.OK:
		metrics.CommandsTotal.WithLabelValues(kind, "rejected").Inc()
		d.view.SetStatus(msgOr(ack.Msg, fallback), view.StyleError)
	default:
		metrics.CommandsTotal.WithLabelValues(kind, "ok").Inc()
		d.view.SetStatus(msgOr(ack.Msg, "Done"), view.StyleOK)
	}
}
