package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestDuration tracks backend API request duration
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tribo_console_api_request_duration_seconds",
			Help:    "Duration of backend API requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	// APIErrorsTotal tracks backend API errors
	APIErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tribo_console_api_errors_total",
			Help: "Total number of backend API errors",
		},
		[]string{"method", "endpoint", "status_code"}, // status code, network_error, decode_error
	)

	// PollsTotal tracks periodic polls per stream
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tribo_console_polls_total",
			Help: "Total number of periodic polls",
		},
		[]string{"stream", "result"}, // stream: status, log; result: success, failure, skipped
	)

	// StaleResponsesTotal tracks responses discarded because a newer request was issued
	StaleResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tribo_console_stale_responses_total",
			Help: "Total number of responses discarded as stale",
		},
		[]string{"stream"}, // status, gallery
	)

	// LogLinesTotal tracks log lines appended to the viewer
	LogLinesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tribo_console_log_lines_total",
			Help: "Total number of log lines received from the backend",
		},
	)

	// LogCursor tracks the current log cursor
	LogCursor = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tribo_console_log_cursor",
			Help: "Offset of the next unread backend log line",
		},
	)

	// ConnectionState tracks the last known connection state (0 = disconnected, 1 = connecting, 2 = connected)
	ConnectionState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tribo_console_connection_state",
			Help: "Last known serial connection state of the backend",
		},
	)

	// CommandsTotal tracks operator commands by kind and result
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tribo_console_commands_total",
			Help: "Total number of operator commands",
		},
		[]string{"kind", "result"}, // result: ok, rejected, error, suppressed
	)

	// GalleryEntries tracks the number of entries rendered for the active category
	GalleryEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tribo_console_gallery_entries",
			Help: "Number of gallery entries reported by the backend per category",
		},
		[]string{"category"},
	)

	// HealthStatus tracks overall health
	HealthStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tribo_console_healthy",
			Help: "Health status of the console engine (1 = healthy, 0 = unhealthy)",
		},
	)
)

func init() {
	HealthStatus.Set(1)
}
