package view

import (
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yourusername/tribo-console/internal/backend"
)

// Logger projects engine state into structured log events. It backs the headless watch mode,
// where there is nothing to scroll, so the log is always at the bottom.
type Logger struct {
	logger zerolog.Logger

	mu         sync.Mutex
	lastStatus string
	lastStyle  Style
	controls   Controls
	entries    []string
}

// NewLogger creates a logging view
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger.With().Str("component", "view").Logger()}
}

func (l *Logger) SetStatus(text string, style Style) {
	l.mu.Lock()
	changed := text != l.lastStatus || style != l.lastStyle
	l.lastStatus, l.lastStyle = text, style
	l.mu.Unlock()
	if !changed {
		return
	}

	event := l.logger.Info()
	if style == StyleError {
		event = l.logger.Warn()
	}
	event.Str("style", style.String()).Msg(text)
}

func (l *Logger) SetControls(c Controls) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c == l.controls {
		return
	}
	l.controls = c
	l.logger.Debug().
		Bool("connect_enabled", c.Connect).
		Bool("disconnect_enabled", c.Disconnect).
		Msg("Connection controls updated")
}

func (l *Logger) SetPorts(ports []string) {
	l.logger.Info().Strs("ports", ports).Msg("Serial ports available")
}

func (l *Logger) SetPortsError(msg string) {
	l.logger.Warn().Msg(msg)
}

func (l *Logger) LogNearBottom(int) bool {
	return true
}

func (l *Logger) AppendLog(text string) {
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		l.logger.Info().Str("source", "backend").Msg(line)
	}
}

func (l *Logger) ScrollLogToBottom() {}

func (l *Logger) SetActiveTab(cat backend.Category) {
	l.logger.Debug().Str("category", string(cat)).Msg("Gallery tab selected")
}

func (l *Logger) ShowGalleryEmpty(msg string) {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
	l.logger.Info().Msg(msg)
}

func (l *Logger) ShowGalleryEntries(names []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if slices.Equal(l.entries, names) {
		return
	}
	l.entries = append([]string(nil), names...)
	l.logger.Info().Strs("files", names).Msg("Gallery updated")
}

func (l *Logger) MarkSelected(name string) {
	l.logger.Debug().Str("file", name).Msg("Gallery entry selected")
}

func (l *Logger) ShowPreview(src, alt string) {
	l.logger.Info().Str("src", src).Str("alt", alt).Msg("Preview")
}

func (l *Logger) SetInteractive(enabled bool) {
	l.logger.Debug().Bool("interactive", enabled).Msg("Interaction state changed")
}
