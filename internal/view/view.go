// Package view defines the state projections the synchronization engine renders into.
//
// Implementations must be safe for concurrent use: controllers call them from the goroutines that
// complete backend requests.
package view

import "github.com/yourusername/tribo-console/internal/backend"

// Style selects how the status line is rendered
type Style int

const (
	StyleOK Style = iota
	StyleError
	StylePending
)

func (s Style) String() string {
	switch s {
	case StyleError:
		return "error"
	case StylePending:
		return "pending"
	default:
		return "ok"
	}
}

// Controls holds the enabled flags of the connection buttons
type Controls struct {
	Connect    bool
	Disconnect bool
}

// ControlsFor derives the connection controls from a connection state
func ControlsFor(state backend.ConnectionState) Controls {
	return Controls{
		Connect:    state != backend.Connected,
		Disconnect: state == backend.Connected,
	}
}

// Entry is one selectable gallery item
type Entry struct {
	Name     string
	Selected bool
}

// View is the set of projections the engine writes
type View interface {
	SetStatus(text string, style Style)
	SetControls(c Controls)

	SetPorts(ports []string)
	SetPortsError(msg string)

	// LogNearBottom reports whether the log viewer is within threshold lines of its end
	LogNearBottom(threshold int) bool
	AppendLog(text string)
	ScrollLogToBottom()

	SetActiveTab(cat backend.Category)
	ShowGalleryEmpty(msg string)
	ShowGalleryEntries(names []string)
	MarkSelected(name string)
	ShowPreview(src, alt string)

	SetInteractive(enabled bool)
}
