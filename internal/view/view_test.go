package view

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/yourusername/tribo-console/internal/backend"
)

func TestControlsFor(t *testing.T) {
	tests := []struct {
		state backend.ConnectionState
		want  Controls
	}{
		{state: backend.Disconnected, want: Controls{Connect: true, Disconnect: false}},
		{state: backend.Connecting, want: Controls{Connect: true, Disconnect: false}},
		{state: backend.Connected, want: Controls{Connect: false, Disconnect: true}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			got := ControlsFor(tt.state)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, got.Connect, got.Disconnect)
		})
	}
}

func TestMemory_LogNearBottom(t *testing.T) {
	m := NewMemory()
	assert.True(t, m.LogNearBottom(3))

	for i := 0; i < 30; i++ {
		m.AppendLog("line\n")
	}
	assert.False(t, m.LogNearBottom(3))

	m.ScrollLogToBottom()
	assert.Equal(t, 10, m.Snapshot().LogTop)

	m.ScrollLogTo(7)
	assert.True(t, m.LogNearBottom(3))
	m.ScrollLogTo(6)
	assert.False(t, m.LogNearBottom(3))
}

func TestMemory_Gallery(t *testing.T) {
	m := NewMemory()
	m.ShowGalleryEntries([]string{"a.png", "b.png"})
	m.MarkSelected("b.png")
	m.MarkSelected("a.png")

	s := m.Snapshot()
	assert.Equal(t, []Entry{{Name: "a.png", Selected: true}, {Name: "b.png"}}, s.Entries)
	assert.Equal(t, 1, s.Renders)

	m.ShowGalleryEmpty("No charts found.")
	s = m.Snapshot()
	assert.Empty(t, s.Entries)
	assert.Equal(t, "No charts found.", s.GalleryEmpty)
}

func TestMemory_PortsError(t *testing.T) {
	m := NewMemory()
	m.SetPorts([]string{"COM3"})
	m.SetPortsError("Failed to load ports")

	s := m.Snapshot()
	assert.Empty(t, s.Ports)
	assert.Equal(t, "Failed to load ports", s.PortsError)
}

func TestLogger_ImplementsView(t *testing.T) {
	var v View = NewLogger(zerolog.Nop())
	assert.True(t, v.LogNearBottom(0))
	v.SetStatus("Connected", StyleOK)
	v.ShowGalleryEntries([]string{"a.png"})
	v.AppendLog("a\nb\n")
}
