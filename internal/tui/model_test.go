package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tribo-console/internal/backend"
	"github.com/yourusername/tribo-console/internal/config"
	"github.com/yourusername/tribo-console/internal/controller"
	"github.com/yourusername/tribo-console/internal/view"
)

func newTestModel(t *testing.T) (model, *Bridge) {
	t.Helper()
	cfg := config.Defaults()
	bridge := NewBridge()
	client := backend.NewClient("http://127.0.0.1:1", 0, zerolog.Nop())
	ctrl := controller.NewController(cfg, client, bridge, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return newModel(ctx, cancel, ctrl, bridge, client.BaseURL()), bridge
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out
}

func TestModel_LogFollow(t *testing.T) {
	m, bridge := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m = update(t, m, logAppendMsg{text: strings.Repeat("line\n", 100)})
	assert.False(t, bridge.LogNearBottom(3))

	m = update(t, m, logBottomMsg{})
	assert.True(t, bridge.LogNearBottom(3))
	assert.Contains(t, m.View(), "line")
}

func TestModel_GalleryProjection(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})

	m = update(t, m, galleryMsg{names: []string{"a.png", "b.png"}})
	m = update(t, m, markMsg{name: "b.png"})
	assert.Equal(t, []view.Entry{{Name: "a.png"}, {Name: "b.png", Selected: true}}, m.entries)

	m = update(t, m, previewMsg{src: "/files/b.png", alt: "b.png"})
	assert.Contains(t, m.View(), "http://127.0.0.1:1/files/b.png")

	m = update(t, m, galleryMsg{empty: "No charts found."})
	assert.Empty(t, m.entries)
	assert.Contains(t, m.View(), "No charts found.")
}

func TestModel_KeysIgnoredUntilInteractive(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, portsMsg{ports: []string{"COM3"}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Nil(t, cmd)

	m = update(t, m, interactiveMsg{enabled: true})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.NotNil(t, cmd)
}

func TestModel_DisconnectNeedsControl(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, interactiveMsg{enabled: true})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.Nil(t, cmd)

	m = update(t, m, controlsMsg{controls: view.ControlsFor(backend.Connected)})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.NotNil(t, cmd)
}

func TestModel_PromptEscape(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, interactiveMsg{enabled: true})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(":")})
	assert.Equal(t, promptCommand, m.prompt)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, promptNone, m.prompt)
}

func TestBridge_DropsBeforeAttach(t *testing.T) {
	b := NewBridge()
	assert.NotPanics(t, func() {
		b.SetStatus("Connected", view.StyleOK)
		b.ShowGalleryEntries([]string{"a.png"})
	})
	assert.True(t, b.LogNearBottom(0))
}
