package tui

import (
	"slices"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/tribo-console/internal/backend"
	"github.com/yourusername/tribo-console/internal/view"
)

// statusMsg and the message types below carry engine projections into the model
type statusMsg struct {
	text  string
	style view.Style
}

type controlsMsg struct{ controls view.Controls }

type portsMsg struct {
	ports []string
	err   string
}

type logAppendMsg struct{ text string }

type logBottomMsg struct{}

type tabMsg struct{ cat backend.Category }

type galleryMsg struct {
	names []string
	empty string
}

type markMsg struct{ name string }

type previewMsg struct{ src, alt string }

type interactiveMsg struct{ enabled bool }

type noticeMsg struct {
	text string
	err  bool
}

// Bridge implements view.View by forwarding every projection to the running program
type Bridge struct {
	program atomic.Pointer[tea.Program]
	// log lines below the visible window, published by the model after each update
	linesBelow atomic.Int64
}

// NewBridge creates a bridge. Attach must be called before the engine starts.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach binds the bridge to the program that renders it
func (b *Bridge) Attach(p *tea.Program) {
	b.program.Store(p)
}

func (b *Bridge) send(msg tea.Msg) {
	if p := b.program.Load(); p != nil {
		p.Send(msg)
	}
}

func (b *Bridge) SetStatus(text string, style view.Style) {
	b.send(statusMsg{text: text, style: style})
}

func (b *Bridge) SetControls(c view.Controls) {
	b.send(controlsMsg{controls: c})
}

func (b *Bridge) SetPorts(ports []string) {
	b.send(portsMsg{ports: slices.Clone(ports)})
}

func (b *Bridge) SetPortsError(msg string) {
	b.send(portsMsg{err: msg})
}

func (b *Bridge) LogNearBottom(threshold int) bool {
	return b.linesBelow.Load() <= int64(threshold)
}

func (b *Bridge) AppendLog(text string) {
	b.send(logAppendMsg{text: text})
}

func (b *Bridge) ScrollLogToBottom() {
	b.send(logBottomMsg{})
}

func (b *Bridge) SetActiveTab(cat backend.Category) {
	b.send(tabMsg{cat: cat})
}

func (b *Bridge) ShowGalleryEmpty(msg string) {
	b.send(galleryMsg{empty: msg})
}

func (b *Bridge) ShowGalleryEntries(names []string) {
	b.send(galleryMsg{names: slices.Clone(names)})
}

func (b *Bridge) MarkSelected(name string) {
	b.send(markMsg{name: name})
}

func (b *Bridge) ShowPreview(src, alt string) {
	b.send(previewMsg{src: src, alt: alt})
}

func (b *Bridge) SetInteractive(enabled bool) {
	b.send(interactiveMsg{enabled: enabled})
}

var _ view.View = (*Bridge)(nil)
