package view

import (
	"strings"
	"sync"

	"github.com/yourusername/tribo-console/internal/backend"
)

// DefaultLogHeight is the number of visible log lines of a Memory view
const DefaultLogHeight = 20

// State is a point-in-time copy of a Memory view
type State struct {
	StatusText  string
	StatusStyle Style
	Controls    Controls

	Ports      []string
	PortsError string

	Log       string
	LogTop    int
	LogHeight int

	ActiveTab    backend.Category
	GalleryEmpty string
	Entries      []Entry
	Renders      int

	PreviewSrc     string
	PreviewAlt     string
	PreviewVisible bool

	Interactive bool
}

// Memory keeps the projections in memory. It backs one-shot commands and tests.
type Memory struct {
	mu    sync.Mutex
	state State
	lines int
}

// NewMemory creates an empty in-memory view
func NewMemory() *Memory {
	return &Memory{state: State{LogHeight: DefaultLogHeight}}
}

// Snapshot returns a copy of the current projections
func (m *Memory) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state
	s.Ports = append([]string(nil), m.state.Ports...)
	s.Entries = append([]Entry(nil), m.state.Entries...)
	return s
}

func (m *Memory) SetStatus(text string, style Style) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.StatusText = text
	m.state.StatusStyle = style
}

func (m *Memory) SetControls(c Controls) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Controls = c
}

func (m *Memory) SetPorts(ports []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Ports = append([]string(nil), ports...)
	m.state.PortsError = ""
}

func (m *Memory) SetPortsError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Ports = nil
	m.state.PortsError = msg
}

func (m *Memory) LogNearBottom(threshold int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LogTop+m.state.LogHeight >= m.lines-threshold
}

func (m *Memory) AppendLog(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Log += text
	m.lines += strings.Count(text, "\n")
}

func (m *Memory) ScrollLogToBottom() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LogTop = max(0, m.lines-m.state.LogHeight)
}

// ScrollLogTo moves the first visible log line, as an operator scrolling back would
func (m *Memory) ScrollLogTo(top int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LogTop = min(max(0, top), m.lines)
}

func (m *Memory) SetActiveTab(cat backend.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.ActiveTab = cat
}

func (m *Memory) ShowGalleryEmpty(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Entries = nil
	m.state.GalleryEmpty = msg
	m.state.Renders++
}

func (m *Memory) ShowGalleryEntries(names []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = Entry{Name: name}
	}
	m.state.Entries = entries
	m.state.GalleryEmpty = ""
	m.state.Renders++
}

func (m *Memory) MarkSelected(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.state.Entries {
		m.state.Entries[i].Selected = m.state.Entries[i].Name == name
	}
}

func (m *Memory) ShowPreview(src, alt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.PreviewSrc = src
	m.state.PreviewAlt = alt
	m.state.PreviewVisible = true
}

func (m *Memory) SetInteractive(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Interactive = enabled
}
