// Package tui renders the console engine in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/tribo-console/internal/backend"
	"github.com/yourusername/tribo-console/internal/controller"
	"github.com/yourusername/tribo-console/internal/view"
)

type pane int

const (
	panePorts pane = iota
	paneGallery
)

type prompt int

const (
	promptNone prompt = iota
	promptCommand
	promptParam
	promptOffset
	promptShutdown
)

// chrome is the number of rows used by everything except the log viewport
const chrome = 17

type model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	ctrl    *controller.Controller
	bridge  *Bridge
	baseURL string

	keys  keyMap
	help  help.Model
	theme theme

	width  int
	height int

	statusText  string
	statusStyle view.Style
	controls    view.Controls
	interactive bool

	ports      []string
	portsErr   string
	portCursor int

	log     strings.Builder
	logView viewport.Model

	tab          backend.Category
	entries      []view.Entry
	emptyMessage string
	entryCursor  int
	previewSrc   string
	previewAlt   string

	focus  pane
	prompt prompt
	input  textinput.Model
	notice noticeMsg
}

func newModel(ctx context.Context, cancel context.CancelFunc, ctrl *controller.Controller, bridge *Bridge, baseURL string) model {
	input := textinput.New()
	input.CharLimit = 64

	vp := viewport.New(80, 10)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	return model{
		ctx:         ctx,
		cancel:      cancel,
		ctrl:        ctrl,
		bridge:      bridge,
		baseURL:     baseURL,
		keys:        defaultKeys(),
		help:        help.New(),
		theme:       newTheme(),
		statusText:  "Loading...",
		statusStyle: view.StylePending,
		controls:    view.ControlsFor(backend.Disconnected),
		logView:     vp,
		tab:         ctrl.Gallery.Active(),
		input:       input,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.logView.Width = max(20, msg.Width-4)
		m.logView.Height = max(3, msg.Height-chrome)

	case statusMsg:
		m.statusText, m.statusStyle = msg.text, msg.style
	case controlsMsg:
		m.controls = msg.controls
	case portsMsg:
		m.ports, m.portsErr = msg.ports, msg.err
		m.portCursor = min(m.portCursor, max(0, len(m.ports)-1))
	case logAppendMsg:
		m.log.WriteString(msg.text)
		m.logView.SetContent(m.log.String())
	case logBottomMsg:
		m.logView.GotoBottom()
	case tabMsg:
		m.tab = msg.cat
	case galleryMsg:
		m.emptyMessage = msg.empty
		m.entries = make([]view.Entry, len(msg.names))
		for i, name := range msg.names {
			m.entries[i] = view.Entry{Name: name}
		}
		m.entryCursor = min(m.entryCursor, max(0, len(m.entries)-1))
	case markMsg:
		for i := range m.entries {
			m.entries[i].Selected = m.entries[i].Name == msg.name
		}
	case previewMsg:
		m.previewSrc, m.previewAlt = msg.src, msg.alt
	case interactiveMsg:
		m.interactive = msg.enabled
	case noticeMsg:
		m.notice = msg

	case tea.KeyMsg:
		if m.prompt != promptNone {
			m, cmd = m.updatePrompt(msg)
			break
		}
		m, cmd = m.updateKeys(msg)
	}

	m.publishScroll()
	return m, cmd
}

// publishScroll lets the engine ask whether the operator is following the log
func (m model) publishScroll() {
	below := m.logView.TotalLineCount() - (m.logView.YOffset + m.logView.Height)
	m.bridge.linesBelow.Store(int64(max(0, below)))
}

func (m model) updateKeys(msg tea.KeyMsg) (model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.cancel()
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Scroll) {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}
	if !m.interactive {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Focus):
		if m.focus == panePorts {
			m.focus = paneGallery
		} else {
			m.focus = panePorts
		}
	case key.Matches(msg, m.keys.Up):
		if m.focus == panePorts {
			m.portCursor = max(0, m.portCursor-1)
		} else {
			m.entryCursor = max(0, m.entryCursor-1)
		}
	case key.Matches(msg, m.keys.Down):
		if m.focus == panePorts {
			m.portCursor = min(max(0, len(m.ports)-1), m.portCursor+1)
		} else {
			m.entryCursor = min(max(0, len(m.entries)-1), m.entryCursor+1)
		}
	case key.Matches(msg, m.keys.Enter):
		if m.focus == paneGallery {
			name := m.currentEntry()
			if name == "" {
				return m, nil
			}
			return m, m.run(func(context.Context) { m.ctrl.Gallery.SelectEntry(name) })
		}
		return m, m.connect()
	case key.Matches(msg, m.keys.Connect):
		return m, m.connect()
	case key.Matches(msg, m.keys.Disconnect):
		if !m.controls.Disconnect {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) { m.ctrl.Connection.Disconnect(ctx) })
	case key.Matches(msg, m.keys.Ports):
		return m, m.run(func(ctx context.Context) { m.ctrl.Connection.ListPorts(ctx) })
	case key.Matches(msg, m.keys.Tabs):
		cat := backend.Categories[int(msg.String()[0]-'1')]
		return m, m.run(func(ctx context.Context) { _ = m.ctrl.Gallery.SetCategory(ctx, cat) })
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(func(ctx context.Context) { _ = m.ctrl.Gallery.Refresh(ctx) })
	case key.Matches(msg, m.keys.Analysis):
		return m, m.run(func(ctx context.Context) { _, _ = m.ctrl.Commands.RunAnalysis(ctx) })
	case key.Matches(msg, m.keys.Presets):
		presets := m.ctrl.Commands.Presets()
		idx := int(strings.TrimPrefix(msg.String(), "f")[0] - '1')
		if idx < len(presets) {
			command := presets[idx]
			return m, m.run(func(ctx context.Context) { _, _ = m.ctrl.Commands.Send(ctx, command) })
		}
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	case key.Matches(msg, m.keys.Chart):
		return m.openPrompt(promptOffset, "offset (0 = latest): ")
	case key.Matches(msg, m.keys.Command):
		return m.openPrompt(promptCommand, "command: ")
	case key.Matches(msg, m.keys.Param):
		return m.openPrompt(promptParam, "keyword value (m, lbc, lbt, u, j): ")
	case key.Matches(msg, m.keys.Shutdown):
		return m.openPrompt(promptShutdown, "shut down the backend? type yes: ")
	}
	return m, nil
}

func (m model) openPrompt(p prompt, label string) (model, tea.Cmd) {
	m.prompt = p
	m.input.Prompt = label
	m.input.SetValue("")
	return m, m.input.Focus()
}

func (m model) updatePrompt(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompt = promptNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		p := m.prompt
		m.prompt = promptNone
		m.input.Blur()
		return m, m.submit(p, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submit(p prompt, value string) tea.Cmd {
	switch p {
	case promptCommand:
		return m.run(func(ctx context.Context) { _, _ = m.ctrl.Commands.Send(ctx, value) })
	case promptParam:
		keyword, arg, _ := strings.Cut(strings.TrimSpace(value), " ")
		return m.run(func(ctx context.Context) { _, _ = m.ctrl.Commands.SendParam(ctx, keyword, arg) })
	case promptOffset:
		return m.run(func(ctx context.Context) { _, _ = m.ctrl.Commands.GenerateChart(ctx, value) })
	case promptShutdown:
		confirmed := strings.EqualFold(strings.TrimSpace(value), "yes")
		return func() tea.Msg {
			_, err := m.ctrl.Commands.ShutdownBackend(m.ctx, func() bool { return confirmed })
			if errors.Is(err, controller.ErrNotConfirmed) {
				return noticeMsg{text: "Shutdown cancelled"}
			}
			return nil
		}
	}
	return nil
}

func (m model) connect() tea.Cmd {
	if !m.controls.Connect || len(m.ports) == 0 {
		return nil
	}
	port := m.ports[m.portCursor]
	return m.run(func(ctx context.Context) { m.ctrl.Connection.Connect(ctx, port) })
}

// save must not touch engine locks from Update: the engine holds them while sending to the program
func (m model) save() tea.Cmd {
	return func() tea.Msg {
		name := m.ctrl.Gallery.Selected()
		if name == "" {
			return noticeMsg{text: "Select an image first", err: true}
		}
		data, err := m.ctrl.Gallery.Fetch(m.ctx, name)
		if err != nil {
			return noticeMsg{text: fmt.Sprintf("Download failed: %v", err), err: true}
		}
		target := filepath.Base(name)
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return noticeMsg{text: fmt.Sprintf("Save failed: %v", err), err: true}
		}
		return noticeMsg{text: fmt.Sprintf("Saved %s (%d bytes)", target, len(data))}
	}
}

// run executes an engine operation off the update loop; results come back through the bridge
func (m model) run(fn func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		fn(m.ctx)
		return nil
	}
}

func (m model) currentEntry() string {
	if m.entryCursor < 0 || m.entryCursor >= len(m.entries) {
		return ""
	}
	return m.entries[m.entryCursor].Name
}
