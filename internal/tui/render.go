package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/tribo-console/internal/backend"
	"github.com/yourusername/tribo-console/internal/view"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.title.Render("Tribometer console"))
	b.WriteString("  ")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")

	left := m.renderPorts()
	right := m.renderGallery()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	b.WriteString(m.theme.box.Render(m.logView.View()))
	b.WriteString("\n")

	switch {
	case m.prompt != promptNone:
		b.WriteString(m.input.View())
	case m.notice.text != "":
		style := m.theme.muted
		if m.notice.err {
			style = m.theme.statusErr
		}
		b.WriteString(style.Render(m.notice.text))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m model) renderStatus() string {
	switch m.statusStyle {
	case view.StyleOK:
		return m.theme.statusOK.Render(m.statusText)
	case view.StyleError:
		return m.theme.statusErr.Render(m.statusText)
	default:
		return m.theme.pending.Render(m.statusText)
	}
}

func (m model) button(label string, enabled bool) string {
	if enabled && m.interactive {
		return m.theme.enabled.Render(label)
	}
	return m.theme.disabled.Render(label)
}

func (m model) renderPorts() string {
	var b strings.Builder
	b.WriteString(m.button("Connect", m.controls.Connect))
	b.WriteString(" ")
	b.WriteString(m.button("Disconnect", m.controls.Disconnect))
	b.WriteString("\n\n")

	switch {
	case m.portsErr != "":
		b.WriteString(m.theme.statusErr.Render(m.portsErr))
	case len(m.ports) == 0:
		b.WriteString(m.theme.muted.Render("No ports"))
	default:
		for i, port := range m.ports {
			if i == m.portCursor {
				b.WriteString(m.theme.cursor.Render("> " + port))
			} else {
				b.WriteString("  " + port)
			}
			if i < len(m.ports)-1 {
				b.WriteString("\n")
			}
		}
	}

	presets := m.ctrl.Commands.Presets()
	if len(presets) > 0 {
		b.WriteString("\n\n")
		for i, p := range presets {
			if i >= 9 {
				break
			}
			b.WriteString(m.theme.muted.Render(fmt.Sprintf("F%d:%s ", i+1, p)))
		}
	}

	box := m.theme.box
	if m.focus == panePorts {
		box = m.theme.boxFocus
	}
	return box.Width(30).Render(b.String())
}

func (m model) renderGallery() string {
	var b strings.Builder
	tabs := make([]string, 0, len(backend.Categories))
	for i, cat := range backend.Categories {
		label := fmt.Sprintf("%d %s", i+1, cat.Label())
		if cat == m.tab {
			tabs = append(tabs, m.theme.tabActive.Render(label))
		} else {
			tabs = append(tabs, m.theme.tab.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if m.emptyMessage != "" || len(m.entries) == 0 {
		b.WriteString(m.theme.muted.Render(m.emptyMessage))
	}
	for i, e := range m.entries {
		line := e.Name
		if e.Selected {
			line = m.theme.selected.Render("* " + line)
		} else {
			line = "  " + line
		}
		if i == m.entryCursor && m.focus == paneGallery {
			line = m.theme.cursor.Render(">") + line
		} else {
			line = " " + line
		}
		b.WriteString(line)
		if i < len(m.entries)-1 {
			b.WriteString("\n")
		}
	}

	if m.previewSrc != "" {
		b.WriteString("\n\n")
		b.WriteString(m.theme.focused.Render("Preview: "))
		b.WriteString(m.baseURL + m.previewSrc)
	}

	box := m.theme.box
	if m.focus == paneGallery {
		box = m.theme.boxFocus
	}
	width := max(30, m.width-36)
	return box.Width(width).Render(b.String())
}
