package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/tiling"
	"github.com/1broseidon/tagwm/internal/wm"
)

// statusMsg carries a status poll result. Only polled results schedule the
// next tick so action refreshes do not start extra poll chains.
type statusMsg struct {
	status *ipc.StatusData
	err    error
	polled bool
}

type actionMsg struct {
	err error
}

type tickMsg time.Time

// model is the root bubbletea model for the dashboard.
type model struct {
	ctl      Controller
	interval time.Duration

	status *ipc.StatusData
	err    error

	// selected indexes status.Monitors.
	selected int

	width  int
	height int
}

func newModel(ctl Controller, interval time.Duration) model {
	return model{ctl: ctl, interval: interval}
}

func (m model) fetch(polled bool) tea.Cmd {
	return func() tea.Msg {
		st, err := m.ctl.GetStatus()
		return statusMsg{status: st, err: err, polled: polled}
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) act(fn func() error) tea.Cmd {
	return func() tea.Msg { return actionMsg{err: fn()} }
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.fetch(true)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.err = msg.err
		if msg.status != nil {
			m.status = msg.status
			m.clampSelection()
		}
		if msg.polled {
			return m, m.tick()
		}
		return m, nil

	case tickMsg:
		return m, m.fetch(true)

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.fetch(false)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "tab", "right", "l":
		m.moveSelection(1)
		return m, nil
	case "shift+tab", "left", "h":
		m.moveSelection(-1)
		return m, nil
	case "j", "down":
		return m, m.act(func() error { return m.ctl.Cycle(1) })
	case "k", "up":
		return m, m.act(func() error { return m.ctl.Cycle(-1) })
	case "z", "enter":
		return m, m.act(m.ctl.Promote)
	case " ", "space":
		return m.toggleLayout()
	case "r":
		return m, m.fetch(false)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		mon, ok := m.selectedMonitor()
		if !ok {
			return m, nil
		}
		idx := int(key[0] - '1')
		id := mon.ID
		return m, m.act(func() error { return m.ctl.View(idx, &id) })
	}
	return m, nil
}

// toggleLayout switches the selected monitor's tagview to the other layout.
func (m model) toggleLayout() (tea.Model, tea.Cmd) {
	mon, ok := m.selectedMonitor()
	if !ok {
		return m, nil
	}
	next := tiling.KindGrid
	if tv, ok := m.tagview(mon.Tagview); ok && tv.Layout == string(tiling.KindGrid) {
		next = tiling.KindTwoColumns
	}
	id := mon.ID
	return m, m.act(func() error {
		return m.ctl.SetLayout(ipc.LayoutPayload{Layout: string(next), Monitor: &id})
	})
}

func (m *model) moveSelection(delta int) {
	if m.status == nil || len(m.status.Monitors) == 0 {
		return
	}
	n := len(m.status.Monitors)
	m.selected = ((m.selected+delta)%n + n) % n
}

func (m *model) clampSelection() {
	if n := len(m.status.Monitors); m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

func (m model) selectedMonitor() (wm.MonitorStatus, bool) {
	if m.status == nil || m.selected >= len(m.status.Monitors) {
		return wm.MonitorStatus{}, false
	}
	return m.status.Monitors[m.selected], true
}

func (m model) tagview(idx int) (wm.TagviewStatus, bool) {
	if m.status == nil {
		return wm.TagviewStatus{}, false
	}
	for _, tv := range m.status.Tagviews {
		if tv.Index == idx {
			return tv, true
		}
	}
	return wm.TagviewStatus{}, false
}

// View implements tea.Model.
func (m model) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}

	statusBar := renderStatusBar(m.status, m.err, width)
	helpBar := renderHelpBar(width)
	if m.status == nil {
		return lipgloss.JoinVertical(lipgloss.Left, statusBar, helpBar)
	}

	monitorBar := renderMonitorBar(m.status.Monitors, m.selected, width)
	strip := renderTagviewStrip(m.status, width)

	var content string
	if mon, ok := m.selectedMonitor(); ok {
		if tv, ok := m.tagview(mon.Tagview); ok {
			content = renderClients(tv, width)
		}
	}

	parts := []string{statusBar, monitorBar, strip, content}
	if m.height > 0 {
		used := 0
		for _, p := range parts {
			used += lipgloss.Height(p)
		}
		if pad := m.height - used - lipgloss.Height(helpBar); pad > 0 {
			parts = append(parts, strings.Repeat("\n", pad-1))
		}
	}
	parts = append(parts, helpBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
