package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/wm"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	shownStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	occupiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	urgentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// renderMonitorBar renders one tab per monitor, highlighting the selection.
func renderMonitorBar(mons []wm.MonitorStatus, selected, width int) string {
	tabs := make([]string, 0, len(mons))
	for i, mon := range mons {
		label := fmt.Sprintf("monitor %d", mon.ID)
		if mon.Active {
			label += " *"
		}
		if i == selected {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// renderTagviewStrip lists every tagview by number. Shown tagviews are
// bold, occupied ones plain and empty ones dim.
func renderTagviewStrip(st *ipc.StatusData, width int) string {
	cells := make([]string, 0, len(st.Tagviews))
	for _, tv := range st.Tagviews {
		label := fmt.Sprintf(" %d:%s ", tv.Index+1, tv.Name)
		switch {
		case hasUrgent(tv):
			cells = append(cells, urgentStyle.Render(label))
		case tv.Monitor != nil:
			cells = append(cells, shownStyle.Render(label))
		case len(tv.Clients) > 0:
			cells = append(cells, occupiedStyle.Render(label))
		default:
			cells = append(cells, emptyStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(width).MarginBottom(1).Render(strings.Join(cells, ""))
}

func renderClients(tv wm.TagviewStatus, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tagview %d (%s)  layout: %s\n", tv.Index+1, tv.Name, tv.Layout)
	if len(tv.Clients) == 0 {
		b.WriteString(emptyStyle.Render("  no windows"))
	}
	for i, c := range tv.Clients {
		if i > 0 {
			b.WriteString("\n")
		}
		marker := "  "
		if c.Selected {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-40s %dx%d+%d+%d", marker, truncate(c.Name, 40),
			c.Bounds.Width, c.Bounds.Height, c.Bounds.X, c.Bounds.Y)
		if c.Floating {
			line += "  floating"
		}
		if c.Fullscreen {
			line += "  fullscreen"
		}
		switch {
		case c.Urgent:
			line = urgentStyle.Render(line)
		case c.Focused:
			line = focusedStyle.Render(line)
		}
		b.WriteString(line)
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(b.String())
}

// renderStatusBar renders the daemon connection status bar.
func renderStatusBar(st *ipc.StatusData, err error, width int) string {
	var status string
	switch {
	case err != nil:
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("●")
		status = dot + " " + err.Error()
	case st == nil:
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " connecting"
	default:
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{
			dot + " tagwm running",
			"up " + (time.Duration(st.UptimeSeconds) * time.Second).String(),
			fmt.Sprintf("monitors:%d", len(st.Monitors)),
		}
		if st.Dragging {
			parts = append(parts, "dragging")
		}
		status = strings.Join(parts, "  ")
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(width int) string {
	help := "tab: monitor  1-9: view  j/k: focus  z: zoom  space: layout  q: quit"
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}

func hasUrgent(tv wm.TagviewStatus) bool {
	for _, c := range tv.Clients {
		if c.Urgent {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}
