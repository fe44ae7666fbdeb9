package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/wm"
)

type styles struct {
	header  lipgloss.Style
	active  lipgloss.Style
	focused lipgloss.Style
	urgent  lipgloss.Style
	dim     lipgloss.Style
}

// newStyles returns coloured styles for a terminal and no-op styles
// otherwise, so piped output stays plain.
func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{header: plain, active: plain, focused: plain, urgent: plain, dim: plain}
	}
	return styles{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		active:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		focused: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		urgent:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func renderStatus(st *ipc.StatusData, s styles) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", s.header.Render("uptime:"), time.Duration(st.UptimeSeconds)*time.Second)
	if st.Dragging {
		fmt.Fprintf(&b, "%s\n", s.dim.Render("drag in progress"))
	}
	b.WriteString(renderMonitors(st.Monitors, s))

	for _, tv := range st.Tagviews {
		if len(tv.Clients) == 0 && tv.Monitor == nil {
			continue
		}
		title := fmt.Sprintf("tagview %d (%s) %s", tv.Index+1, tv.Name, tv.Layout)
		if tv.Monitor != nil {
			title += fmt.Sprintf(" on monitor %d", *tv.Monitor)
		}
		fmt.Fprintf(&b, "%s\n", s.header.Render(title))
		if len(tv.Clients) == 0 {
			fmt.Fprintf(&b, "  %s\n", s.dim.Render("(empty)"))
		}
		for _, c := range tv.Clients {
			b.WriteString("  " + renderClient(c, s) + "\n")
		}
	}
	return b.String()
}

func renderMonitors(mons []wm.MonitorStatus, s styles) string {
	var b strings.Builder
	for _, m := range mons {
		line := fmt.Sprintf("monitor %d: %s tagview %d", m.ID, formatRect(m.Screen), m.Tagview+1)
		if m.Active {
			line = s.active.Render(line + " *")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderClient(c wm.ClientStatus, s styles) string {
	marker := " "
	if c.Selected {
		marker = ">"
	}
	var flags []string
	if c.Floating {
		flags = append(flags, "floating")
	}
	if c.Fullscreen {
		flags = append(flags, "fullscreen")
	}
	if c.Urgent {
		flags = append(flags, "urgent")
	}
	line := fmt.Sprintf("%s 0x%07x %s %s", marker, c.Window, formatRect(c.Bounds), c.Name)
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, ",") + "]"
	}
	switch {
	case c.Urgent:
		return s.urgent.Render(line)
	case c.Focused:
		return s.focused.Render(line)
	}
	return line
}

func formatRect(r platform.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
