package wm

import (
	"fmt"

	"github.com/1broseidon/tagwm/internal/monitor"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tagview"
	"github.com/1broseidon/tagwm/internal/tiling"
)

// WorkspaceSwitch shows tagview idx on monitor monID. A tagview already shown
// on another monitor trades places with the one on monID, so no tagview is
// ever displayed twice.
func (m *Manager) WorkspaceSwitch(in Input, monID, idx int) error {
	mon, err := m.Monitor(monID)
	if err != nil {
		return err
	}
	tv, err := m.tagviews.Get(idx)
	if err != nil {
		return err
	}
	if other := m.displaying(tv); other != nil && other != mon {
		mon.SwapTagviews(other, m)
	} else {
		mon.Show(tv, m)
	}
	if monID == in.ActiveMonitor {
		m.focus(in, nil)
	}
	m.log.Debug().Int("monitor", monID).Int("tagview", idx).Msg("switched tagview")
	return nil
}

// MonitorTopologyChanged reconciles monitors with the detected screens.
// Existing monitors are resized in order, new ones show the first tagview not
// on display and surplus ones are removed from the tail, hiding their
// tagviews. The returned Input has its active monitor clamped into range.
func (m *Manager) MonitorTopologyChanged(in Input, screens []platform.Rect) (Input, error) {
	unique := uniqueRects(screens)
	if len(unique) == 0 {
		return in, fmt.Errorf("no usable screens")
	}

	existing := m.monitors.Items()
	for i, r := range unique {
		if i < len(existing) {
			if existing[i].Screen() != r {
				existing[i].Resize(r, m)
				m.log.Info().Int("monitor", i).Interface("screen", r).Msg("monitor resized")
			}
			continue
		}
		tv := m.firstUndisplayed()
		if tv == nil {
			m.log.Warn().Int("screens", len(unique)).Int("tagviews", m.tagviews.Len()).
				Msg("more screens than tagviews, ignoring extra screens")
			break
		}
		mon := monitor.New(i, r, m.settings.Chrome, tv)
		m.monitors.Append(mon)
		m.Arrange(mon)
		m.ShowClients(tv)
		m.log.Info().Int("monitor", i).Interface("screen", r).Int("tagview", tv.Index).Msg("monitor added")
	}

	for m.monitors.Len() > len(unique) {
		mon, _ := m.monitors.PopTail()
		tv := mon.Detach(m)
		if m.focused != nil && tv.Contains(m.focused) {
			m.focused = nil
		}
		m.log.Info().Int("monitor", mon.ID).Int("tagview", tv.Index).Msg("monitor removed")
	}

	in.ActiveMonitor = min(max(in.ActiveMonitor, 0), m.monitors.Len()-1)
	m.focus(in, nil)
	return in, nil
}

func (m *Manager) firstUndisplayed() *tagview.Tagview {
	for _, tv := range m.tagviews.All() {
		if m.displaying(tv) == nil {
			return tv
		}
	}
	return nil
}

func uniqueRects(rects []platform.Rect) []platform.Rect {
	out := make([]platform.Rect, 0, len(rects))
	for _, r := range rects {
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}
		dup := false
		for _, o := range out {
			if o == r {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}

// FocusMonitor activates the monitor dir steps away, wrapping.
func (m *Manager) FocusMonitor(in Input, dir int) Input {
	n := m.monitors.Len()
	if n <= 1 {
		return in
	}
	in.ActiveMonitor = ((in.ActiveMonitor+dir)%n + n) % n
	m.focus(in, nil)
	return in
}

// ActivateMonitor makes monitor id active when the pointer enters it, moving
// focus to its selection. Unknown IDs leave in unchanged.
func (m *Manager) ActivateMonitor(in Input, id int) Input {
	if id == in.ActiveMonitor {
		return in
	}
	if _, err := m.Monitor(id); err != nil {
		return in
	}
	in.ActiveMonitor = id
	m.focus(in, nil)
	return in
}

// SendToMonitor moves the active monitor's selection to the tagview shown on
// the monitor dir steps away.
func (m *Manager) SendToMonitor(in Input, dir int) error {
	n := m.monitors.Len()
	if n <= 1 {
		return nil
	}
	c, err := m.selection(in.ActiveMonitor)
	if err != nil || c == nil {
		return err
	}
	target, err := m.Monitor(((in.ActiveMonitor+dir)%n + n) % n)
	if err != nil {
		return err
	}
	return m.SendToWorkspace(in, c.ID, target.Tagview().Index)
}

// MonitorAt returns the ID of the monitor containing the point, or -1.
func (m *Manager) MonitorAt(x, y int) int {
	for _, mon := range m.monitors.Items() {
		if mon.Screen().Contains(x, y) {
			return mon.ID
		}
	}
	return -1
}

// monitorFor returns the monitor overlapping r the most.
func (m *Manager) monitorFor(r platform.Rect) *monitor.Monitor {
	var best *monitor.Monitor
	area := 0
	for _, mon := range m.monitors.Items() {
		if a := mon.Screen().Intersect(r); a > area {
			best, area = mon, a
		}
	}
	return best
}

// ToggleChrome shows or hides the reserved bar strip on a monitor.
func (m *Manager) ToggleChrome(monID int) error {
	mon, err := m.Monitor(monID)
	if err != nil {
		return err
	}
	mon.SetChromeVisible(!mon.Chrome().Visible, m)
	return nil
}

// SetLayout switches the layout of the tagview shown on monID.
func (m *Manager) SetLayout(monID int, kind tiling.Kind) error {
	mon, err := m.Monitor(monID)
	if err != nil {
		return err
	}
	if err := mon.Tagview().SetLayout(kind); err != nil {
		return err
	}
	m.Arrange(mon)
	return nil
}

// CycleLayout activates the next or previous layout on monID.
func (m *Manager) CycleLayout(monID, delta int) (tiling.Kind, error) {
	mon, err := m.Monitor(monID)
	if err != nil {
		return "", err
	}
	kind := mon.Tagview().CycleLayout(delta)
	m.Arrange(mon)
	return kind, nil
}

// SetLayoutConfig replaces a layout's parameters on the tagview shown on
// monID. An invalid config leaves the old one in place.
func (m *Manager) SetLayoutConfig(monID int, l tiling.Layout) error {
	mon, err := m.Monitor(monID)
	if err != nil {
		return err
	}
	if err := mon.Tagview().SetLayoutConfig(l); err != nil {
		return err
	}
	m.Arrange(mon)
	return nil
}

// AdjustMasterCount changes the master count on monID by delta.
func (m *Manager) AdjustMasterCount(monID, delta int) error {
	mon, err := m.Monitor(monID)
	if err != nil {
		return err
	}
	mon.Tagview().AdjustMasterCount(delta)
	m.Arrange(mon)
	return nil
}

// AdjustSplitRatio changes the split ratio on monID by delta.
func (m *Manager) AdjustSplitRatio(monID int, delta float64) error {
	mon, err := m.Monitor(monID)
	if err != nil {
		return err
	}
	if err := mon.Tagview().AdjustSplitRatio(delta); err != nil {
		return err
	}
	m.Arrange(mon)
	return nil
}

// ApplySettings installs new settings and re-arranges every monitor.
func (m *Manager) ApplySettings(s Settings) {
	m.settings = s
	for _, mon := range m.monitors.Items() {
		if mon.Chrome() != s.Chrome {
			mon.SetChrome(s.Chrome, m)
		}
	}
	m.ArrangeAll()
	if m.focused != nil {
		_ = m.backend.SetBorderColor(m.focused.Window, true)
	}
}
