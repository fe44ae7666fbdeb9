package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/wm"
)

type fakeController struct {
	status *ipc.StatusData
	calls  []string
	err    error
}

func (f *fakeController) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.status, nil
}

func (f *fakeController) View(tagview int, monitor *int) error {
	f.calls = append(f.calls, fmt.Sprintf("view %d on %d", tagview, *monitor))
	return nil
}

func (f *fakeController) Cycle(dir int) error {
	f.calls = append(f.calls, fmt.Sprintf("cycle %d", dir))
	return nil
}

func (f *fakeController) Promote() error {
	f.calls = append(f.calls, "promote")
	return nil
}

func (f *fakeController) SetLayout(p ipc.LayoutPayload) error {
	f.calls = append(f.calls, fmt.Sprintf("layout %s on %d", p.Layout, *p.Monitor))
	return nil
}

func twoMonitorStatus() *ipc.StatusData {
	zero, one := 0, 1
	return &ipc.StatusData{Status: wm.Status{
		ActiveMonitor: 0,
		Monitors: []wm.MonitorStatus{
			{ID: 0, Tagview: 0, Active: true},
			{ID: 1, Tagview: 2},
		},
		Tagviews: []wm.TagviewStatus{
			{Index: 0, Name: "1", Layout: "two-columns", Monitor: &zero,
				Clients: []wm.ClientStatus{{Window: 1, Name: "term", Selected: true, Focused: true}}},
			{Index: 1, Name: "2", Layout: "two-columns"},
			{Index: 2, Name: "web", Layout: "grid", Monitor: &one},
		},
	}}
}

func press(key string) tea.KeyMsg {
	switch key {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// step feeds msg to the model and runs the returned command once, feeding
// its message back in.
func step(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, isTick := out.(tickMsg); !isTick {
				next, _ = m.Update(out)
				m = next.(model)
			}
		}
	}
	return m
}

func TestInitLoadsStatus(t *testing.T) {
	ctl := &fakeController{status: twoMonitorStatus()}
	m := newModel(ctl, time.Millisecond)

	msg := m.Init()()
	next, cmd := m.Update(msg)
	m = next.(model)

	if m.status == nil {
		t.Fatalf("expected status to be loaded")
	}
	if cmd == nil {
		t.Fatalf("a poll should schedule the next tick")
	}
	if !strings.Contains(m.View(), "monitor 1") {
		t.Fatalf("expected monitor 1 in view:\n%s", m.View())
	}
}

func TestKeysTargetSelectedMonitor(t *testing.T) {
	ctl := &fakeController{status: twoMonitorStatus()}
	m := newModel(ctl, time.Second)
	m = step(t, m, statusMsg{status: ctl.status})

	m = step(t, m, press("tab"))
	if m.selected != 1 {
		t.Fatalf("selected = %d, want 1", m.selected)
	}

	m = step(t, m, press("4"))
	m = step(t, m, press("space"))
	m = step(t, m, press("j"))
	m = step(t, m, press("z"))

	want := []string{"view 3 on 1", "layout two-columns on 1", "cycle 1", "promote"}
	if !slices.Equal(ctl.calls, want) {
		t.Fatalf("calls = %v, want %v", ctl.calls, want)
	}
}

func TestSelectionWrapsAndClamps(t *testing.T) {
	ctl := &fakeController{status: twoMonitorStatus()}
	m := newModel(ctl, time.Second)
	m = step(t, m, statusMsg{status: ctl.status})

	m.moveSelection(-1)
	if m.selected != 1 {
		t.Fatalf("expected selection to wrap to 1, got %d", m.selected)
	}

	single := twoMonitorStatus()
	single.Monitors = single.Monitors[:1]
	m = step(t, m, statusMsg{status: single})
	if m.selected != 0 {
		t.Fatalf("expected selection clamped to 0, got %d", m.selected)
	}
}

func TestErrorsAreShown(t *testing.T) {
	ctl := &fakeController{err: errors.New("failed to connect to daemon")}
	m := newModel(ctl, time.Millisecond)
	m = step(t, m, m.Init()())

	if m.status != nil {
		t.Fatalf("expected no status after an error")
	}
	if !strings.Contains(m.View(), "failed to connect to daemon") {
		t.Fatalf("expected error in view:\n%s", m.View())
	}
}

func TestQuit(t *testing.T) {
	m := newModel(&fakeController{}, time.Second)
	_, cmd := m.Update(press("q"))
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
