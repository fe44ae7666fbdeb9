package tiling

import (
	"fmt"

	"github.com/1broseidon/tagwm/internal/client"
	"github.com/1broseidon/tagwm/internal/platform"
)

// Split ratio bounds used when adjusting interactively.
const (
	MinSplitRatio = 0.05
	MaxSplitRatio = 0.95
)

// TwoColumns places up to MasterCount clients in a left master column and the
// rest in a right stack column.
type TwoColumns struct {
	MasterCount int
	// SplitRatio is the master column's share of the width when both
	// columns are populated.
	SplitRatio float64
}

var _ Layout = TwoColumns{}

func (TwoColumns) layout() {}

func (TwoColumns) Kind() Kind { return KindTwoColumns }

func (TwoColumns) HasMaster() bool { return true }

func (l TwoColumns) Validate() error {
	if l.MasterCount < 0 {
		return fmt.Errorf("%w: master count %d is negative", ErrInvalidLayoutConfig, l.MasterCount)
	}
	if l.SplitRatio <= 0 || l.SplitRatio >= 1 {
		return fmt.Errorf("%w: split ratio %v outside (0,1)", ErrInvalidLayoutConfig, l.SplitRatio)
	}
	return nil
}

// Arrange stacks each column top to bottom without gaps. Integer remainders
// of the height division go to the last client of each column.
func (l TwoColumns) Arrange(clients []*client.Client, area platform.Rect, border int) []Placement {
	tiled := Tiled(clients)
	n := len(tiled)
	if n == 0 {
		return nil
	}

	m := min(max(l.MasterCount, 0), n)
	s := n - m

	var masterWidth int
	switch {
	case s == 0:
		masterWidth = area.Width
	case m == 0:
		masterWidth = 0
	default:
		masterWidth = int(float64(area.Width) * l.SplitRatio)
	}

	out := make([]Placement, 0, n)
	out = appendColumn(out, tiled[:m], platform.Rect{
		X: area.X, Y: area.Y, Width: masterWidth, Height: area.Height,
	}, border)
	out = appendColumn(out, tiled[m:], platform.Rect{
		X: area.X + masterWidth, Y: area.Y, Width: area.Width - masterWidth, Height: area.Height,
	}, border)
	return out
}

func appendColumn(out []Placement, clients []*client.Client, col platform.Rect, border int) []Placement {
	if len(clients) == 0 {
		return out
	}
	h := col.Height / len(clients)
	y := col.Y
	for i, c := range clients {
		cell := platform.Rect{X: col.X, Y: y, Width: col.Width, Height: h}
		if i == len(clients)-1 {
			cell.Height = col.Y + col.Height - y
		}
		out = append(out, place(c, cell, border))
		y += h
	}
	return out
}
