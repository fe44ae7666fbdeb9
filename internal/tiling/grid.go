package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/tagwm/internal/client"
	"github.com/1broseidon/tagwm/internal/platform"
)

// Grid tiles clients in a near-square grid with optional gaps.
type Grid struct {
	Gap int
	// FlexibleLastRow widens the clients of a partial last row to fill the
	// row.
	FlexibleLastRow bool
}

var _ Layout = Grid{}

func (Grid) layout() {}

func (Grid) Kind() Kind { return KindGrid }

func (Grid) HasMaster() bool { return false }

func (l Grid) Validate() error {
	if l.Gap < 0 {
		return fmt.Errorf("%w: gap %d is negative", ErrInvalidLayoutConfig, l.Gap)
	}
	return nil
}

// CalculateGrid determines the grid dimensions for n windows.
func CalculateGrid(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return rows, cols
}

func (l Grid) Arrange(clients []*client.Client, area platform.Rect, border int) []Placement {
	tiled := Tiled(clients)
	n := len(tiled)
	if n == 0 {
		return nil
	}

	rows, cols := CalculateGrid(n)
	gap := max(l.Gap, 0)

	// Gaps: one before each column and one after the last. Pixels left over
	// by the division widen the last column and heighten the last row.
	slotWidth, extraWidth := split(area.Width-(cols+1)*gap, cols)
	slotHeight, extraHeight := split(area.Height-(rows+1)*gap, rows)

	lastRow := rows - 1
	inLastRow := n - lastRow*cols
	flexible := l.FlexibleLastRow && inLastRow < cols
	lastSlotWidth, lastExtraWidth := slotWidth, extraWidth
	if flexible {
		lastSlotWidth, lastExtraWidth = split(area.Width-(inLastRow+1)*gap, inLastRow)
	}

	out := make([]Placement, 0, n)
	for i, c := range tiled {
		row, col := i/cols, i%cols
		w, extra, rowCols := slotWidth, extraWidth, cols
		if flexible && row == lastRow {
			w, extra, rowCols = lastSlotWidth, lastExtraWidth, inLastRow
		}
		cell := platform.Rect{
			X:      area.X + gap + col*(w+gap),
			Y:      area.Y + gap + row*(slotHeight+gap),
			Width:  w,
			Height: slotHeight,
		}
		if col == rowCols-1 {
			cell.Width += extra
		}
		if row == lastRow {
			cell.Height += extraHeight
		}
		out = append(out, place(c, cell, border))
	}
	return out
}

// split divides total into n slots of at least one pixel and returns the
// slot size with the pixels left over.
func split(total, n int) (slot, rest int) {
	slot = max(1, total/n)
	return slot, max(0, total-slot*n)
}
