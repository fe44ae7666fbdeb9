package tiling

import (
	"errors"
	"fmt"

	"github.com/1broseidon/tagwm/internal/client"
	"github.com/1broseidon/tagwm/internal/platform"
)

// ErrInvalidLayoutConfig is returned when layout parameters are out of range.
var ErrInvalidLayoutConfig = errors.New("invalid layout config")

// Kind names a layout variant.
type Kind string

const (
	KindTwoColumns Kind = "two-columns"
	KindGrid       Kind = "grid"
)

// Kinds lists every layout variant in cycling order.
var Kinds = []Kind{KindTwoColumns, KindGrid}

// ParseKind converts a layout name into a Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown layout %q", name)
}

// Placement is the geometry computed for one client.
type Placement struct {
	Client *client.Client
	Rect   platform.Rect
	Border int
}

// Layout computes client geometry for a work area. Implementations are pure:
// the same inputs always yield the same placements. Floating clients are not
// placed.
type Layout interface {
	Kind() Kind
	// HasMaster reports whether the first tiled client has a distinguished
	// slot.
	HasMaster() bool
	Validate() error
	Arrange(clients []*client.Client, area platform.Rect, border int) []Placement

	layout()
}

// Tiled returns the non-floating clients in order.
func Tiled(clients []*client.Client) []*client.Client {
	out := make([]*client.Client, 0, len(clients))
	for _, c := range clients {
		if !c.Floating {
			out = append(out, c)
		}
	}
	return out
}

// place shrinks a cell so the border is drawn outside the content.
func place(c *client.Client, cell platform.Rect, border int) Placement {
	return Placement{
		Client: c,
		Rect: platform.Rect{
			X:      cell.X,
			Y:      cell.Y,
			Width:  max(1, cell.Width-2*border),
			Height: max(1, cell.Height-2*border),
		},
		Border: border,
	}
}

// Default returns the default configuration for kind.
func Default(kind Kind) Layout {
	switch kind {
	case KindGrid:
		return Grid{FlexibleLastRow: true}
	default:
		return TwoColumns{MasterCount: 1, SplitRatio: 0.5}
	}
}
