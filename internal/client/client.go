// Package client holds the record kept for every managed window.
package client

import (
	"fmt"

	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/google/uuid"
)

// ID identifies a managed client independently of its window handle.
type ID uuid.UUID

// NewID returns a fresh random ID.
func NewID() ID {
	return ID(uuid.New())
}

// ParseID parses the string form of an ID.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("invalid client id %q: %w", s, err)
	}
	return ID(u), nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Hints are the size constraints derived from WM_NORMAL_HINTS.
type Hints struct {
	BaseWidth, BaseHeight int
	MinWidth, MinHeight   int
	MaxWidth, MaxHeight   int
	WidthInc, HeightInc   int
	// MinAspect is height/width, MaxAspect is width/height.
	MinAspect, MaxAspect float64
}

// Client is one managed window. It carries no reference to the tagview or
// monitor it lives on; a tagview's list is the only record of membership.
type Client struct {
	ID     ID
	Window platform.WindowID
	Name   string

	X, Y, Width, Height int
	Border              int

	OldX, OldY, OldWidth, OldHeight int
	OldBorder                       int

	Hints      Hints
	HintsValid bool

	Fixed       bool
	Floating    bool
	Urgent      bool
	NeverFocus  bool
	Fullscreen  bool
	WasFloating bool
}

// New creates a client for window w with the given initial geometry. The
// window's own border width is kept as the old border so it can be restored.
func New(w platform.WindowID, geom platform.Rect, border int) *Client {
	return &Client{
		ID:        NewID(),
		Window:    w,
		X:         geom.X,
		Y:         geom.Y,
		Width:     geom.Width,
		Height:    geom.Height,
		OldX:      geom.X,
		OldY:      geom.Y,
		OldWidth:  geom.Width,
		OldHeight: geom.Height,
		OldBorder: border,
	}
}

func (c *Client) String() string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("client(0x%x)", uint32(c.Window))
}

// Rect returns the content geometry.
func (c *Client) Rect() platform.Rect {
	return platform.Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

// TotalWidth is the width including both borders.
func (c *Client) TotalWidth() int {
	return c.Width + 2*c.Border
}

// TotalHeight is the height including both borders.
func (c *Client) TotalHeight() int {
	return c.Height + 2*c.Border
}

// SetGeometry stores r as the current geometry.
func (c *Client) SetGeometry(r platform.Rect) {
	c.X, c.Y, c.Width, c.Height = r.X, r.Y, r.Width, r.Height
}

// UpdateSizeHints refreshes the constraint fields from freshly read hints.
func (c *Client) UpdateSizeHints(sh platform.SizeHints) {
	var h Hints

	switch {
	case sh.HasBase:
		h.BaseWidth, h.BaseHeight = sh.BaseWidth, sh.BaseHeight
	case sh.HasMin:
		h.BaseWidth, h.BaseHeight = sh.MinWidth, sh.MinHeight
	}
	if sh.HasInc {
		h.WidthInc, h.HeightInc = sh.WidthInc, sh.HeightInc
	}
	if sh.HasMax {
		h.MaxWidth, h.MaxHeight = sh.MaxWidth, sh.MaxHeight
	}
	switch {
	case sh.HasMin:
		h.MinWidth, h.MinHeight = sh.MinWidth, sh.MinHeight
	case sh.HasBase:
		h.MinWidth, h.MinHeight = sh.BaseWidth, sh.BaseHeight
	}
	if sh.HasAspect && sh.MinAspectNum > 0 && sh.MaxAspectDen > 0 {
		h.MinAspect = float64(sh.MinAspectDen) / float64(sh.MinAspectNum)
		h.MaxAspect = float64(sh.MaxAspectNum) / float64(sh.MaxAspectDen)
	}

	c.Hints = h
	c.HintsValid = true
	c.Fixed = h.MaxWidth > 0 && h.MaxHeight > 0 &&
		h.MaxWidth == h.MinWidth && h.MaxHeight == h.MinHeight
}

// UpdateWMHints refreshes urgency and focus acceptance. A focused client is
// never marked urgent; the returned bool reports that the window's urgency
// hint should be cleared.
func (c *Client) UpdateWMHints(wh platform.WMHints, focused bool) (clearUrgency bool) {
	if focused && wh.Urgent {
		c.Urgent = false
		clearUrgency = true
	} else {
		c.Urgent = wh.Urgent
	}
	c.NeverFocus = wh.HasInput && !wh.Input
	return clearUrgency
}

// SetFullscreen switches the fullscreen flag. Entering saves geometry, border
// and floating state and covers screen; leaving restores them. It reports
// whether anything changed.
func (c *Client) SetFullscreen(on bool, screen platform.Rect) bool {
	switch {
	case on && !c.Fullscreen:
		c.Fullscreen = true
		c.WasFloating = c.Floating
		c.OldX, c.OldY, c.OldWidth, c.OldHeight = c.X, c.Y, c.Width, c.Height
		c.OldBorder = c.Border
		c.Border = 0
		c.Floating = true
		c.SetGeometry(screen)
		return true
	case !on && c.Fullscreen:
		c.Fullscreen = false
		c.Floating = c.WasFloating
		c.Border = c.OldBorder
		c.X, c.Y = c.OldX, c.OldY
		c.Width, c.Height = c.OldWidth, c.OldHeight
		return true
	}
	return false
}
