package client

import "github.com/1broseidon/tagwm/internal/platform"

// Constraint describes where a proposed geometry must land.
type Constraint struct {
	// Bounds is the monitor work area, or the whole screen while the user
	// is dragging.
	Bounds      platform.Rect
	Interactive bool
	// RespectHints applies size hints to tiled clients too. Floating
	// clients always get them.
	RespectHints bool
}

// ApplySizeHints adjusts a proposed geometry to the client's constraints and
// reports whether the result differs from the current geometry.
func (c *Client) ApplySizeHints(r platform.Rect, con Constraint) (platform.Rect, bool) {
	x, y, w, h := r.X, r.Y, max(1, r.Width), max(1, r.Height)
	b := con.Bounds
	bw2 := 2 * c.Border

	if con.Interactive {
		if x > b.X+b.Width {
			x = b.X + b.Width - c.TotalWidth()
		}
		if y > b.Y+b.Height {
			y = b.Y + b.Height - c.TotalHeight()
		}
		if x+w+bw2 < b.X {
			x = b.X
		}
		if y+h+bw2 < b.Y {
			y = b.Y
		}
	} else {
		if x >= b.X+b.Width {
			x = b.X + b.Width - c.TotalWidth()
		}
		if y >= b.Y+b.Height {
			y = b.Y + b.Height - c.TotalHeight()
		}
		if x+w+bw2 <= b.X {
			x = b.X
		}
		if y+h+bw2 <= b.Y {
			y = b.Y
		}
	}

	if con.RespectHints || c.Floating {
		w, h = c.Hints.constrain(w, h)
	}

	out := platform.Rect{X: x, Y: y, Width: w, Height: h}
	return out, out != c.Rect()
}

// constrain follows ICCCM 4.1.2.3: base size is removed before aspect and
// increment handling unless it doubles as the minimum size.
func (h Hints) constrain(w, hgt int) (int, int) {
	baseIsMin := h.BaseWidth == h.MinWidth && h.BaseHeight == h.MinHeight
	if !baseIsMin {
		w -= h.BaseWidth
		hgt -= h.BaseHeight
	}
	if h.MinAspect > 0 && h.MaxAspect > 0 && w > 0 && hgt > 0 {
		if h.MaxAspect < float64(w)/float64(hgt) {
			w = int(float64(hgt)*h.MaxAspect + 0.5)
		} else if h.MinAspect < float64(hgt)/float64(w) {
			hgt = int(float64(w)*h.MinAspect + 0.5)
		}
	}
	if baseIsMin {
		w -= h.BaseWidth
		hgt -= h.BaseHeight
	}
	if h.WidthInc > 0 {
		w -= w % h.WidthInc
	}
	if h.HeightInc > 0 {
		hgt -= hgt % h.HeightInc
	}
	w = max(w+h.BaseWidth, h.MinWidth)
	hgt = max(hgt+h.BaseHeight, h.MinHeight)
	if h.MaxWidth > 0 {
		w = min(w, h.MaxWidth)
	}
	if h.MaxHeight > 0 {
		hgt = min(hgt, h.MaxHeight)
	}
	return max(1, w), max(1, hgt)
}
