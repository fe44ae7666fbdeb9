package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// None is the absent window.
const None WindowID = 0

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersect returns the overlapping area of r and o.
func (r Rect) Intersect(o Rect) int {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	return (x2 - x1) * (y2 - y1)
}

// SizeHints carries WM_NORMAL_HINTS as read from the window. Each group of
// fields is only meaningful when its Has flag is set.
type SizeHints struct {
	HasBase               bool
	BaseWidth, BaseHeight int

	HasMin              bool
	MinWidth, MinHeight int

	HasMax              bool
	MaxWidth, MaxHeight int

	HasInc              bool
	WidthInc, HeightInc int

	// Aspect ratios as numerator/denominator pairs.
	HasAspect                  bool
	MinAspectNum, MinAspectDen int
	MaxAspectNum, MaxAspectDen int
}

// WMHints carries the parts of WM_HINTS the manager acts on.
type WMHints struct {
	Urgent bool
	// HasInput is set when the input field was present.
	HasInput bool
	Input    bool
}

// Properties are the window properties read once when a window is managed
// and again when they change.
type Properties struct {
	Name string
	// Dialog is set for _NET_WM_WINDOW_TYPE_DIALOG.
	Dialog bool
	// Fullscreen is set when _NET_WM_STATE already holds the fullscreen atom.
	Fullscreen bool
}

// Backend is the set of display-server calls the window manager needs.
type Backend interface {
	// MoveResize applies geometry and border width to a window.
	MoveResize(id WindowID, bounds Rect, border int) error
	Show(id WindowID) error
	Hide(id WindowID) error
	// Focus gives input focus to id, or to the root when id is None.
	Focus(id WindowID) error
	SizeHints(id WindowID) (SizeHints, error)
	WMHints(id WindowID) (WMHints, error)
	Properties(id WindowID) (Properties, error)
	// TransientFor returns the window id is transient for, or None.
	TransientFor(id WindowID) (WindowID, error)
	// Configure tells a window its current geometry without changing it.
	Configure(id WindowID, bounds Rect, border int) error
	SetBorderColor(id WindowID, focused bool) error
	SetClientList(ids []WindowID) error
	Raise(id WindowID) error
	Close(id WindowID) error
}
