// Package tagview implements workspaces: an ordered, selectable set of
// clients plus the layout used to tile them.
package tagview

import (
	"fmt"

	"github.com/1broseidon/tagwm/internal/client"
	"github.com/1broseidon/tagwm/internal/selectlist"
	"github.com/1broseidon/tagwm/internal/tiling"
)

// Tagview is a workspace. It owns its clients exclusively.
type Tagview struct {
	Index int
	Name  string

	clients *selectlist.List[*client.Client]
	active  tiling.Kind
	layouts map[tiling.Kind]tiling.Layout
}

// New creates an empty tagview using layout as its active layout. Every other
// variant starts from its default configuration.
func New(index int, name string, layouts ...tiling.Layout) *Tagview {
	tv := &Tagview{
		Index:   index,
		Name:    name,
		clients: selectlist.New[*client.Client](),
		active:  tiling.KindTwoColumns,
		layouts: make(map[tiling.Kind]tiling.Layout, len(tiling.Kinds)),
	}
	for _, k := range tiling.Kinds {
		tv.layouts[k] = tiling.Default(k)
	}
	for i, l := range layouts {
		tv.layouts[l.Kind()] = l
		if i == 0 {
			tv.active = l.Kind()
		}
	}
	return tv
}

func (tv *Tagview) String() string {
	return fmt.Sprintf("tagview %d (%s)", tv.Index, tv.Name)
}

// Len returns the number of clients.
func (tv *Tagview) Len() int { return tv.clients.Len() }

// Clients returns the clients in order.
func (tv *Tagview) Clients() []*client.Client { return tv.clients.Items() }

// Tiled returns the non-floating clients in order.
func (tv *Tagview) Tiled() []*client.Client { return tiling.Tiled(tv.clients.Items()) }

// Contains reports whether c belongs to this tagview.
func (tv *Tagview) Contains(c *client.Client) bool { return tv.clients.Contains(c) }

// Selected returns the selected client.
func (tv *Tagview) Selected() (*client.Client, bool) { return tv.clients.Selected() }

// Select makes c the selected client.
func (tv *Tagview) Select(c *client.Client) error { return tv.clients.Select(c) }

// SelectNext moves the selection forward, wrapping at the end.
func (tv *Tagview) SelectNext() (*client.Client, bool) { return tv.clients.SelectNextWrapping() }

// SelectPrevious moves the selection backward, wrapping at the start.
func (tv *Tagview) SelectPrevious() (*client.Client, bool) {
	return tv.clients.SelectPreviousWrapping()
}

// Find returns the first client matching pred.
func (tv *Tagview) Find(pred func(*client.Client) bool) (*client.Client, bool) {
	return tv.clients.Find(pred)
}

// Attach inserts c just before the selected client and selects it.
func (tv *Tagview) Attach(c *client.Client) {
	if sel, ok := tv.clients.Selected(); ok {
		tv.clients.InsertBefore(sel, c)
	} else {
		tv.clients.Prepend(c)
	}
	_ = tv.clients.Select(c)
}

// AttachFront prepends c and selects it.
func (tv *Tagview) AttachFront(c *client.Client) {
	tv.clients.Prepend(c)
	_ = tv.clients.Select(c)
}

// Detach removes c. The selection moves per selectlist removal rules.
func (tv *Tagview) Detach(c *client.Client) error {
	if err := tv.clients.Remove(c); err != nil {
		return fmt.Errorf("%s: detach %s: %w", tv, c, err)
	}
	return nil
}

// MoveTo transfers c to other. The caller re-arranges any monitor showing
// either tagview.
func (tv *Tagview) MoveTo(other *Tagview, c *client.Client) error {
	if err := tv.Detach(c); err != nil {
		return err
	}
	other.Attach(c)
	return nil
}

// PromoteToMaster swaps c into the first tiled position and selects it there.
// Floating clients and layouts without a master slot are left untouched.
func (tv *Tagview) PromoteToMaster(c *client.Client) error {
	if !tv.clients.Contains(c) {
		return fmt.Errorf("%s: promote %s: %w", tv, c, selectlist.ErrNotFound)
	}
	if c.Floating || !tv.Layout().HasMaster() {
		return nil
	}
	master, ok := tv.clients.Find(func(x *client.Client) bool { return !x.Floating })
	if !ok || master == c {
		return nil
	}
	if err := tv.clients.Swap(c, master); err != nil {
		return err
	}
	return tv.clients.Select(c)
}
