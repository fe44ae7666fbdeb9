package tagview

import (
	"fmt"

	"github.com/1broseidon/tagwm/internal/client"
	"github.com/1broseidon/tagwm/internal/selectlist"
	"github.com/1broseidon/tagwm/internal/tiling"
)

// Registry holds the fixed set of tagviews for the life of the process.
type Registry struct {
	tagviews []*Tagview
}

// NewRegistry creates one tagview per name. Each starts with a copy of the
// given layouts, the first being active.
func NewRegistry(names []string, layouts ...tiling.Layout) *Registry {
	r := &Registry{tagviews: make([]*Tagview, len(names))}
	for i, name := range names {
		r.tagviews[i] = New(i, name, layouts...)
	}
	return r
}

// Len returns the number of tagviews.
func (r *Registry) Len() int { return len(r.tagviews) }

// All returns the tagviews in index order.
func (r *Registry) All() []*Tagview {
	out := make([]*Tagview, len(r.tagviews))
	copy(out, r.tagviews)
	return out
}

// Get returns the tagview at index.
func (r *Registry) Get(index int) (*Tagview, error) {
	if index < 0 || index >= len(r.tagviews) {
		return nil, fmt.Errorf("tagview %d: %w", index, selectlist.ErrNotFound)
	}
	return r.tagviews[index], nil
}

// Has reports whether tv is one of the registry's tagviews.
func (r *Registry) Has(tv *Tagview) bool {
	return tv != nil && tv.Index >= 0 && tv.Index < len(r.tagviews) && r.tagviews[tv.Index] == tv
}

// Owner returns the tagview that contains c.
func (r *Registry) Owner(c *client.Client) (*Tagview, bool) {
	for _, tv := range r.tagviews {
		if tv.Contains(c) {
			return tv, true
		}
	}
	return nil, false
}
