// Package selectlist provides an ordered container with a movable selection
// cursor. Workspaces keep their clients in one and monitors are tracked the
// same way.
package selectlist

import "errors"

// ErrNotFound is returned when an operation addresses an item that is not in
// the list.
var ErrNotFound = errors.New("item not found")

const noSelection = -1

// List is an ordered sequence of items plus an optional cursor. Items are
// matched by ==, which is identity for pointer element types.
//
// The cursor always references an item in the list, or nothing when the list
// is empty or no item was ever selected.
type List[T comparable] struct {
	items []T
	sel   int
}

// New returns an empty list with no selection.
func New[T comparable]() *List[T] {
	return &List[T]{sel: noSelection}
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Items returns a copy of the items in order.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Index returns the position of item, or -1.
func (l *List[T]) Index(item T) int {
	for i, it := range l.items {
		if it == item {
			return i
		}
	}
	return -1
}

// Contains reports whether item is in the list.
func (l *List[T]) Contains(item T) bool {
	return l.Index(item) >= 0
}

// Head returns the first item without touching the cursor.
func (l *List[T]) Head() (T, bool) {
	if len(l.items) == 0 {
		var zero T
		return zero, false
	}
	return l.items[0], true
}

// At returns the item at position i.
func (l *List[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// Append inserts item at the tail. The cursor is unchanged.
func (l *List[T]) Append(item T) {
	l.items = append(l.items, item)
}

// Prepend inserts item at the head. The cursor keeps its referent.
func (l *List[T]) Prepend(item T) {
	l.insertAt(0, item)
}

// InsertBefore inserts item immediately before anchor. If anchor is not in
// the list the item is prepended.
func (l *List[T]) InsertBefore(anchor, item T) {
	i := l.Index(anchor)
	if i < 0 {
		i = 0
	}
	l.insertAt(i, item)
}

func (l *List[T]) insertAt(i int, item T) {
	var zero T
	l.items = append(l.items, zero)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = item
	if l.sel != noSelection && i <= l.sel {
		l.sel++
	}
}

// Remove deletes item. When the removed item was selected the cursor moves to
// the item that followed it, else to the one before it, else to nothing.
func (l *List[T]) Remove(item T) error {
	i := l.Index(item)
	if i < 0 {
		return ErrNotFound
	}
	l.removeAt(i)
	return nil
}

func (l *List[T]) removeAt(i int) {
	var zero T
	copy(l.items[i:], l.items[i+1:])
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]

	switch {
	case l.sel == noSelection:
	case i < l.sel:
		l.sel--
	case i == l.sel:
		// The follower slid into position i.
		if i >= len(l.items) {
			l.sel = i - 1
		}
		if len(l.items) == 0 {
			l.sel = noSelection
		}
	}
}

// PopTail removes and returns the last item.
func (l *List[T]) PopTail() (T, bool) {
	if len(l.items) == 0 {
		var zero T
		return zero, false
	}
	item := l.items[len(l.items)-1]
	l.removeAt(len(l.items) - 1)
	return item, true
}

// Select moves the cursor to item.
func (l *List[T]) Select(item T) error {
	i := l.Index(item)
	if i < 0 {
		return ErrNotFound
	}
	l.sel = i
	return nil
}

// Selected returns the item under the cursor.
func (l *List[T]) Selected() (T, bool) {
	if l.sel == noSelection {
		var zero T
		return zero, false
	}
	return l.items[l.sel], true
}

// SelectHead moves the cursor to the first item.
func (l *List[T]) SelectHead() (T, bool) {
	return l.selectAt(0)
}

// SelectTail moves the cursor to the last item.
func (l *List[T]) SelectTail() (T, bool) {
	return l.selectAt(len(l.items) - 1)
}

// SelectNext moves the cursor one step toward the tail. At the tail it
// returns false and leaves the cursor where it is. With no cursor set it
// selects the head.
func (l *List[T]) SelectNext() (T, bool) {
	if l.sel == noSelection {
		return l.SelectHead()
	}
	if l.sel == len(l.items)-1 {
		var zero T
		return zero, false
	}
	return l.selectAt(l.sel + 1)
}

// SelectPrevious moves the cursor one step toward the head. At the head it
// returns false and leaves the cursor where it is. With no cursor set it
// selects the head.
func (l *List[T]) SelectPrevious() (T, bool) {
	if l.sel == noSelection {
		return l.SelectHead()
	}
	if l.sel == 0 {
		var zero T
		return zero, false
	}
	return l.selectAt(l.sel - 1)
}

// SelectNextWrapping is SelectNext, continuing at the head after the tail.
func (l *List[T]) SelectNextWrapping() (T, bool) {
	if item, ok := l.SelectNext(); ok {
		return item, true
	}
	return l.SelectHead()
}

// SelectPreviousWrapping is SelectPrevious, continuing at the tail before the
// head.
func (l *List[T]) SelectPreviousWrapping() (T, bool) {
	if item, ok := l.SelectPrevious(); ok {
		return item, true
	}
	return l.SelectTail()
}

func (l *List[T]) selectAt(i int) (T, bool) {
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	l.sel = i
	return l.items[i], true
}

// Swap exchanges the positions of a and b. The cursor stays on its position,
// so it follows whichever item lands there.
func (l *List[T]) Swap(a, b T) error {
	i, j := l.Index(a), l.Index(b)
	if i < 0 || j < 0 {
		return ErrNotFound
	}
	l.items[i], l.items[j] = l.items[j], l.items[i]
	return nil
}

// Find returns the first item matching pred.
func (l *List[T]) Find(pred func(T) bool) (T, bool) {
	for _, it := range l.items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}
