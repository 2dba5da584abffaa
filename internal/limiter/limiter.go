// Package limiter computes the visible slice of a list that is taller than
// the panel showing it.
package limiter

import (
	"fmt"
)

// Window holds the viewport parameters.
type Window struct {
	Limit  int // Show at most this many rows (0 = unlimited)
	Offset int // Index of the first visible row
}

// Validate rejects negative values.
func (w Window) Validate() error {
	if w.Limit < 0 {
		return fmt.Errorf("limit must be non-negative, got %d", w.Limit)
	}
	if w.Offset < 0 {
		return fmt.Errorf("offset must be non-negative, got %d", w.Offset)
	}
	return nil
}

// IsActive returns true if any windowing is configured.
func (w Window) IsActive() bool {
	return w.Limit > 0 || w.Offset > 0
}

// Bounds returns the half-open [start, end) range visible in a list of n rows.
// The offset is clamped so the window never runs past the end of the list
// while it could still be filled.
func (w Window) Bounds(n int) (start, end int) {
	if n <= 0 {
		return 0, 0
	}
	if w.Limit <= 0 || w.Limit >= n {
		return 0, n
	}
	start = w.Offset
	if start > n-w.Limit {
		start = n - w.Limit
	}
	if start < 0 {
		start = 0
	}
	return start, start + w.Limit
}

// Reveal returns a window scrolled by the minimum amount that brings index
// into view. A negative index scrolls back to the top.
func (w Window) Reveal(index, n int) Window {
	if index < 0 || n <= 0 {
		w.Offset = 0
		return w
	}
	if index >= n {
		index = n - 1
	}
	if w.Limit <= 0 {
		w.Offset = 0
		return w
	}
	start, end := w.Bounds(n)
	switch {
	case index < start:
		w.Offset = index
	case index >= end:
		w.Offset = index - w.Limit + 1
	default:
		w.Offset = start
	}
	return w
}

// Contains reports whether index is visible in a list of n rows.
func (w Window) Contains(index, n int) bool {
	start, end := w.Bounds(n)
	return index >= start && index < end
}

// Apply returns the visible sub-slice of items.
func Apply[T any](w Window, items []T) []T {
	start, end := w.Bounds(len(items))
	return items[start:end]
}
