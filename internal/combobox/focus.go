package combobox

// RovingFocus tracks the single active option of a listbox of n options.
// Active is -1 when nothing is active and otherwise a valid index.
type RovingFocus struct {
	active   int
	previous int
	n        int
}

// NewRovingFocus returns a model with no options and nothing active.
func NewRovingFocus() RovingFocus {
	return RovingFocus{active: -1, previous: -1}
}

// Advance moves toward the start of the list. With nothing active, or from
// the first option, it wraps to the last option.
func (r *RovingFocus) Advance() int {
	if r.n == 0 {
		r.active = -1
		return r.active
	}
	if r.active <= 0 {
		r.active = r.n - 1
	} else {
		r.active--
	}
	return r.active
}

// Retreat moves toward the end of the list. With nothing active, or from the
// last option, it wraps to the first option.
func (r *RovingFocus) Retreat() int {
	if r.n == 0 {
		r.active = -1
		return r.active
	}
	if r.active < 0 || r.active >= r.n-1 {
		r.active = 0
	} else {
		r.active++
	}
	return r.active
}

// Reset clears the active and previously active options.
func (r *RovingFocus) Reset() {
	r.active = -1
	r.previous = -1
}

// Replace installs a new option count and resets.
func (r *RovingFocus) Replace(n int) {
	if n < 0 {
		n = 0
	}
	r.n = n
	r.Reset()
}

// Commit records the current option as the previously active one.
func (r *RovingFocus) Commit() {
	r.previous = r.active
}

func (r *RovingFocus) Active() int { return r.active }

// Previous returns the option active before the last move, until Commit.
func (r *RovingFocus) Previous() int { return r.previous }

func (r *RovingFocus) Len() int { return r.n }
