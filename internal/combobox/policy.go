package combobox

import "time"

// Variant names.
const (
	VariantDefault = "default"
	VariantAddress = "address"
	VariantSearch  = "search"
)

// Overlay describes the panel the host should draw. Height is in rows and
// includes the panel chrome.
type Overlay struct {
	Visible bool
	Height  int
	Animate bool
}

// panelChrome is the top border, the status row and the bottom border.
const panelChrome = 3

// Policy is the set of behaviours that differ between combobox variants.
// Every hook runs on the loop with the combobox fully updated.
type Policy struct {
	Name string

	// MinChars is the shortest input, in runes, that is looked up.
	MinChars int

	// Select commits option i (Enter, or blur with an active option).
	Select func(c *Combobox, i int)

	// Click handles pointer activation of option i.
	Click func(c *Combobox, i int)

	// Blur runs when the input loses focus while the pointer is not over
	// the panel.
	Blur func(c *Combobox)

	// Activated runs after keyboard navigation makes option i active.
	Activated func(c *Combobox, i int)

	// Overlay sizes the panel for rows visible options.
	Overlay func(open bool, rows int) Overlay
}

// Default is the base combobox: three characters to search, selection copies
// the option text into the input.
func Default() Policy {
	return Policy{
		Name:      VariantDefault,
		MinChars:  3,
		Select:    copyAndClose,
		Click:     copyAndClose,
		Blur:      selectActiveOrClose,
		Activated: copyText,
		Overlay:   showHide,
	}
}

// Address is the address lookup variant. It searches from the first
// character and otherwise behaves like Default.
func Address() Policy {
	p := Default()
	p.Name = VariantAddress
	p.MinChars = 1
	return p
}

// SearchOptions tunes the search variant. Zero values select the defaults.
type SearchOptions struct {
	MinChars int
	// ClearDelay is how long a blurred input keeps its value so a submit
	// button can still read it.
	ClearDelay time.Duration
	// CloseDelay is how long the panel stays after following a suggestion.
	CloseDelay time.Duration
	// Border is the panel border height in rows.
	Border int
	// MinHeight is the height of the collapsed flyout.
	MinHeight int
}

// DefaultGraceDelay applies to both search grace timers.
const DefaultGraceDelay = 150 * time.Millisecond

func (o SearchOptions) withDefaults() SearchOptions {
	if o.MinChars <= 0 {
		o.MinChars = 3
	}
	if o.ClearDelay <= 0 {
		o.ClearDelay = DefaultGraceDelay
	}
	if o.CloseDelay <= 0 {
		o.CloseDelay = DefaultGraceDelay
	}
	if o.Border <= 0 {
		o.Border = 2
	}
	if o.MinHeight <= 0 {
		o.MinHeight = 1
	}
	return o
}

// Search is the site search variant. Options are links: selecting one
// follows it without touching the input, and the panel height animates
// with its content.
func Search(opts SearchOptions) Policy {
	opts = opts.withDefaults()
	follow := func(c *Combobox, i int) {
		c.Follow(i)
		c.After(opts.CloseDelay, c.CloseListbox)
	}
	return Policy{
		Name:     VariantSearch,
		MinChars: opts.MinChars,
		Select:   follow,
		Click:    follow,
		Blur: func(c *Combobox) {
			if c.Active() >= 0 {
				return
			}
			c.CloseListbox()
			c.After(opts.ClearDelay, func() { c.SetValue("") })
		},
		Activated: func(c *Combobox, i int) { c.ScrollTo(i) },
		Overlay: func(open bool, rows int) Overlay {
			if !open {
				return Overlay{Height: opts.MinHeight, Animate: true}
			}
			return Overlay{Visible: true, Height: rows + opts.Border + opts.MinHeight, Animate: true}
		},
	}
}

// PolicyFor returns the policy registered under name.
func PolicyFor(name string, search SearchOptions) (Policy, bool) {
	switch name {
	case VariantDefault, "":
		return Default(), true
	case VariantAddress:
		return Address(), true
	case VariantSearch:
		return Search(search), true
	default:
		return Policy{}, false
	}
}

// Variants lists the registered policy names.
func Variants() []string {
	return []string{VariantDefault, VariantAddress, VariantSearch}
}

func copyAndClose(c *Combobox, i int) {
	if s, ok := c.Suggestion(i); ok {
		c.SetValue(s.Text)
	}
	c.CloseListbox()
}

func selectActiveOrClose(c *Combobox) {
	if i := c.Active(); i >= 0 {
		c.SelectItem(i)
		return
	}
	c.CloseListbox()
}

func copyText(c *Combobox, i int) {
	if s, ok := c.Suggestion(i); ok {
		c.SetValue(s.Text)
	}
	c.ScrollTo(i)
}

func showHide(open bool, rows int) Overlay {
	if !open {
		return Overlay{}
	}
	return Overlay{Visible: true, Height: rows + panelChrome}
}
