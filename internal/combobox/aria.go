package combobox

import "fmt"

// Attributes is the accessible state of the combobox input.
type Attributes struct {
	Controls         string // id of the listbox
	Expanded         bool
	ActiveDescendant string // id of the active option, empty when none
	Busy             bool
}

// Attributes returns the accessible state. It is derived from the open state
// and the active index, so it can never disagree with them.
func (c *Combobox) Attributes() Attributes {
	a := Attributes{
		Controls: c.ListboxID(),
		Expanded: c.state == Open,
		Busy:     c.Busy(),
	}
	if s, ok := c.Suggestion(c.focus.Active()); ok {
		a.ActiveDescendant = s.ID
	}
	return a
}

// Selected reports the selected state of option i.
func (c *Combobox) Selected(i int) bool {
	return c.state == Open && i >= 0 && i == c.focus.Active()
}

// Status is the live-region text announcing the result count. It is empty
// while the listbox is closed.
func (c *Combobox) Status() string {
	if c.state != Open {
		return ""
	}
	n := c.set.Count()
	if n == 1 {
		return "1 suggestion found"
	}
	return fmt.Sprintf("%d suggestions found", n)
}
