package combobox

import "fmt"

// OptionIDPrefix prefixes synthesised option ids.
const OptionIDPrefix = "result-item-"

// Suggestion is one option of the listbox.
type Suggestion struct {
	ID   string `json:"id" yaml:"id" toml:"id"`
	Text string `json:"text" yaml:"text" toml:"text"`
	Href string `json:"href,omitempty" yaml:"href,omitempty" toml:"href,omitempty"`
}

// SuggestionSet is the content of one successful response. It is replaced
// wholesale, never merged.
type SuggestionSet struct {
	Items  []Suggestion
	Total  int
	Markup string
}

// Len returns the number of options.
func (s SuggestionSet) Len() int { return len(s.Items) }

// Count is the figure reported to the live region: the server-supplied
// total when present, otherwise the number of options.
func (s SuggestionSet) Count() int {
	if s.Total > 0 {
		return s.Total
	}
	return len(s.Items)
}

// OptionID returns the id used for the option at index i.
func OptionID(i int) string {
	return fmt.Sprintf("%s%d", OptionIDPrefix, i)
}
