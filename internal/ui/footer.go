package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// footerActions lists the actions shown in the key hint line, in order.
var footerActions = []struct {
	action Action
	label  string
}{
	{ActionAdvance, "next"},
	{ActionRetreat, "prev"},
	{ActionSelect, "select/submit"},
	{ActionDismiss, "clear"},
	{ActionNextField, "field"},
	{ActionQuit, "quit"},
}

// renderFooter renders the key hint line, dropping hints that do not fit.
func renderFooter(keys KeyMap, theme Theme, width int) string {
	parts := make([]string, 0, len(footerActions))
	used := 0
	for _, fa := range footerActions {
		bound := keys.Keys(fa.action)
		if len(bound) == 0 {
			continue
		}
		for i, k := range bound {
			bound[i] = formatKey(k)
		}
		key := strings.Join(bound, "/")
		w := runewidth.StringWidth(key) + 1 + runewidth.StringWidth(fa.label)
		if used > 0 {
			w += 2
		}
		if width > 0 && used+w > width {
			break
		}
		used += w
		parts = append(parts, theme.Label.Render(key)+" "+theme.Muted.Render(fa.label))
	}
	return strings.Join(parts, "  ")
}

// formatKey converts a binding to its display form (ctrl+n -> C-n).
func formatKey(key string) string {
	switch key {
	case "down":
		return "↓"
	case "up":
		return "↑"
	}
	if len(key) >= 2 && key[0] == 'f' && key[1] >= '0' && key[1] <= '9' {
		return strings.ToUpper(key)
	}
	key = strings.ReplaceAll(key, "ctrl+", "C-")
	key = strings.ReplaceAll(key, "alt+", "M-")
	key = strings.ReplaceAll(key, "shift+", "S-")
	return key
}
