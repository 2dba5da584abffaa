package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/combox/internal/config"
)

// Action is a bindable form action.
type Action string

const (
	ActionNone      Action = ""
	ActionAdvance   Action = config.ActionAdvance
	ActionRetreat   Action = config.ActionRetreat
	ActionSelect    Action = config.ActionSelect
	ActionDismiss   Action = config.ActionDismiss
	ActionNextField Action = config.ActionNextField
	ActionPrevField Action = config.ActionPrevField
	ActionQuit      Action = config.ActionQuit
)

// DefaultKeyBindings maps keys to actions when no config is supplied.
// ArrowDown advances toward the start of the list and wraps to the last
// option, ArrowUp retreats toward the end.
var DefaultKeyBindings = map[string]Action{
	"down":      ActionAdvance,
	"ctrl+n":    ActionAdvance,
	"up":        ActionRetreat,
	"ctrl+p":    ActionRetreat,
	"enter":     ActionSelect,
	"esc":       ActionDismiss,
	"tab":       ActionNextField,
	"shift+tab": ActionPrevField,
	"ctrl+c":    ActionQuit,
}

// KeyMap resolves key presses to actions.
type KeyMap struct {
	bindings map[string]Action
}

// NewKeyMap returns a key map holding the default bindings.
func NewKeyMap() KeyMap {
	km := KeyMap{bindings: make(map[string]Action, len(DefaultKeyBindings))}
	for k, a := range DefaultKeyBindings {
		km.bindings[k] = a
	}
	return km
}

// KeyMapFromConfig builds a key map from the ui.keys section. An action
// listed in keys replaces every default binding of that action; actions not
// listed keep their defaults.
func KeyMapFromConfig(keys map[string][]string) (KeyMap, error) {
	km := NewKeyMap()
	known := map[Action]bool{}
	for _, a := range config.Actions() {
		known[Action(a)] = true
	}
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		action := Action(name)
		if !known[action] {
			return km, fmt.Errorf("unknown key action %q", name)
		}
		for k, a := range km.bindings {
			if a == action {
				delete(km.bindings, k)
			}
		}
		for _, k := range keys[name] {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			km.bindings[k] = action
		}
	}
	return km, nil
}

// Action returns the action bound to msg, or ActionNone.
func (km KeyMap) Action(msg tea.KeyPressMsg) Action {
	keyStr := msg.String()
	if a, ok := km.bindings[keyStr]; ok {
		return a
	}
	// Ctrl+C may arrive as the raw control character.
	if msg.Key().Code == 0x03 {
		return ActionQuit
	}
	return ActionNone
}

// Keys returns the keys bound to action, sorted.
func (km KeyMap) Keys(action Action) []string {
	var out []string
	for k, a := range km.bindings {
		if a == action {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
