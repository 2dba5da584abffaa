package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/combox/internal/config"
)

func changed(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

// loadConfig reads the resolved config file, or the defaults when there is
// none, and applies the command line overrides.
func loadConfig(cmd *cobra.Command, o *rootOptions) (config.File, error) {
	cfg, err := config.Load(config.ResolvePath(o.configFile))
	if err != nil {
		return cfg, err
	}
	if err := applyOverrides(&cfg, cmd.Flags(), o); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyOverrides lets the flags that were set win over the file.
func applyOverrides(cfg *config.File, flags *pflag.FlagSet, o *rootOptions) error {
	if o.endpoint != "" {
		cfg.Fields = []config.FieldConfig{{Name: o.fieldName, Endpoint: o.endpoint}}
	}
	for i := range cfg.Fields {
		fc := &cfg.Fields[i]
		if changed(flags, "variant") {
			fc.Variant = o.variant
		}
		if changed(flags, "min-chars") {
			fc.MinChars = o.minChars
		}
		if changed(flags, "debounce") {
			fc.Debounce = config.Duration(o.debounce)
		}
	}
	if changed(flags, "theme") {
		cfg.UI.Theme = o.theme
	}
	if o.noColor {
		cfg.UI.NoColor = true
	}
	if o.debug {
		cfg.App.Debug = true
	}
	if o.logFile != "" {
		cfg.App.LogFile = o.logFile
	}

	keys, err := parseKeyOverrides(o.keys)
	if err != nil {
		return err
	}
	if len(keys) > 0 && cfg.UI.Keys == nil {
		cfg.UI.Keys = map[string][]string{}
	}
	for action, bound := range keys {
		cfg.UI.Keys[action] = bound
	}
	return nil
}

// parseKeyOverrides parses action=key[,key...] pairs.
func parseKeyOverrides(pairs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		action, list, ok := strings.Cut(pair, "=")
		action = strings.TrimSpace(action)
		if !ok || action == "" {
			return nil, fmt.Errorf("invalid --key %q: want action=key[,key...]", pair)
		}
		var bound []string
		for _, k := range strings.Split(list, ",") {
			if k = strings.TrimSpace(k); k != "" {
				bound = append(bound, k)
			}
		}
		if len(bound) == 0 {
			return nil, fmt.Errorf("invalid --key %q: no keys given", pair)
		}
		out[action] = bound
	}
	return out, nil
}
