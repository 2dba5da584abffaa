package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/combox/internal/combobox"
	"github.com/oakwood-commons/combox/internal/transport"
)

// Supported formats for decoding and encoding.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Key binding actions.
const (
	ActionAdvance   = "advance"
	ActionRetreat   = "retreat"
	ActionSelect    = "select"
	ActionDismiss   = "dismiss"
	ActionNextField = "next_field"
	ActionPrevField = "prev_field"
	ActionQuit      = "quit"
)

// Actions lists every bindable action.
func Actions() []string {
	return []string{ActionAdvance, ActionRetreat, ActionSelect, ActionDismiss, ActionNextField, ActionPrevField, ActionQuit}
}

// Default decodes the embedded defaults.
func Default() (File, error) {
	var f File
	if len(embeddedDefaultConfig) == 0 {
		return f, fmt.Errorf("embedded default config is empty")
	}
	if err := yaml.Unmarshal(embeddedDefaultConfig, &f); err != nil {
		return f, fmt.Errorf("decode default config: %w", err)
	}
	return f, nil
}

// Load returns the defaults overlaid with the file at path. An empty path
// returns the defaults.
func Load(path string) (File, error) {
	f, err := Default()
	if err != nil {
		return f, err
	}
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, FormatFor(path), &f); err != nil {
		return f, fmt.Errorf("decode %s: %w", path, err)
	}
	return f, nil
}

// FormatFor picks the decoder for a file by extension; YAML is the default.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Decode overlays data onto into. Keys present in data replace the
// corresponding values; lists are replaced wholesale. Unknown keys are
// rejected.
func Decode(data []byte, format string, into *File) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(into)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(into)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(into); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q", format)
	}
}

// Marshal encodes v in format. It serves config files as well as command
// output.
func Marshal(v any, format string) ([]byte, error) {
	switch format {
	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case FormatTOML:
		return toml.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported output format %q (want yaml, json or toml)", format)
	}
}

// ResolvePath returns explicit when set, otherwise the first existing
// config.yaml or config.toml under $XDG_CONFIG_HOME/combox or
// ~/.config/combox. It returns "" when none exists.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dir = filepath.Join(xdg, "combox")
	} else if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".config", "combox")
	}
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		candidate := filepath.Join(dir, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// ResolvedFields returns the fields with the defaults section applied.
func (f File) ResolvedFields() []FieldConfig {
	out := make([]FieldConfig, 0, len(f.Fields))
	for _, fc := range f.Fields {
		out = append(out, fc.inherit(f.Defaults))
	}
	return out
}

// Validate reports every problem found in f, joined.
func (f File) Validate() error {
	var errs []error
	if f.UI.MaxVisible < 0 {
		errs = append(errs, fmt.Errorf("ui.max_visible must be non-negative, got %d", f.UI.MaxVisible))
	}
	if _, ok := f.UI.Themes[f.UI.Theme]; !ok {
		errs = append(errs, fmt.Errorf("ui.theme %q is not defined (available: %s)", f.UI.Theme, strings.Join(f.ThemeNames(), ", ")))
	}
	known := map[string]bool{}
	for _, a := range Actions() {
		known[a] = true
	}
	for action, keys := range f.UI.Keys {
		if !known[action] {
			errs = append(errs, fmt.Errorf("ui.keys: unknown action %q", action))
			continue
		}
		for _, k := range keys {
			if strings.TrimSpace(k) == "" {
				errs = append(errs, fmt.Errorf("ui.keys.%s: empty key", action))
			}
		}
	}

	seen := map[string]bool{}
	for i, fc := range f.ResolvedFields() {
		where := fmt.Sprintf("fields[%d]", i)
		if fc.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", where))
		} else {
			where = fmt.Sprintf("fields[%d] (%s)", i, fc.Name)
			if seen[fc.Name] {
				errs = append(errs, fmt.Errorf("%s: duplicate field name", where))
			}
			seen[fc.Name] = true
		}
		if _, ok := combobox.PolicyFor(fc.Variant, combobox.SearchOptions{}); !ok {
			errs = append(errs, fmt.Errorf("%s: unknown variant %q (want one of %s)", where, fc.Variant, strings.Join(combobox.Variants(), ", ")))
		}
		if fc.Endpoint == "" {
			errs = append(errs, fmt.Errorf("%s: endpoint is required", where))
		} else if _, err := transport.ParseEndpoint(fc.Endpoint); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
		if fc.MinChars < 0 {
			errs = append(errs, fmt.Errorf("%s: min_chars must be non-negative", where))
		}
		if fc.RateLimit < 0 {
			errs = append(errs, fmt.Errorf("%s: rate_limit must be non-negative", where))
		}
	}
	return errors.Join(errs...)
}

// ThemeNames returns the configured theme names, sorted.
func (f File) ThemeNames() []string {
	names := make([]string, 0, len(f.UI.Themes))
	for name := range f.UI.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
