// Package config holds the combox configuration schema and its loader.
// The embedded default_config.yaml is the single source of defaults; user
// files are overlaid on top of it.
package config

import (
	"net/http"

	"github.com/oakwood-commons/combox/internal/transport"
)

// File is the top-level configuration document.
type File struct {
	App      AppConfig     `yaml:"app" json:"app" toml:"app"`
	UI       UIConfig      `yaml:"ui" json:"ui" toml:"ui"`
	Defaults FieldConfig   `yaml:"defaults" json:"defaults" toml:"defaults"`
	Fields   []FieldConfig `yaml:"fields" json:"fields" toml:"fields"`
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Name    string `yaml:"name" json:"name" toml:"name"`
	Debug   bool   `yaml:"debug" json:"debug" toml:"debug"`
	LogFile string `yaml:"log_file,omitempty" json:"log_file,omitempty" toml:"log_file,omitempty"`
}

// UIConfig holds terminal rendering settings.
type UIConfig struct {
	Theme      string                 `yaml:"theme" json:"theme" toml:"theme"`
	NoColor    bool                   `yaml:"no_color" json:"no_color" toml:"no_color"`
	MaxVisible int                    `yaml:"max_visible" json:"max_visible" toml:"max_visible"`
	Keys       map[string][]string    `yaml:"keys" json:"keys" toml:"keys"`
	Themes     map[string]ThemeConfig `yaml:"themes" json:"themes" toml:"themes"`
}

// ThemeConfig is a named palette. Values are lipgloss color strings: ANSI
// indexes ("81") or hex ("#5fd7ff").
type ThemeConfig struct {
	Accent     string `yaml:"accent" json:"accent" toml:"accent"`
	Text       string `yaml:"text" json:"text" toml:"text"`
	Muted      string `yaml:"muted" json:"muted" toml:"muted"`
	Border     string `yaml:"border" json:"border" toml:"border"`
	SelectedFG string `yaml:"selected_fg" json:"selected_fg" toml:"selected_fg"`
	SelectedBG string `yaml:"selected_bg" json:"selected_bg" toml:"selected_bg"`
	Status     string `yaml:"status" json:"status" toml:"status"`
	Error      string `yaml:"error" json:"error" toml:"error"`
}

// FieldConfig describes one combobox of the form. Zero values inherit from
// the defaults section.
type FieldConfig struct {
	Name        string            `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`
	Label       string            `yaml:"label,omitempty" json:"label,omitempty" toml:"label,omitempty"`
	Variant     string            `yaml:"variant,omitempty" json:"variant,omitempty" toml:"variant,omitempty"`
	Endpoint    string            `yaml:"endpoint,omitempty" json:"endpoint,omitempty" toml:"endpoint,omitempty"`
	QueryParam  string            `yaml:"query_param,omitempty" json:"query_param,omitempty" toml:"query_param,omitempty"`
	MinChars    int               `yaml:"min_chars,omitempty" json:"min_chars,omitempty" toml:"min_chars,omitempty"`
	Debounce    Duration          `yaml:"debounce,omitempty" json:"debounce,omitempty" toml:"debounce,omitempty"`
	Timeout     Duration          `yaml:"timeout,omitempty" json:"timeout,omitempty" toml:"timeout,omitempty"`
	ClearDelay  Duration          `yaml:"clear_delay,omitempty" json:"clear_delay,omitempty" toml:"clear_delay,omitempty"`
	CloseDelay  Duration          `yaml:"close_delay,omitempty" json:"close_delay,omitempty" toml:"close_delay,omitempty"`
	RateLimit   float64           `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty" toml:"rate_limit,omitempty"`
	Burst       int               `yaml:"burst,omitempty" json:"burst,omitempty" toml:"burst,omitempty"`
	MaxBody     int64             `yaml:"max_body_bytes,omitempty" json:"max_body_bytes,omitempty" toml:"max_body_bytes,omitempty"`
	Placeholder string            `yaml:"placeholder,omitempty" json:"placeholder,omitempty" toml:"placeholder,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty" json:"headers,omitempty" toml:"headers,omitempty"`
}

// inherit fills the zero fields of f from d.
func (f FieldConfig) inherit(d FieldConfig) FieldConfig {
	if f.Variant == "" {
		f.Variant = d.Variant
	}
	if f.Endpoint == "" {
		f.Endpoint = d.Endpoint
	}
	if f.QueryParam == "" {
		f.QueryParam = d.QueryParam
	}
	if f.MinChars == 0 {
		f.MinChars = d.MinChars
	}
	if f.Debounce == 0 {
		f.Debounce = d.Debounce
	}
	if f.Timeout == 0 {
		f.Timeout = d.Timeout
	}
	if f.ClearDelay == 0 {
		f.ClearDelay = d.ClearDelay
	}
	if f.CloseDelay == 0 {
		f.CloseDelay = d.CloseDelay
	}
	if f.RateLimit == 0 {
		f.RateLimit = d.RateLimit
	}
	if f.Burst == 0 {
		f.Burst = d.Burst
	}
	if f.MaxBody == 0 {
		f.MaxBody = d.MaxBody
	}
	if f.Placeholder == "" {
		f.Placeholder = d.Placeholder
	}
	if len(d.Headers) > 0 {
		merged := make(map[string]string, len(d.Headers)+len(f.Headers))
		for k, v := range d.Headers {
			merged[k] = v
		}
		for k, v := range f.Headers {
			merged[k] = v
		}
		f.Headers = merged
	}
	if f.Label == "" {
		f.Label = f.Name
	}
	return f
}

// TransportConfig converts a resolved field into the HTTP transport settings.
func (f FieldConfig) TransportConfig() transport.Config {
	var header http.Header
	if len(f.Headers) > 0 {
		header = make(http.Header, len(f.Headers))
		for k, v := range f.Headers {
			header.Set(k, v)
		}
	}
	return transport.Config{
		Endpoint:     f.Endpoint,
		QueryParam:   f.QueryParam,
		Timeout:      f.Timeout.Std(),
		RateLimit:    f.RateLimit,
		Burst:        f.Burst,
		MaxBodyBytes: f.MaxBody,
		Header:       header,
	}
}
