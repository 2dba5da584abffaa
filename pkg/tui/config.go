package tui

import (
	"context"
	"fmt"

	"github.com/oakwood-commons/combox/internal/config"
	"github.com/oakwood-commons/combox/internal/ui"
)

// Config holds host-provided settings for running a combobox form.
type Config struct {
	// File is the merged configuration. The zero value is replaced with the
	// embedded defaults, which define no fields.
	File config.File
	// ThemeName overrides ui.theme.
	ThemeName string
	NoColor   bool
	// ShowAttributes prints the accessibility attributes of every field.
	ShowAttributes bool
	// OpenLinks opens followed suggestions in the browser.
	OpenLinks bool
	// Width and Height force a window size; zero detects the terminal.
	Width  int
	Height int
}

// DefaultConfig returns a config carrying the embedded defaults.
func DefaultConfig() (Config, error) {
	f, err := config.Default()
	if err != nil {
		return Config{}, err
	}
	return Config{File: f}, nil
}

// NewForm validates cfg and builds the form it describes.
func NewForm(ctx context.Context, cfg Config) (*ui.Form, error) {
	if cfg.File.UI.Themes == nil {
		def, err := config.Default()
		if err != nil {
			return nil, err
		}
		def.Fields = cfg.File.Fields
		cfg.File = def
	}
	if err := cfg.File.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	theme, err := ui.SelectTheme(cfg.File.UI, cfg.ThemeName, cfg.NoColor)
	if err != nil {
		return nil, err
	}
	keys, err := ui.KeyMapFromConfig(cfg.File.UI.Keys)
	if err != nil {
		return nil, err
	}
	return ui.FormFromConfig(ctx, cfg.File, ui.FormOptions{
		Keys:           keys,
		Theme:          theme,
		ShowAttributes: cfg.ShowAttributes,
		OpenLinks:      cfg.OpenLinks,
	})
}
