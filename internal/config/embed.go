package config

import (
	_ "embed"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}
