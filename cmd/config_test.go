package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/combox/internal/config"
)

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config", "-o", "json", "--endpoint", "https://example.test/s", "--variant", "search")
	require.NoError(t, err)

	var f config.File
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, "combox", f.App.Name)
	require.Len(t, f.Fields, 1)
	assert.Equal(t, "search", f.Fields[0].Variant)
}

func TestConfigCommandRawPrintsDefaults(t *testing.T) {
	out, err := execute(t, "config", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, string(config.DefaultConfigYAML()), out)
}

func TestConfigThemes(t *testing.T) {
	out, err := execute(t, "config", "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "* dark\n")
	assert.Contains(t, out, "  light\n")
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "(embedded defaults)\n", out)

	path := writeFile(t, "c.yaml", "app:\n  name: demo\n")
	out, err = execute(t, "config", "path", "--config-file", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestConfigValidate(t *testing.T) {
	out, err := execute(t, "config", "validate", "--endpoint", "https://example.test/s")
	require.NoError(t, err)
	assert.Equal(t, "ok: 1 field(s)\n", out)

	_, err = execute(t, "config", "validate", "--endpoint", "mailto:x@example.test")
	require.ErrorContains(t, err, "invalid configuration")
}

func TestConfigFileErrors(t *testing.T) {
	path := writeFile(t, "c.yaml", "app:\n  nmae: typo\n")
	_, err := execute(t, "config", "--config-file", path)
	require.ErrorContains(t, err, "decode")
}
