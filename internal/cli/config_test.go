package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := runCLI(t, quiet(), "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Contains(t, doc, "grid")
	assert.Contains(t, doc, "cache")

	t.Run("existing file needs force", func(t *testing.T) {
		_, err := runCLI(t, quiet(), "--config", path, "config", "init")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")

		_, err = runCLI(t, quiet(), "--config", path, "config", "init", "--force")
		require.NoError(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := runCLI(t, quiet(), "config", "validate", "--verbose")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
		assert.Contains(t, out, "Page size: 16")
		assert.Contains(t, out, "Cache: disabled")
	})

	t.Run("invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("grid:\n  data_method: DELETE\n"), 0o600))

		_, err := runCLI(t, quiet(), "--config", path, "config", "validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
	})
}

func TestConfigShow(t *testing.T) {
	env := quiet()
	env["GRIDPAGER_DATA_URL"] = "http://example.test/items"

	out, err := runCLI(t, env, "config", "show")
	require.NoError(t, err)

	var doc struct {
		Grid struct {
			DataURL  string `yaml:"data_url"`
			PageSize int    `yaml:"page_size"`
		} `yaml:"grid"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "http://example.test/items", doc.Grid.DataURL)
	assert.Equal(t, 16, doc.Grid.PageSize)
}
