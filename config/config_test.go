package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`
model:
  provider: mock
`))

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 0.7, cfg.Model.Temperature)
	assert.Equal(t, 10, cfg.Engine.MaxIterations)
	assert.Equal(t, 3, cfg.Engine.MaxLoops)
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("ASTRA_TEST_KEY", "secret-key")

	cfg, err := Parse([]byte(`
model:
  provider: anthropic
  api_key: ${ASTRA_TEST_KEY}
`))

	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.Model.APIKey)
}

func TestParse_EnvDefaultFallback(t *testing.T) {
	cfg, err := Parse([]byte(`
model:
  provider: ${ASTRA_UNSET_PROVIDER:-mock}
  name: ${ASTRA_UNSET_NAME:-test-model}
`))

	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Model.Provider)
	assert.Equal(t, "test-model", cfg.Model.Name)
}

func TestParse_UnknownProviderFailsValidation(t *testing.T) {
	_, err := Parse([]byte(`
model:
  provider: watson
`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestParse_InvalidLogLevel(t *testing.T) {
	_, err := Parse([]byte(`
logging:
  level: verbose
model:
  provider: mock
`))

	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "astra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
model:
  provider: mock
engine:
  max_loops: 5
`), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 5, cfg.Engine.MaxLoops)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
