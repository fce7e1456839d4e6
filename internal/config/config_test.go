package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesYAMLAndAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: "0.0.0.0"
  port: 8080
aggregators:
  socketApiKey: "from-yaml"
`), 0o644))

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SOCKET_API_KEY", "from-env")

	require.NoError(t, Load(path))
	assert.Equal(t, "0.0.0.0", AppConfig.Server.Host)
	assert.Equal(t, 9090, AppConfig.Server.Port)
	assert.Equal(t, "from-env", AppConfig.Aggregators.SocketAPIKey)
}

func TestLoadReturnsErrorWhenFileMissing(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
