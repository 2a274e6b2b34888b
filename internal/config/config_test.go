package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/config/configloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return configloader.Load[*Config]("catalogtest", configloader.Options{
		ConfigFile: path,
		EnvFile:    filepath.Join(dir, ".env"),
		Defaults:   Defaults(),
	})
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := loadFrom(t, "")

	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.HTTPServer.Port)
	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 10*time.Second, cfg.Shutdown.Timeout)
	assert.False(t, cfg.GRPC.Enabled)
	assert.True(t, cfg.Telemetry.Metrics.Enabled)
}

func TestLoad_Validation(t *testing.T) {
	testCases := []struct {
		name        string
		yaml        string
		expectedErr string
	}{
		{
			name:        "postgres without url",
			yaml:        "store:\n  driver: postgres\n",
			expectedErr: "database URL is not configured",
		},
		{
			name: "postgres with url",
			yaml: "store:\n  driver: postgres\ndatabase:\n  url: postgres://u:p@localhost:5432/catalog\n",
		},
		{
			name: "memory ignores database section",
			yaml: "database:\n  url: not-a-url\n",
		},
		{
			name:        "sqlite without path",
			yaml:        "store:\n  driver: sqlite\n",
			expectedErr: "sqlite store path is not configured",
		},
		{
			name:        "bad shutdown timeout",
			yaml:        "shutdown:\n  timeout: 0s\n",
			expectedErr: "shutdown timeout is not configured",
		},
		{
			name:        "nats enabled without url",
			yaml:        "nats:\n  enabled: true\n",
			expectedErr: "NATS URL is not configured",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			_, err := loadFrom(t, tc.yaml)

			// then
			if tc.expectedErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestLoad_EnvOverridesPort(t *testing.T) {
	t.Setenv("CATALOGTEST_SERVER_PORT", "8088")

	cfg, err := loadFrom(t, "server:\n  port: 5000\n")

	require.NoError(t, err)
	assert.Equal(t, 8088, cfg.HTTPServer.Port)
}

func TestConfig_StringMasksCredentials(t *testing.T) {
	cfg, err := loadFrom(t, "store:\n  driver: postgres\ndatabase:\n  url: postgres://user:secret@db:5432/catalog\n")
	require.NoError(t, err)

	out := cfg.String()

	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "db:5432/catalog")
}
