package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "treeverify.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_OverlaysDefinedKeys(t *testing.T) {
	p := writeConfig(t, `
manifest = "init_files/valid_checksums.json"
root = " KSP_app "
workers = 3
timeout = "30s"
strict = true
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	want := Default()
	want.Manifest = "init_files/valid_checksums.json"
	want.Root = "KSP_app"
	want.Workers = 3
	want.Timeout = 30 * time.Second
	want.Strict = true
	assert.Equal(t, want, cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", `workers = `, "config load failed"},
		{"unknown key", `wrokers = 2`, "unknown keys wrokers"},
		{"bad duration", `timeout = "soon"`, "parse timeout"},
		{"zero workers", `workers = 0`, "workers must be > 0"},
		{"negative chunk", `chunk_size = -1`, "chunk_size must be > 0"},
		{"empty algorithm", `algorithm = " "`, "algorithm must be specified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvWorkers, "16")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 16, cfg.Workers)

	t.Setenv(EnvWorkers, "many")
	require.Error(t, cfg.ApplyEnv())
}
