package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load("", "")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.Log.Console)
	assert.Equal(t, DefaultMaxPasses, cfg.Engine.MaxPasses)
	assert.Equal(t, DefaultChannel, cfg.Notify.Channel)
	assert.Empty(t, cfg.Notify.RedisURL)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "casefile.yaml", `
log:
  level: debug
  file: /tmp/casefile.log
engine:
  max_passes: 16
notify:
  redis_url: redis://localhost:6379/0
`)
	cfg, err := load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/casefile.log", cfg.Log.File)
	assert.True(t, cfg.Log.Console, "keys absent from the file keep their defaults")
	assert.Equal(t, 16, cfg.Engine.MaxPasses)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Notify.RedisURL)
	assert.Equal(t, DefaultChannel, cfg.Notify.Channel)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "casefile.toml", `
[log]
format = "json"
console = false

[engine]
max_passes = 32

[notify]
channel = "bureau"
`)
	cfg, err := load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Log.Console)
	assert.Equal(t, 32, cfg.Engine.MaxPasses)
	assert.Equal(t, "bureau", cfg.Notify.Channel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "casefile.yml", "engine:\n  max_passes: 16\nlog:\n  level: info\n")
	t.Setenv("CASEFILE_MAX_PASSES", "64")
	t.Setenv("CASEFILE_LOG_LEVEL", "error")
	t.Setenv("CASEFILE_REDIS_CHANNEL", "night-shift")

	cfg, err := load(path, "")
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Engine.MaxPasses)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "night-shift", cfg.Notify.Channel)
}

func TestLoad_DotEnv(t *testing.T) {
	env := writeFile(t, ".env", "CASEFILE_REDIS_URL=redis://cache:6379/1\nCASEFILE_LOG_FILE=casefile.log\n")
	t.Cleanup(func() {
		os.Unsetenv("CASEFILE_REDIS_URL")
		os.Unsetenv("CASEFILE_LOG_FILE")
	})

	cfg, err := load("", env)
	require.NoError(t, err)

	assert.Equal(t, "redis://cache:6379/1", cfg.Notify.RedisURL)
	assert.Equal(t, "casefile.log", cfg.Log.File)
}

func TestLoad_MissingDotEnvIsFine(t *testing.T) {
	_, err := load("", filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		env  map[string]string
		want string
	}{
		{name: "unsupported_ext", file: "casefile.ini", body: "x=1", want: "unsupported format"},
		{name: "bad_yaml", file: "casefile.yaml", body: "engine: [", want: "parsing config"},
		{name: "bad_toml", file: "casefile.toml", body: "[engine\n", want: "parsing config"},
		{name: "zero_passes", file: "casefile.yaml", body: "engine:\n  max_passes: 0\n", want: "max_passes must be positive"},
		{name: "bad_format", file: "casefile.yaml", body: "log:\n  format: xml\n", want: "log.format"},
		{name: "bad_env_int", env: map[string]string{"CASEFILE_MAX_PASSES": "many"}, want: "CASEFILE_MAX_PASSES"},
		{name: "empty_channel", env: map[string]string{"CASEFILE_REDIS_URL": "redis://x", "CASEFILE_REDIS_CHANNEL": ""}, want: "notify.channel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file, tt.body)
			}
			_, err := load(path, "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}
