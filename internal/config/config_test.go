package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://jsonplaceholder.typicode.com/todos", cfg.APIURL)
	assert.Zero(t, cfg.Timeout)
	assert.Equal(t, SourceDefault, cfg.Sources["apiUrl"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"http url", func(c *Config) { c.APIURL = "http://localhost:8080/todos" }, ""},
		{"no scheme", func(c *Config) { c.APIURL = "localhost:8080/todos" }, "must be an http(s) URL"},
		{"ftp", func(c *Config) { c.APIURL = "ftp://example.com/todos" }, "must be an http(s) URL"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "must not be negative"},
		{"unknown theme", func(c *Config) { c.Theme = "disco" }, `theme "disco"`},
		{"theme case", func(c *Config) { c.Theme = "Neon" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMerge(t *testing.T) {
	cfg := Default()
	cfg.Merge(&Config{APIURL: "http://x/todos", Timeout: 3 * time.Second}, SourceLocal)
	cfg.Merge(&Config{Theme: "mono"}, SourceFlag)
	cfg.Merge(nil, SourceEnv)

	assert.Equal(t, "http://x/todos", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, SourceLocal, cfg.Sources["apiUrl"])
	assert.Equal(t, SourceFlag, cfg.Sources["theme"])
	assert.Equal(t, SourceDefault, cfg.Sources["logLevel"])
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LocalFileName)
	require.NoError(t, os.WriteFile(path, []byte("apiUrl: http://localhost:9000/todos\ntimeout: 2s\ntheme: neon\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/todos", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "neon", cfg.Theme)

	missing, err := LoadFile(filepath.Join(dir, "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, os.WriteFile(path, []byte("apiUrl: [\n"), 0o644))
	_, err = LoadFile(path)
	require.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIURL:   "http://env/todos",
		EnvTimeout:  "1500ms",
		EnvLogLevel: "debug",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg, err := FromEnv(lookup)
	require.NoError(t, err)
	assert.Equal(t, "http://env/todos", cfg.APIURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.Theme)

	env[EnvTimeout] = "soon"
	_, err = FromEnv(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTimeout)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	global := filepath.Join(dir, "global.yaml")
	local := filepath.Join(dir, LocalFileName)
	require.NoError(t, os.WriteFile(global, []byte("apiUrl: http://global/todos\ntheme: neon\nlogLevel: warn\n"), 0o644))
	require.NoError(t, os.WriteFile(local, []byte("apiUrl: http://local/todos\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TODO_LOG_LEVEL=error\n"), 0o644))
	t.Setenv(EnvTheme, "mono")
	// godotenv sets this one; register it so it is restored afterwards
	t.Setenv(EnvLogLevel, "")
	require.NoError(t, os.Unsetenv(EnvLogLevel))

	cfg, err := Load(local, global)
	require.NoError(t, err)

	assert.Equal(t, "http://local/todos", cfg.APIURL)
	assert.Equal(t, SourceLocal, cfg.Sources["apiUrl"])
	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, SourceEnv, cfg.Sources["theme"])
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, SourceEnv, cfg.Sources["logLevel"])
}
