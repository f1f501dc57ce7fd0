package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvAPIURL    = "TODO_API_URL"
	EnvTimeout   = "TODO_TIMEOUT"
	EnvLogLevel  = "TODO_LOG_LEVEL"
	EnvLogFormat = "TODO_LOG_FORMAT"
	EnvLogFile   = "TODO_LOG_FILE"
	EnvTheme     = "TODO_THEME"
)

// LocalFileName is looked up in the working directory.
const LocalFileName = ".todorc.yaml"

// GlobalFilePath returns $XDG_CONFIG_HOME/todo/config.yaml (or the OS equivalent).
func GlobalFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "todo", "config.yaml")
}

// LoadFile reads a YAML config file. A missing file yields (nil, nil).
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// FromEnv reads the TODO_* variables. lookup is os.LookupEnv in production.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(k string) string {
		v, _ := lookup(k)
		return v
	}
	cfg := &Config{
		APIURL:    get(EnvAPIURL),
		LogLevel:  get(EnvLogLevel),
		LogFormat: get(EnvLogFormat),
		LogFile:   get(EnvLogFile),
		Theme:     get(EnvTheme),
	}
	if v := get(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// LoadDotEnv loads .env from the working directory into the process
// environment without overriding variables that are already set.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load resolves defaults, config files and environment. Flags are merged by
// the caller with Merge(..., SourceFlag).
func Load(localPath, globalPath string) (*Config, error) {
	cfg := Default()

	for _, f := range []struct {
		path   string
		source string
	}{
		{globalPath, SourceGlobal},
		{localPath, SourceLocal},
	} {
		fc, err := LoadFile(f.path)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fc, f.source)
	}

	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	env, err := FromEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	cfg.Merge(env, SourceEnv)
	return cfg, nil
}
