// Package config resolves settings for the todo app.
//
// Precedence, highest first: flags, environment (including a .env file in the
// working directory), local .todorc.yaml, global config.yaml, defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/idilsaglam/todotable/internal/remote"
	"github.com/idilsaglam/todotable/internal/ui"
)

// Config is the resolved configuration.
type Config struct {
	APIURL    string        `yaml:"apiUrl"`
	Timeout   time.Duration `yaml:"timeout"`
	LogLevel  string        `yaml:"logLevel"`
	LogFormat string        `yaml:"logFormat"`
	LogFile   string        `yaml:"logFile"`
	Theme     string        `yaml:"theme"`

	// Sources records where each value came from.
	Sources map[string]string `yaml:"-"`
}

// Where a value came from.
const (
	SourceDefault = "default"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Default returns the built-in configuration. A zero timeout leaves the
// transport default in place.
func Default() *Config {
	return &Config{
		APIURL:    remote.DefaultBaseURL,
		LogLevel:  "warn",
		LogFormat: "text",
		Theme:     ui.DefaultTheme,
		Sources: map[string]string{
			"apiUrl":    SourceDefault,
			"timeout":   SourceDefault,
			"logLevel":  SourceDefault,
			"logFormat": SourceDefault,
			"logFile":   SourceDefault,
			"theme":     SourceDefault,
		},
	}
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("apiUrl %q must be an http(s) URL", c.APIURL))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout %s must not be negative", c.Timeout))
	}
	if !knownTheme(c.Theme) {
		errs = append(errs, fmt.Errorf("theme %q is not one of %s", c.Theme, strings.Join(ui.Themes(), ", ")))
	}
	return errors.Join(errs...)
}

func knownTheme(name string) bool {
	for _, t := range ui.Themes() {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

// Merge copies the non-zero fields of src into c, tagging them with source.
func (c *Config) Merge(src *Config, source string) {
	if src == nil {
		return
	}
	if c.Sources == nil {
		c.Sources = map[string]string{}
	}
	set := func(key string, ok bool) {
		if ok {
			c.Sources[key] = source
		}
	}
	if src.APIURL != "" {
		c.APIURL = src.APIURL
		set("apiUrl", true)
	}
	if src.Timeout != 0 {
		c.Timeout = src.Timeout
		set("timeout", true)
	}
	if src.LogLevel != "" {
		c.LogLevel = src.LogLevel
		set("logLevel", true)
	}
	if src.LogFormat != "" {
		c.LogFormat = src.LogFormat
		set("logFormat", true)
	}
	if src.LogFile != "" {
		c.LogFile = src.LogFile
		set("logFile", true)
	}
	if src.Theme != "" {
		c.Theme = src.Theme
		set("theme", true)
	}
}
