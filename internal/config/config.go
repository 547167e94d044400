// Package config reads triadctl settings from an optional .env file and the
// environment, and builds the logrus logger.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	EnvCatalog       = "TRIAD_CATALOG"
	EnvLogLevel      = "TRIAD_LOG_LEVEL"
	EnvLogFormat     = "TRIAD_LOG_FORMAT"
	EnvWorkers       = "TRIAD_WORKERS"
	EnvScriptTimeout = "TRIAD_SCRIPT_TIMEOUT_MS"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the resolved runtime configuration. CLI flags may override each field.
type Config struct {
	Catalog       string
	LogLevel      logrus.Level
	LogFormat     string
	Workers       int
	ScriptTimeout time.Duration
}

// Default is the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel:      logrus.InfoLevel,
		LogFormat:     FormatText,
		Workers:       runtime.GOMAXPROCS(0),
		ScriptTimeout: time.Second,
	}
}

// Load applies the given .env files (".env" when none are named) and then reads
// the environment. Missing .env files are not an error; existing variables win
// over file entries.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, reporting every malformed value.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs error

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvCatalog); ok {
		cfg.Catalog = v
	}
	if v, ok := get(EnvLogLevel); ok {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
		} else {
			cfg.LogLevel = lvl
		}
	}
	if v, ok := get(EnvLogFormat); ok {
		switch f := strings.ToLower(v); f {
		case FormatText, FormatJSON:
			cfg.LogFormat = f
		default:
			errs = multierr.Append(errs, fmt.Errorf("%s: unknown format %q", EnvLogFormat, v))
		}
	}
	if v, ok := get(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = multierr.Append(errs, fmt.Errorf("%s: want a positive integer, got %q", EnvWorkers, v))
		} else {
			cfg.Workers = n
		}
	}
	if v, ok := get(EnvScriptTimeout); ok {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 1 {
			errs = multierr.Append(errs, fmt.Errorf("%s: want a positive integer, got %q", EnvScriptTimeout, v))
		} else {
			cfg.ScriptTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	return cfg, errs
}

// NewLogger returns a logger writing to w at the configured level and format.
func (c Config) NewLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(c.LogLevel)
	if c.LogFormat == FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
