// Package config loads reporter settings from defaults, a reporter.yaml file,
// REPORTER_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override: REPORTER_LOG_FORMAT sets log_format.
const EnvPrefix = "REPORTER_"

// Defaults.
const (
	DefaultFormat    = "text"
	DefaultLogFormat = "text"
	DefaultScenarios = "scenarios"
)

// FileNames are the config files looked up in the working directory when no
// explicit path is given.
var FileNames = []string{"reporter.yaml", "reporter.yml"}

// ValidFormats are the accepted values of format and log_format.
var ValidFormats = []string{"text", "json"}

// Config is the resolved reporter configuration.
type Config struct {
	Verbose   bool   `koanf:"verbose"`
	Format    string `koanf:"format"`
	LogFormat string `koanf:"log_format"`
	Scenarios string `koanf:"scenarios"`

	// File is the config file that was loaded, or "" if none.
	File string `koanf:"-"`
}

// Load resolves the configuration. cfgFile may be empty, in which case the
// FileNames are tried in the working directory. Only flags the user set
// explicitly override lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"verbose":    false,
		"format":     DefaultFormat,
		"log_format": DefaultLogFormat,
		"scenarios":  DefaultScenarios,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := findFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(ValidFormats, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats)
	}
	if !slices.Contains(ValidFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format %q: must be one of %v", c.LogFormat, ValidFormats)
	}
	return nil
}

// findFile returns the config file to load. An explicit path must exist.
func findFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	for _, name := range FileNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}
