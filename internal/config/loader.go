// Package config loads the connection settings of the flupdo command from
// defaults, a YAML file, .env files, FLUPDO_ environment variables and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	flupdo "github.com/biyonik/go-flupdo"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "FLUPDO_"

// Config file names searched in the working directory.
var defaultFiles = []string{"flupdo.yaml", "flupdo.yml"}

// Load builds a flupdo.Config.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// A .env file in the working directory is loaded into the environment
// first, followed by .env.local which overrides it. Variables already set
// in the process environment win over .env but not over .env.local.
func Load(cfgFile string, flags *pflag.FlagSet) (*flupdo.Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// 1. Defaults
	def := flupdo.DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]any{
		"driver":            def.Driver,
		"host":              def.Host,
		"charset":           def.Charset,
		"max_open_conns":    def.MaxOpenConns,
		"max_idle_conns":    def.MaxIdleConns,
		"conn_max_lifetime": def.ConnMaxLife.String(),
		"conn_max_idle":     def.ConnMaxIdle.String(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment: FLUPDO_MAX_OPEN_CONNS -> max_open_conns
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those set explicitly
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

	var cfg flupdo.Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if _, err := cfg.Dialect(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns the config file to read, or "" when there is none.
// An explicit path is returned even if it does not exist so that Load
// reports it.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range defaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env: %w", err)
	}
	if err := godotenv.Overload(".env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env.local: %w", err)
	}
	return nil
}
