package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
// Nested keys are separated by a double underscore, e.g. DYNPARAM_SERVER__ADDRESS.
const EnvPrefix = "DYNPARAM_"

// Config is the host configuration.
type Config struct {
	Server     Server      `koanf:"server"`
	Log        Log         `koanf:"log"`
	Workers    Workers     `koanf:"workers"`
	Parameters []Parameter `koanf:"parameters"`
}

// Server configures the HTTP surface.
type Server struct {
	Address string `koanf:"address"`
}

// Log configures the host logger.
type Log struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

// Workers configures the remote script workers.
type Workers struct {
	// Dir is scanned for executable worker binaries.
	Dir          string        `koanf:"dir"`
	StartTimeout time.Duration `koanf:"start_timeout"`
	CallTimeout  time.Duration `koanf:"call_timeout"`
}

// Parameter declares a dynamic choice parameter.
type Parameter struct {
	Name        string `koanf:"name"`
	Script      string `koanf:"script"`
	Description string `koanf:"description"`
	UUID        string `koanf:"uuid"`
	Remote      bool   `koanf:"remote"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		Server: Server{Address: ":8080"},
		Log:    Log{Level: "info"},
		Workers: Workers{
			Dir:          "bin/workers",
			StartTimeout: 10 * time.Second,
			CallTimeout:  5 * time.Second,
		},
	}
}

// Load reads the configuration: def provides defaults, the TOML file at path
// overrides them (a missing file is not an error) and environment variables
// override both.
func Load(path string, def Config) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(def, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(
		env.Provider(EnvPrefix, ".", func(source string) string {
			base := strings.ToLower(strings.TrimPrefix(source, EnvPrefix))

			return strings.ReplaceAll(base, "__", ".")
		}),
		nil,
	); err != nil {
		return Config{}, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that parameter names are present and unique.
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Parameters))
	for i, p := range c.Parameters {
		if p.Name == "" {
			return fmt.Errorf("%w: parameters[%d] has no name", ErrInvalidConfig, i)
		}
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}
