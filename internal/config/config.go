// Package config loads application settings from defaults, an optional YAML
// file, a .env file, FLASHCARDING_* environment variables and command flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/flashcarding/internal/cardgen"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "FLASHCARDING"

// Config holds all application settings.
type Config struct {
	// DB is the SQLite path. Empty means the XDG data default.
	DB         string           `mapstructure:"db"`
	Log        LogConfig        `mapstructure:"log" validate:"required"`
	Generator  GeneratorConfig  `mapstructure:"generator" validate:"required"`
	Ingest     IngestConfig     `mapstructure:"ingest" validate:"required"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" validate:"required"`
	Snapshots  SnapshotsConfig  `mapstructure:"snapshots" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
}

type LogConfig struct {
	Mode  string `mapstructure:"mode" validate:"oneof=dev prod"`
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type GeneratorConfig struct {
	Mode     string        `mapstructure:"mode" validate:"oneof=local remote"`
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	Endpoint string        `mapstructure:"endpoint" validate:"required,startswith=/"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Retry    RetryConfig   `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1,max=10"`
	InitialWait time.Duration `mapstructure:"initial_wait" validate:"gt=0"`
	MaxWait     time.Duration `mapstructure:"max_wait" validate:"gtefield=InitialWait"`
	Multiplier  float64       `mapstructure:"multiplier" validate:"gte=1"`
}

type IngestConfig struct {
	ChunkSize int `mapstructure:"chunk_size" validate:"min=1"`
	MaxRows   int `mapstructure:"max_rows" validate:"min=1"`
}

type EvaluationConfig struct {
	Options int `mapstructure:"options" validate:"min=2"`
}

type SnapshotsConfig struct {
	Keep int `mapstructure:"keep" validate:"min=1"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Cardgen converts the generator settings for cardgen.New.
func (c *Config) Cardgen() cardgen.Config {
	return cardgen.Config{
		Mode:     c.Generator.Mode,
		BaseURL:  c.Generator.BaseURL,
		Endpoint: c.Generator.Endpoint,
		Timeout:  c.Generator.Timeout,
		MaxRows:  c.Ingest.MaxRows,
		Retry: cardgen.RetryConfig{
			MaxAttempts: c.Generator.Retry.MaxAttempts,
			InitialWait: c.Generator.Retry.InitialWait,
			MaxWait:     c.Generator.Retry.MaxWait,
			Multiplier:  c.Generator.Retry.Multiplier,
		},
	}
}

func setDefaults(v *viper.Viper) {
	gen := cardgen.DefaultConfig()
	v.SetDefault("db", "")
	v.SetDefault("log.mode", "dev")
	v.SetDefault("log.level", "warn")
	v.SetDefault("generator.mode", gen.Mode)
	v.SetDefault("generator.base_url", gen.BaseURL)
	v.SetDefault("generator.endpoint", gen.Endpoint)
	v.SetDefault("generator.timeout", gen.Timeout)
	v.SetDefault("generator.retry.max_attempts", gen.Retry.MaxAttempts)
	v.SetDefault("generator.retry.initial_wait", gen.Retry.InitialWait)
	v.SetDefault("generator.retry.max_wait", gen.Retry.MaxWait)
	v.SetDefault("generator.retry.multiplier", gen.Retry.Multiplier)
	v.SetDefault("ingest.chunk_size", 2000)
	v.SetDefault("ingest.max_rows", 500)
	v.SetDefault("evaluation.options", 4)
	v.SetDefault("snapshots.keep", 20)
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{"*"})
}

// FlagKeys maps command-line flag names to config keys. Flags missing from
// the set passed to Load are skipped.
var FlagKeys = map[string]string{
	"db":             "db",
	"log-mode":       "log.mode",
	"log-level":      "log.level",
	"generator":      "generator.mode",
	"generator-url":  "generator.base_url",
	"chunk-size":     "ingest.chunk_size",
	"max-rows":       "ingest.max_rows",
	"options":        "evaluation.options",
	"addr":           "server.addr",
	"allowed-origin": "server.allowed_origins",
}

// Options tells Load where to look.
type Options struct {
	// File is an explicit config file; it must exist when set.
	File string
	// EnvFile is a dotenv file. A missing file is ignored unless it was
	// named explicitly.
	EnvFile string
	// Flags are bound according to FlagKeys.
	Flags *pflag.FlagSet
}

// Load resolves the configuration and validates it.
func Load(opts Options) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, opts.File); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

func readConfigFile(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", file, err)
		}
		return nil
	}

	dir, err := DefaultConfigDir()
	if err != nil {
		return nil
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/flashcarding, falling back to the
// platform user config directory.
func DefaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "flashcarding"), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "flashcarding"), nil
}
