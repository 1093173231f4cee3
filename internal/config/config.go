// Package config loads rcbeam settings from defaults, an optional YAML
// file, .env files and RCBEAM_ environment variables, in increasing order
// of precedence. Command-line flags bound to the viper instance win over
// all of them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. RCBEAM_LOG_LEVEL
const EnvPrefix = "RCBEAM"

// Config holds the application configuration
type Config struct {
	Log     LogConfig    `mapstructure:"log"`
	Engine  EngineConfig `mapstructure:"engine"`
	Clauses ClauseConfig `mapstructure:"clauses"`
	Server  ServerConfig `mapstructure:"server"`
	Report  ReportConfig `mapstructure:"report"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type EngineConfig struct {
	DefaultCode string `mapstructure:"default_code" validate:"required"`
	Workers     int    `mapstructure:"workers" validate:"gte=0"` // 0 means one per CPU
}

type ClauseConfig struct {
	// Strict refuses to start when a routine cites an unknown clause
	Strict bool `mapstructure:"strict"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	Rate         float64       `mapstructure:"rate" validate:"gt=0"` // requests per second per client
	Burst        int           `mapstructure:"burst" validate:"gte=1"`
	MaxBatch     int           `mapstructure:"max_batch" validate:"gte=1"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type ReportConfig struct {
	Author string `mapstructure:"author"`
}

// Defaults are applied before any file or environment value
var Defaults = map[string]any{
	"log.level":            "info",
	"log.format":           "text",
	"engine.default_code":  "IS456",
	"engine.workers":       0,
	"clauses.strict":       false,
	"server.addr":          ":8080",
	"server.rate":          10.0,
	"server.burst":         20,
	"server.max_batch":     500,
	"server.read_timeout":  "10s",
	"server.write_timeout": "60s",
	"report.author":        "",
}

// New returns a viper instance with defaults and environment binding.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range Defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadEnv reads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the optional config file into v and decodes the result
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	cfg.Engine.DefaultCode = strings.ToUpper(cfg.Engine.DefaultCode)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}()

// Validate checks value ranges, naming offending keys the way they are
// written in the config file
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		// Namespace is "Config.log.level"
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		msgs[i] = fmt.Sprintf("%s: invalid value %v (%s %s)", key, fe.Value(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
