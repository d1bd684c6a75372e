// Package config loads the YAML settings used by the plist command: list
// shape, arena limits, logging and metrics.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/proplist/errors"
	"github.com/wippyai/proplist/metrics"
	"github.com/wippyai/proplist/plist"
	"github.com/wippyai/proplist/pool"
)

type Config struct {
	List    List    `yaml:"list"`
	Pool    Pool    `yaml:"pool"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
}

// List holds the shape of lists created without explicit arguments.
type List struct {
	InitialSize int `yaml:"initialSize" validate:"gte=1,lte=65536"`
	GrowBy      int `yaml:"growBy" validate:"gte=1,lte=65536"`
	Reserved    int `yaml:"reserved" validate:"gte=0"`
	MaxCount    int `yaml:"maxCount" validate:"gte=0"`
}

// Pool configures the root arena. A zero limit is unbounded.
type Pool struct {
	Name  string `yaml:"name" validate:"required"`
	Limit int    `yaml:"limit" validate:"gte=0"`
}

type Log struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Encoding    string `yaml:"encoding,omitempty" validate:"omitempty,oneof=json console"`
	Development bool   `yaml:"development,omitempty"`
}

type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace,omitempty" validate:"omitempty,lowercase"`
	Addr      string `yaml:"addr,omitempty" validate:"omitempty,hostname_port"`
}

var validate = validator.New()

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		List: List{
			InitialSize: plist.DefaultInitialSize,
			GrowBy:      plist.DefaultGrowBy,
		},
		Pool: Pool{Name: "root"},
		Log:  Log{Level: "info", Encoding: "console"},
		Metrics: Metrics{
			Namespace: metrics.DefaultNamespace,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		kind := errors.KindInvalidInput
		if stderrors.Is(err, fs.ErrNotExist) {
			kind = errors.KindNotFound
		}
		return nil, errors.Wrap(errors.PhaseConfig, kind, err, fmt.Sprintf("read config file %q", path))
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the relation between reserved and
// maximum list sizes.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "invalid config")
	}
	if c.List.MaxCount > 0 && c.List.Reserved > c.List.MaxCount {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("list.reserved %d exceeds list.maxCount %d", c.List.Reserved, c.List.MaxCount).
			Build()
	}
	return nil
}

// ListOptions converts the list section into creation options.
func (c *Config) ListOptions() []plist.Option {
	return []plist.Option{
		plist.WithInitialSize(c.List.InitialSize),
		plist.WithGrowBy(c.List.GrowBy),
	}
}

// NewArena creates the root arena.
func (c *Config) NewArena() *pool.Arena {
	return pool.New(c.Pool.Name, c.Pool.Limit)
}

// Logger builds a zap logger from the log section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if c.Log.Encoding != "" {
		zc.Encoding = c.Log.Encoding
	}
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
