package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dyluth/bored/pkg/store"
)

// Defaults applied by Validate to anything left unset.
const (
	DefaultBackend       = BackendRedis
	DefaultRedisURL      = "redis://localhost:6379/0"
	DefaultSQLitePath    = "bored.sqlite3"
	DefaultNamespace     = "bored"
	DefaultBoardWidth    = 120
	DefaultBoardHeight   = 40
	DefaultLogLevel      = "info"
	DefaultDirectoryPath = "bored-directory.yml"
)

// Store backends.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// BoredConfig represents the top-level bored.yml configuration
type BoredConfig struct {
	Version       string      `yaml:"version" validate:"required"`
	Store         StoreConfig `yaml:"store"`
	Board         BoardConfig `yaml:"board"`
	Log           LogConfig   `yaml:"log"`
	DirectoryPath string      `yaml:"directory_path"`
}

// StoreConfig selects and configures the blob store
type StoreConfig struct {
	Backend       string `yaml:"backend" validate:"oneof=redis sqlite"`
	RedisURL      string `yaml:"redis_url" validate:"omitempty,url"`
	SQLitePath    string `yaml:"sqlite_path"`
	Namespace     string `yaml:"namespace" validate:"required"`
	CapacityBytes int    `yaml:"capacity_bytes" validate:"gt=0"`
}

// BoardConfig holds the dimensions used by `bored create` when none are given
type BoardConfig struct {
	DefaultWidth  int `yaml:"default_width" validate:"gt=0,lte=65535"`
	DefaultHeight int `yaml:"default_height" validate:"gt=0,lte=65535"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no bored.yml exists.
func Default() *BoredConfig {
	config := &BoredConfig{Version: "1.0"}
	// defaults always validate
	_ = config.Validate()
	return config
}

// Validate applies defaults and performs strict validation on the configuration
func (c *BoredConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	c.applyDefaults()

	if err := newValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%s: invalid value '%v' (rule: %s)", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return err
	}

	// Cross-field checks
	switch c.Store.Backend {
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url is required for the redis backend")
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite backend")
		}
	}

	return nil
}

func (c *BoredConfig) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = DefaultBackend
	}
	if c.Store.Backend == BackendRedis && c.Store.RedisURL == "" {
		c.Store.RedisURL = DefaultRedisURL
	}
	if c.Store.Backend == BackendSQLite && c.Store.SQLitePath == "" {
		c.Store.SQLitePath = DefaultSQLitePath
	}
	if c.Store.Namespace == "" {
		c.Store.Namespace = DefaultNamespace
	}
	if c.Store.CapacityBytes == 0 {
		c.Store.CapacityBytes = store.DefaultCapacity
	}
	if c.Board.DefaultWidth == 0 {
		c.Board.DefaultWidth = DefaultBoardWidth
	}
	if c.Board.DefaultHeight == 0 {
		c.Board.DefaultHeight = DefaultBoardHeight
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.DirectoryPath == "" {
		c.DirectoryPath = DefaultDirectoryPath
	}
}

// newValidator reports fields by their yaml names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads and validates bored.yml from the specified path
func Load(path string) (*BoredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config BoredConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*BoredConfig, error) {
	config, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}
