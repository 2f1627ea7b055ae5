// Package config loads heapctl settings: built-in defaults, then an optional
// YAML file, then HEAPKIT_* environment variables.
package config

import (
	"bytes"
	"io"
	"os"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapkit/alloc"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/region"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "HEAPKIT"

	// EnvConfigFile names a config file when none is given explicitly.
	EnvConfigFile = EnvPrefix + "_CONFIG_FILE"

	// DefaultCapacity is the region capacity used for mmap and file regions.
	DefaultCapacity = 64 << 20
)

// Region kinds.
const (
	RegionSlice = "slice"
	RegionMmap  = "mmap"
	RegionFile  = "file"
)

// Config holds heapctl settings. Struct tags name the YAML key and the
// environment variable (after the HEAPKIT_ prefix).
type Config struct {
	Strategy      string `envconfig:"STRATEGY"       yaml:"strategy"`
	Region        string `envconfig:"REGION"         yaml:"region"`
	Path          string `envconfig:"REGION_PATH"    yaml:"path"`
	Capacity      int    `envconfig:"CAPACITY"       yaml:"capacity"`
	CheckReleases bool   `envconfig:"CHECK_RELEASES" yaml:"checkReleases"`
	LogLevel      string `envconfig:"LOG_LEVEL"      yaml:"logLevel"`
	LogFormat     string `envconfig:"LOG_FORMAT"     yaml:"logFormat"`
	LogPath       string `envconfig:"LOG_PATH"       yaml:"logPath"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Strategy:      alloc.FirstFit.String(),
		Region:        RegionSlice,
		Capacity:      DefaultCapacity,
		CheckReleases: true,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Load builds the configuration. path may be empty, in which case
// $HEAPKIT_CONFIG_FILE is consulted; a missing file named only by the
// environment is not an error. The result is validated.
func Load(path string) (*Config, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := c.decodeYAML(data); err != nil {
				return nil, errors.Wrapf(err, "config: parse %s", path)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return nil, errors.Wrap(err, "config: read file")
		}
	}

	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, errors.Wrap(err, "config: parse environment")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// decodeYAML overlays data onto c, rejecting unknown keys.
func (c *Config) decodeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports the first invalid setting by YAML key and environment
// variable.
func (c *Config) Validate() error {
	if _, err := alloc.ParseStrategy(c.Strategy); err != nil {
		return invalid("strategy", "STRATEGY", "unknown strategy "+c.Strategy)
	}
	if !slices.Contains([]string{RegionSlice, RegionMmap, RegionFile}, c.Region) {
		return invalid("region", "REGION", "must be slice, mmap or file")
	}
	if c.Region == RegionFile && c.Path == "" {
		return invalid("path", "REGION_PATH", "required for file regions")
	}
	if c.Capacity < 0 || (c.Region != RegionSlice && c.Capacity == 0) {
		return invalid("capacity", "CAPACITY", "must be positive")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return invalid("logLevel", "LOG_LEVEL", "unknown level "+c.LogLevel)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return invalid("logFormat", "LOG_FORMAT", "must be console or json")
	}
	return nil
}

func invalid(yamlKey, env, why string) error {
	return errors.Newf("invalid configuration: %s / %s_%s: %s", yamlKey, EnvPrefix, env, why)
}

// HeapStrategy returns the parsed strategy. Validate guarantees it parses.
func (c *Config) HeapStrategy() alloc.Strategy {
	s, _ := alloc.ParseStrategy(c.Strategy)
	return s
}

// HeapConfig builds the allocator configuration.
func (c *Config) HeapConfig(log *zap.Logger) *alloc.Config {
	return &alloc.Config{
		Strategy:      c.HeapStrategy(),
		CheckReleases: c.CheckReleases,
		Logger:        log,
	}
}

// OpenRegion creates the configured region provider. For slice regions the
// capacity is a growth limit; 0 means unlimited.
func (c *Config) OpenRegion() (region.Provider, error) {
	switch c.Region {
	case RegionMmap:
		m, err := region.NewMmap(c.Capacity)
		if err != nil {
			return nil, err
		}
		return m, nil
	case RegionFile:
		f, err := region.OpenFile(c.Path, c.Capacity)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return region.NewSlice(c.Capacity), nil
	}
}
