package structidx

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/structidx/internal/bufpool"
	"github.com/hupe1980/structidx/internal/resource"
)

// ResourceConfig limits pooled memory and document read throughput.
type ResourceConfig = resource.Config

// BufferPoolConfig configures a BufferPool.
type BufferPoolConfig = bufpool.Config

// Config is the file form of the Extractor options.
//
// Example:
//
//	max_nesting: 0
//	store: pooled
//	speculation: true
//	pattern_cache:
//	  capacity: 4096
//	pool:
//	  buffers: 256
//	  buffer_size: 65536
//	  wait: 20ms
//	  fallback: true
//	resources:
//	  memory_limit_bytes: 67108864
//	log:
//	  level: debug
//	  format: json
type Config struct {
	MaxNesting  int    `yaml:"max_nesting"`
	Store       string `yaml:"store"`
	Speculation *bool  `yaml:"speculation"`

	PatternCache PatternCacheConfig `yaml:"pattern_cache"`
	Pool         PoolConfig         `yaml:"pool"`
	Resources    ResourceConfig     `yaml:"resources"`
	Log          LogConfig          `yaml:"log"`
}

// PatternCacheConfig configures the pattern cache.
type PatternCacheConfig struct {
	// Capacity bounds the number of cached paths. 0 means unbounded.
	Capacity int `yaml:"capacity"`
	// Snapshot is a docstore key holding a persisted cache. Used by the CLI.
	Snapshot string `yaml:"snapshot"`
}

// PoolConfig configures the buffer pool used by the pooled store.
type PoolConfig struct {
	BufferPoolConfig `yaml:",inline"`

	Wait     time.Duration `yaml:"wait"`
	Fallback bool          `yaml:"fallback"`
}

// LogConfig configures the logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error. Empty disables logging.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates YAML config data.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for out-of-range values.
func (c *Config) Validate() error {
	if c.MaxNesting < 0 {
		return fmt.Errorf("%w: max_nesting must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseBackingStore(c.Store); err != nil {
		return err
	}
	if c.PatternCache.Capacity < 0 {
		return fmt.Errorf("%w: pattern_cache.capacity must not be negative", ErrInvalidConfig)
	}
	if c.Pool.Buffers < 0 || c.Pool.BufferSize < 0 || c.Pool.Wait < 0 {
		return fmt.Errorf("%w: pool settings must not be negative", ErrInvalidConfig)
	}
	if c.Resources.MemoryLimitBytes < 0 || c.Resources.IOLimitBytesPerSec < 0 {
		return fmt.Errorf("%w: resource limits must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// Options converts the config into Extractor options.
func (c *Config) Options() []Option {
	store, _ := ParseBackingStore(c.Store)

	opts := []Option{
		WithMaxNesting(c.MaxNesting),
		WithBackingStore(store),
		WithPatternCache(NewPatternCache(c.PatternCache.Capacity)),
		WithPoolWait(c.Pool.Wait),
		WithPoolFallback(c.Pool.Fallback),
		withPoolConfig(c.Pool.BufferPoolConfig, c.Resources),
	}
	if c.Speculation != nil {
		opts = append(opts, WithSpeculation(*c.Speculation))
	}
	if l := c.Log.logger(); l != nil {
		opts = append(opts, WithLogger(l))
	}
	return opts
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return lvl, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return lvl, fmt.Errorf("%w: log level: %w", ErrInvalidConfig, err)
	}
	return lvl, nil
}

func (l LogConfig) logger() *Logger {
	if l.Level == "" {
		return nil
	}
	lvl, err := l.level()
	if err != nil {
		return nil
	}
	if l.Format == "json" {
		return NewJSONLogger(lvl)
	}
	return NewTextLogger(lvl)
}

// withPoolConfig sets the settings of the pool an Extractor creates for itself.
func withPoolConfig(cfg BufferPoolConfig, limits ResourceConfig) Option {
	return func(o *options) {
		o.poolConfig = cfg
		o.resources = limits
	}
}
