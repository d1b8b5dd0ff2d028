// Package config loads and validates the YAML run configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/retailops/common-items/pkg/sysmem"
	"gopkg.in/yaml.v3"
)

// Output formats for the final artifact.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Chunk-size bounds applied when deriving the default from system RAM.
const (
	minAutoChunkSize = 10_000
	maxAutoChunkSize = 1_000_000
	// Rough per-row cost during a batch: two short strings plus slice
	// and scan overhead.
	rowCostBytes = 128
	// Fraction of RAM a single in-flight batch may occupy.
	ramFraction = 64
)

// Config is the immutable set of run parameters. It is loaded once at
// startup and read-only for the duration of a run.
type Config struct {
	DB      DB      `yaml:"db"`
	Params  Params  `yaml:"params"`
	Paths   Paths   `yaml:"paths"`
	Output  Output  `yaml:"output"`
	Logging Logging `yaml:"logging"`
}

// DB holds data-source connection settings.
type DB struct {
	// DSN is a pgx-compatible connection string.
	DSN string `yaml:"dsn"`
}

// Params mirrors the params section of config.yaml.
type Params struct {
	// ChunkSize is the max rows fetched per batch from the relation
	// cursor. 0 derives a value from system RAM.
	ChunkSize int `yaml:"chunk_size"`
	// MinStoreCount is the required number of stores in the result.
	MinStoreCount int `yaml:"min_store_count"`
	// ItemLimit is the required number of common items in the result.
	ItemLimit int `yaml:"item_limit"`
	// ActiveItemLimit bounds the active-item fetch. <= 0 is unbounded.
	ActiveItemLimit int `yaml:"active_item_limit"`
	// MaxConcurrency is the connection pool size hint.
	MaxConcurrency int `yaml:"max_concurrency"`
	// MaxRetries is how many times a failed connection attempt is
	// retried before the run aborts.
	MaxRetries int `yaml:"max_retries"`
	// RetryDelaySec is the fixed delay between connection attempts.
	RetryDelaySec int `yaml:"retry_delay_sec"`
}

// Paths holds output and log locations.
type Paths struct {
	OutputDir string `yaml:"output_dir"`
	// LogDir, when set, receives an append-only app.log (no rotation).
	LogDir string `yaml:"log_dir"`
}

// Output selects the final artifact format.
type Output struct {
	// Format is "csv" (default) or "parquet".
	Format string `yaml:"format"`
}

// Logging holds log verbosity settings.
type Logging struct {
	Debug bool `yaml:"debug"`
}

// Load reads, defaults, and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.Params.ChunkSize == 0 {
		c.Params.ChunkSize = DefaultChunkSize()
	}
	if c.Params.MaxConcurrency == 0 {
		c.Params.MaxConcurrency = 8
	}
	if c.Params.MaxRetries == 0 {
		c.Params.MaxRetries = 3
	}
	if c.Params.RetryDelaySec == 0 {
		c.Params.RetryDelaySec = 5
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatCSV
	}
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = "output"
	}
}

// Validate checks configuration values and returns an error for
// invalid settings.
func (c *Config) Validate() error {
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required")
	}
	if c.Params.ChunkSize < 0 {
		return fmt.Errorf("params.chunk_size must be non-negative, got %d", c.Params.ChunkSize)
	}
	if c.Params.MinStoreCount <= 0 {
		return fmt.Errorf("params.min_store_count must be positive, got %d", c.Params.MinStoreCount)
	}
	if c.Params.ItemLimit <= 0 {
		return fmt.Errorf("params.item_limit must be positive, got %d", c.Params.ItemLimit)
	}
	if c.Params.MaxRetries < 0 {
		return fmt.Errorf("params.max_retries must be non-negative, got %d", c.Params.MaxRetries)
	}
	if c.Params.RetryDelaySec < 0 {
		return fmt.Errorf("params.retry_delay_sec must be non-negative, got %d", c.Params.RetryDelaySec)
	}
	switch c.Output.Format {
	case FormatCSV, FormatParquet:
	default:
		return fmt.Errorf("output.format %q: must be csv or parquet", c.Output.Format)
	}
	return nil
}

// RetryDelay returns the connection retry delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Params.RetryDelaySec) * time.Second
}

// DefaultChunkSize derives a batch size from system RAM so one
// in-flight batch stays a small fraction of memory.
func DefaultChunkSize() int {
	total, _ := sysmem.TotalRAM()
	n := int(total / ramFraction / rowCostBytes)
	if n < minAutoChunkSize {
		return minAutoChunkSize
	}
	if n > maxAutoChunkSize {
		return maxAutoChunkSize
	}
	return n
}
