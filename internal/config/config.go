// Package config loads the run configuration from environment variables.
// Every option recognized by the core pipeline surfaces here; cmd flags can
// override individual values afterwards.
package config

import (
	"os"
	"runtime"
	"strconv"

	"intersectomics/internal/errors"
)

// Config represents the complete run configuration.
type Config struct {
	Bootstrap BootstrapConfig
	Graph     GraphConfig
	Output    OutputConfig
}

// BootstrapConfig holds the bootstrap correlation settings.
type BootstrapConfig struct {
	ReplicateLevel string  // column-label level naming the replicate group
	Iterations     int     // bootstrap repeats per pair
	Workers        int     // parallel workers; default NumCPU-1
	ChunkSize      int     // pairs per worker chunk
	Method         string  // "spearman"; others reserved
	Seed           *uint64 // nil for a nondeterministic run
}

// GraphConfig holds the graph construction settings.
type GraphConfig struct {
	Alpha          float64 // significance cutoff
	MinCorrelation float64 // |rho| cutoff for edges
	PositiveOnly   bool
	AbsoluteWeight bool
	KeepIsolates   bool    // keep isolated nodes in the consensus graph
	Resolution     float64 // Louvain resolution
}

// OutputConfig holds persistence and export settings.
type OutputConfig struct {
	WorkbookPath string // .xlsx results export; empty disables
	DatabaseURL  string // Postgres results store; empty disables
}

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Bootstrap: BootstrapConfig{
			ReplicateLevel: getEnv("REPLICATE_LEVEL", "time"),
			Iterations:     10,
			Workers:        defaultWorkers(),
			ChunkSize:      64,
			Method:         getEnv("CORRELATION_METHOD", "spearman"),
		},
		Graph: GraphConfig{
			Alpha:          0.05,
			MinCorrelation: 0.6,
			PositiveOnly:   true,
			AbsoluteWeight: true,
			Resolution:     1.0,
		},
		Output: OutputConfig{
			WorkbookPath: os.Getenv("OUTPUT_WORKBOOK"),
			DatabaseURL:  os.Getenv("DATABASE_URL"),
		},
	}

	var err error
	if cfg.Bootstrap.Iterations, err = intEnv("N_ITERATIONS", cfg.Bootstrap.Iterations); err != nil {
		return nil, err
	}
	if cfg.Bootstrap.Workers, err = intEnv("N_PROCESSES", cfg.Bootstrap.Workers); err != nil {
		return nil, err
	}
	if cfg.Bootstrap.ChunkSize, err = intEnv("CHUNK_SIZE", cfg.Bootstrap.ChunkSize); err != nil {
		return nil, err
	}
	if cfg.Graph.Alpha, err = floatEnv("ALPHA", cfg.Graph.Alpha); err != nil {
		return nil, err
	}
	if cfg.Graph.MinCorrelation, err = floatEnv("MIN_CORRELATION", cfg.Graph.MinCorrelation); err != nil {
		return nil, err
	}
	if cfg.Graph.Resolution, err = floatEnv("RESOLUTION", cfg.Graph.Resolution); err != nil {
		return nil, err
	}
	if v := os.Getenv("SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid SEED %q", v)
		}
		cfg.Bootstrap.Seed = &seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Bootstrap.Iterations < 1 {
		return errors.ConfigInvalid("N_ITERATIONS must be a positive integer")
	}
	if c.Bootstrap.Workers < 1 {
		return errors.ConfigInvalid("N_PROCESSES must be a positive integer")
	}
	if c.Bootstrap.ChunkSize < 1 {
		return errors.ConfigInvalid("CHUNK_SIZE must be a positive integer")
	}
	if c.Bootstrap.ReplicateLevel == "" {
		return errors.ConfigInvalid("REPLICATE_LEVEL must not be empty")
	}
	if c.Graph.Alpha <= 0 || c.Graph.Alpha > 1 {
		return errors.ConfigInvalid("ALPHA must be in (0, 1]")
	}
	if c.Graph.MinCorrelation < 0 || c.Graph.MinCorrelation > 1 {
		return errors.ConfigInvalid("MIN_CORRELATION must be in [0, 1]")
	}
	if c.Graph.Resolution <= 0 {
		return errors.ConfigInvalid("RESOLUTION must be positive")
	}
	return nil
}

func defaultWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s %q", key, v)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s %q", key, v)
	}
	return f, nil
}
