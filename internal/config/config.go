// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New(...) building a Config with defaults; Load layers file/env.
// - External errors are wrapped via this package's sentinels.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the JSON candidate snapshot to load on start
	// and on POST /catalog/refresh.
	CatalogPath string `koanf:"catalog_path"`

	// DefaultMode selects the optimality mode when a request names none:
	// "heuristic" or "exact".
	DefaultMode string `koanf:"default_mode"`

	// ExactStateLimit caps the exact-mode DP state space before the
	// request degrades to heuristic.
	ExactStateLimit int `koanf:"exact_state_limit"`

	// ExactNodeLimit caps the exact-mode branch-and-bound node count.
	ExactNodeLimit int `koanf:"exact_node_limit"`

	// CacheSize bounds the result cache entry count.
	CacheSize int `koanf:"cache_size"`

	// PrecomputeWorkers sets the cache-warming worker count.
	PrecomputeWorkers int `koanf:"precompute_workers"`

	// PrecomputeQueueSize bounds the cache-warming job queue.
	PrecomputeQueueSize int `koanf:"precompute_queue_size"`

	// PresetFormations lists formations warmed after each catalog refresh,
	// in "D-M-F" notation.
	PresetFormations []string `koanf:"preset_formations"`

	// PresetBudget is the budget used for cache-warming runs.
	PresetBudget float64 `koanf:"preset_budget"`

	// MaxCandidatesLimit caps GET /candidates?limit.
	MaxCandidatesLimit int `koanf:"max_candidates_limit"`

	// OptimizePerSecond and OptimizeBurst shape the optimize endpoint
	// rate limiter.
	OptimizePerSecond float64 `koanf:"optimize_per_second"`
	OptimizeBurst     int     `koanf:"optimize_burst"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		CatalogPath:         "catalog.json",
		DefaultMode:         "heuristic",
		ExactStateLimit:     50_000_000,
		ExactNodeLimit:      1_000_000,
		CacheSize:           1024,
		PrecomputeWorkers:   runtime.NumCPU(),
		PrecomputeQueueSize: 256,
		PresetFormations:    []string{"3-4-3", "3-5-2", "4-4-2", "4-3-3", "5-4-1"},
		PresetBudget:        100.0,
		MaxCandidatesLimit:  100,
		OptimizePerSecond:   20,
		OptimizeBurst:       40,
	}
}
