// Package config loads the YAML configuration that drives cmd/taskpoolctl,
// following the same load-a-struct-from-YAML pattern the rest of the
// reference corpus's queue-system command-line tools use.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Pool     PoolConfig     `yaml:"pool"`
	Workload WorkloadConfig `yaml:"workload"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PoolConfig controls how the worker pool is constructed and torn down.
type PoolConfig struct {
	Workers         int  `yaml:"workers"`
	DrainOnShutdown bool `yaml:"drain_on_shutdown"`
}

// WorkloadConfig describes the synthetic workload cmd/taskpoolctl submits.
type WorkloadConfig struct {
	TaskCount    int           `yaml:"task_count"`
	TaskDuration time.Duration `yaml:"task_duration"`
}

// MetricsConfig controls the optional Prometheus HTTP listener.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

const (
	defaultWorkers      = 4
	defaultTaskCount    = 100
	defaultTaskDuration = 10 * time.Millisecond
	defaultListenAddr   = ":9090"
)

// Load reads and unmarshals the YAML file at path, filling in defaults for
// zero-valued optional fields. A missing or malformed file is reported as an
// error, not a panic: this is ordinary user input validation, not a
// programmer-error contract violation.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.applyDefaults()

	if cfg.Pool.Workers <= 0 {
		return Config{}, fmt.Errorf("config: pool.workers must be positive, got %d", cfg.Pool.Workers)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Pool.Workers == 0 {
		c.Pool.Workers = defaultWorkers
	}
	if c.Workload.TaskCount == 0 {
		c.Workload.TaskCount = defaultTaskCount
	}
	if c.Workload.TaskDuration == 0 {
		c.Workload.TaskDuration = defaultTaskDuration
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = defaultListenAddr
	}
}
