// Package config defines the simulator configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"

	"tennis/engine"
	"tennis/graph"
	"tennis/meta"

	"github.com/rs/zerolog"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	Graph    GraphConfig    `koanf:"graph"`
	Env      EnvConfig      `koanf:"env"`
	Rewards  engine.Rewards `koanf:"rewards"`
	Rollouts RolloutConfig  `koanf:"rollouts"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// GraphConfig locates the transition count table and shapes the graph built from it.
type GraphConfig struct {
	CountsPath  string  `koanf:"counts_path"`
	Format      string  `koanf:"format"` // csv or parquet
	Temperature float64 `koanf:"temperature"`
	Scaling     string  `koanf:"scaling"` // softmax or power
	SkipUnknown bool    `koanf:"skip_unknown"`

	// ExportPath, when set, receives the probability table. A .parquet
	// extension selects Parquet, anything else CSV.
	ExportPath string `koanf:"export_path"`
}

type EnvConfig struct {
	ServeFirst    bool   `koanf:"serve_first"`
	SetsToWin     int    `koanf:"sets_to_win"`
	Seed          uint64 `koanf:"seed"`
	MaxRallyShots int    `koanf:"max_rally_shots"`
}

type RolloutConfig struct {
	Episodes         int     `koanf:"episodes"`
	Goroutines       int     `koanf:"goroutines"`
	MaxSteps         int     `koanf:"max_steps"`
	AgentTemperature float64 `koanf:"agent_temperature"`
	OutputDir        string  `koanf:"output_dir"`
}

type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
	// TextfilePath receives the registry in text exposition format after a run.
	TextfilePath string `koanf:"textfile_path"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Graph: GraphConfig{
			CountsPath:  "data/transition_counts.csv",
			Format:      "csv",
			Temperature: 1,
			Scaling:     graph.Softmax.String(),
		},
		Env: EnvConfig{
			ServeFirst:    true,
			SetsToWin:     meta.SETS_TO_WIN,
			MaxRallyShots: meta.MAX_RALLY_SHOTS,
		},
		Rewards: engine.DefaultRewards(),
		Rollouts: RolloutConfig{
			Episodes:         meta.EPISODES,
			Goroutines:       meta.GO_ROUTINES,
			MaxSteps:         meta.MAX_STEPS,
			AgentTemperature: 1,
			OutputDir:        "experiments/rollouts",
		},
		Metrics: MetricsConfig{
			Namespace: "tennis",
		},
	}
}

// Validate checks every section and returns an error wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.Graph.CountsPath == "" {
		return fmt.Errorf("%w: graph.counts_path must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Graph.Format) {
	case "csv", "parquet":
	default:
		return fmt.Errorf("%w: graph.format %q", ErrInvalidConfig, c.Graph.Format)
	}
	if !(c.Graph.Temperature > 0) {
		return fmt.Errorf("%w: graph.temperature %v", ErrInvalidConfig, c.Graph.Temperature)
	}
	if _, err := graph.ParseScaling(c.Graph.Scaling); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Env.SetsToWin <= 0 {
		return fmt.Errorf("%w: env.sets_to_win %d", ErrInvalidConfig, c.Env.SetsToWin)
	}
	if c.Env.MaxRallyShots <= 0 {
		return fmt.Errorf("%w: env.max_rally_shots %d", ErrInvalidConfig, c.Env.MaxRallyShots)
	}
	if err := c.Rewards.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Rollouts.Episodes <= 0 || c.Rollouts.Goroutines <= 0 || c.Rollouts.MaxSteps <= 0 {
		return fmt.Errorf("%w: rollouts need positive episodes, goroutines and max_steps", ErrInvalidConfig)
	}
	if !(c.Rollouts.AgentTemperature > 0) {
		return fmt.Errorf("%w: rollouts.agent_temperature %v", ErrInvalidConfig, c.Rollouts.AgentTemperature)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("%w: metrics.namespace must not be empty", ErrInvalidConfig)
	}
	return nil
}

// GraphOptions returns the builder options of the graph section.
func (c *Config) GraphOptions() []graph.Option {
	scaling, _ := graph.ParseScaling(c.Graph.Scaling)
	return []graph.Option{
		graph.WithTemperature(c.Graph.Temperature),
		graph.WithScaling(scaling),
		graph.WithSkipUnknown(c.Graph.SkipUnknown),
	}
}

// EnvironmentOptions returns the environment options of the env and rewards sections.
func (c *Config) EnvironmentOptions() []engine.Option {
	return []engine.Option{
		engine.WithServeFirst(c.Env.ServeFirst),
		engine.WithSetsToWin(c.Env.SetsToWin),
		engine.WithMaxRallyShots(c.Env.MaxRallyShots),
		engine.WithRewards(c.Rewards),
	}
}
