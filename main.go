package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"tennis/agent"
	"tennis/config"
	"tennis/experiments"
	"tennis/experiments/metrics"
	"tennis/graph"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvPrefix+"CONFIG"), "YAML config file")
	exportOnly := flag.Bool("export-only", false, "Build and export the transition graph without running rollouts")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.LoadFile(ctx, *configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	level, _ := zerolog.ParseLevel(cfg.LogLevel) // Validated by config
	zerolog.SetGlobalLevel(level)

	g, err := buildGraph(cfg.Graph, cfg.GraphOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build transition graph")
	}
	if *exportOnly {
		return
	}

	if err := runRollouts(ctx, cfg, g); err != nil {
		log.Fatal().Err(err).Msg("rollouts failed")
	}
}

func buildGraph(cfg config.GraphConfig, options []graph.Option) (*graph.Graph, error) {
	var records []graph.Record
	var err error
	switch strings.ToLower(cfg.Format) {
	case "parquet":
		records, err = graph.ReadParquet(cfg.CountsPath)
	default:
		records, err = readCSV(cfg.CountsPath)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("loaded %d transition counts from %s", len(records), cfg.CountsPath)

	g, err := graph.Build(records, options...)
	if err != nil {
		return nil, err
	}

	if cfg.ExportPath != "" {
		if err := exportGraph(cfg.ExportPath, g); err != nil {
			return nil, err
		}
		log.Info().Msgf("exported transition graph to %s", cfg.ExportPath)
	}
	return g, nil
}

func readCSV(path string) ([]graph.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open counts: %w", err)
	}
	defer f.Close()
	return graph.ReadCSV(f)
}

func exportGraph(path string, g *graph.Graph) error {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return graph.WriteParquet(path, g)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return graph.WriteCSV(f, g)
}

func runRollouts(ctx context.Context, cfg *config.Config, g *graph.Graph) error {
	counter := metrics.NewCollector()
	var collector metrics.Collector = counter
	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		collector = metrics.Tee(counter, metrics.NewPrometheusCollector(registry, cfg.Metrics.Namespace))
	}

	newAgent := func(episode int, seed uint64) agent.Agent {
		// Offset so the agent does not mirror the opponent's draws
		r := rand.New(rand.NewSource(seed + 1<<32))
		return agent.NewMimic(g, cfg.Rollouts.AgentTemperature, r)
	}
	runner := experiments.NewRunner(g, newAgent,
		experiments.WithEpisodes(cfg.Rollouts.Episodes),
		experiments.WithGoroutines(cfg.Rollouts.Goroutines),
		experiments.WithMaxSteps(cfg.Rollouts.MaxSteps),
		experiments.WithSeed(cfg.Env.Seed),
		experiments.WithCollector(collector),
		experiments.WithEnvironmentOptions(cfg.EnvironmentOptions()...),
	)

	records, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	writer, err := metrics.NewWriter(cfg.Rollouts.OutputDir, runner.RunID())
	if err != nil {
		return fmt.Errorf("failed to create rollout writer: %w", err)
	}
	if err := writer.WriteEpisodeRecords(records); err != nil {
		return err
	}
	summary := counter.Summary()
	if err := writer.WriteSummary(summary); err != nil {
		return err
	}
	log.Info().Msgf("stored rollout records in %s", writer.Dir())

	if registry != nil && cfg.Metrics.TextfilePath != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.TextfilePath, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	log.Info().
		Int("episodes", summary.Episodes).
		Int("matches_won", summary.MatchesWon).
		Int("matches_lost", summary.MatchesLost).
		Float64("mean_reward", summary.MeanReward()).
		Msg("rollouts complete")
	return nil
}
