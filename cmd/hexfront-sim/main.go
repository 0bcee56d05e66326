// Command hexfront-sim plays a headless match between computer players and
// prints the final score.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hexfront/engine/internal/config"
	"github.com/hexfront/engine/internal/engine"
	"github.com/hexfront/engine/internal/logging"
	"github.com/hexfront/engine/internal/otel"
	"github.com/hexfront/engine/internal/recorder"
	"github.com/hexfront/engine/internal/rules"
	"github.com/hexfront/engine/internal/scenario"
)

func main() {
	configDir := flag.String("config", ".", "directory holding "+config.FileName)
	mapName := flag.String("map", "", "map to play, overrides the config file")
	turns := flag.Int("turns", 0, "rounds to play, overrides the config file")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *mapName != "" {
		cfg.Game.MapName = *mapName
	}
	if *turns > 0 {
		cfg.Game.Turns = *turns
	}

	scores, err := run(cfg, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for player, score := range scores {
		fmt.Printf("player %d: %d\n", player, score)
	}
}

// run plays one match as configured and returns the scores.
func run(cfg config.Config, start time.Time) ([]int, error) {
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}()

	var logFile io.Writer
	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs dir: %w", err)
		}
		f, err := os.Create(logging.LogFilePath(cfg.LogsDir, "hexfront-sim", start))
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		closers = append(closers, f)
		logFile = f
	}

	var graylog io.Writer
	if cfg.Graylog.Enabled {
		w, err := logging.NewGraylogWriter(cfg.Graylog.Address)
		if err != nil {
			return nil, err
		}
		closers = append(closers, w)
		graylog = w
	}

	otelCfg := otel.Config{
		Enabled:      cfg.OTel.Enabled,
		ServiceName:  cfg.OTel.ServiceName,
		BatchTimeout: cfg.OTel.BatchTimeout,
		Endpoint:     cfg.OTel.Endpoint,
		Insecure:     cfg.OTel.Insecure,
	}
	if cfg.OTel.Enabled && cfg.LogsDir != "" {
		f, err := os.Create(logging.LogFilePath(cfg.LogsDir, "hexfront-otel", start))
		if err != nil {
			return nil, fmt.Errorf("failed to create otel log file: %w", err)
		}
		closers = append(closers, f)
		otelCfg.LogWriter = f
	}
	provider, err := otel.New(otelCfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	var core *engine.Core
	logs := logging.NewSlogManager()
	logs.Setup(logging.Options{
		Level:    cfg.LogLevel,
		File:     logFile,
		Graylog:  graylog,
		Provider: provider.LoggerProvider(),
		Context: func() []slog.Attr {
			if core == nil {
				return nil
			}
			return core.LogAttrs()
		},
	})
	log := logs.Logger()

	cmdOut := io.Writer(os.Stdout)
	if logFile != nil {
		cmdOut = logFile
	}
	cmdLog := logging.NewDispatcherLogger(logging.NewZerolog(cmdOut, cfg.LogLevel))

	backend, err := recorder.New(cfg.Recorder)
	if err != nil {
		return nil, err
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("failed to init %s recorder: %w", cfg.Recorder.Type, err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("failed to close recorder", "error", err)
		}
	}()

	opts, err := cfg.Game.Options()
	if err != nil {
		return nil, err
	}
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	core, err = engine.New(rules.Default(), opts, scenario.Builtin(),
		engine.WithRand(rng),
		engine.WithLogger(log),
		engine.WithCommandLogger(cmdLog),
		engine.WithRecorder(backend),
		engine.WithCombatConfig(cfg.Combat),
	)
	if err != nil {
		return nil, err
	}
	defer core.Close()
	log.Info("simulation started", "seed", seed, "turns", cfg.Game.Turns)

	m := newMatch(core, rng, log)
	if err := m.run(cfg.Game.Turns); err != nil {
		return nil, err
	}
	scores := m.scores()
	log.Info("simulation finished", "scores", scores)

	if err := logs.Flush(context.Background()); err != nil {
		log.Warn("failed to flush otel logs", "error", err)
	}
	return scores, nil
}
