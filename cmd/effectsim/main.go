// effectsim plays a scripted scenario through the status-effect engine.
//
// Usage:
//
//	go run ./cmd/effectsim -scenario scenarios/warmth.yaml
//	go run ./cmd/effectsim -scenario scenarios/plague.yaml -realtime -live
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/statusfx/internal/config"
	"github.com/udisondev/statusfx/internal/db"
	"github.com/udisondev/statusfx/internal/game/effect"
	"github.com/udisondev/statusfx/internal/journal"
	"github.com/udisondev/statusfx/internal/random"
	"github.com/udisondev/statusfx/internal/telemetry"
)

const (
	ConfigPath  = "config/effectsim.yaml"
	serviceName = "effectsim"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	defaultConfig := ConfigPath
	if p := os.Getenv("STATUSFX_CONFIG"); p != "" {
		defaultConfig = p
	}

	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", defaultConfig, "simulator config file")
	scenarioPath := fs.String("scenario", "", "scenario file (required)")
	realtime := fs.Bool("realtime", false, "wait tick_interval between timeline ticks")
	live := fs.Bool("live", false, "keep ticking after the timeline until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *scenarioPath == "" {
		return errors.New("-scenario is required")
	}

	cfg, err := config.LoadSimulator(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("effectsim starting",
		"log_level", cfg.LogLevel,
		"storage", cfg.Storage,
		"tick_interval", cfg.TickInterval)

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Warn("flushing traces", "error", err)
		}
	}()

	sc, err := LoadScenario(*scenarioPath)
	if err != nil {
		return err
	}
	world, err := newSimWorld(sc)
	if err != nil {
		return err
	}

	reg, err := loadRegistry(cfg.CatalogPath)
	if err != nil {
		return err
	}
	slog.Info("effect catalog loaded", "kinds", reg.Len())

	opts := []effect.Option{
		effect.WithMessenger(&consoleMessenger{out: stdout}),
		effect.WithRandom(newSource(cfg.Seed)),
	}
	var jw *journal.Writer
	if cfg.JournalDir != "" {
		jw = journal.NewWriter(cfg.JournalDir)
		opts = append(opts, effect.WithHooks(jw))
	}
	engine := effect.NewEngine(reg, world, opts...)

	store, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening effect store: %w", err)
	}
	var persister *db.EffectPersistenceService
	if store != nil {
		defer store.Close()
		persister = db.NewEffectPersistenceService(store)
		if err := persister.LoadActors(ctx, engine, world.IDs()); err != nil {
			return fmt.Errorf("loading stored effects: %w", err)
		}
	}

	runner := newRunner(engine, world, stdout, cfg.TickInterval, *realtime)

	// The journal outlives gctx and drains after the last tick.
	journalCtx, stopJournal := context.WithCancel(context.WithoutCancel(ctx))
	defer stopJournal()

	g, gctx := errgroup.WithContext(ctx)
	if jw != nil {
		g.Go(func() error {
			if err := jw.Run(journalCtx); err != nil {
				return fmt.Errorf("effect journal: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer stopJournal()
		if err := runner.Run(gctx, sc); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		if *live {
			slog.Info("live ticking, interrupt to stop")
			return runner.Live(gctx)
		}
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		slog.Info("scenario interrupted")
		err = nil
	}
	if err != nil {
		return err
	}

	runner.Summary()

	if persister != nil {
		if err := persister.SaveAll(context.WithoutCancel(ctx), engine, world.IDs()); err != nil {
			return fmt.Errorf("saving effects: %w", err)
		}
	}
	return nil
}

func loadRegistry(path string) (*effect.Registry, error) {
	if path == "" {
		return effect.LoadRegistry()
	}
	return effect.LoadRegistryFile(path)
}

// newSource returns a deterministic source for a fixed seed, otherwise one
// seeded from crypto/rand. The seed is logged so a run can be replayed.
func newSource(seed int64) random.Source {
	if seed != 0 {
		slog.Info("random source seeded", "seed", seed)
		return random.New(seed)
	}
	src, seed, err := random.NewSeeded()
	if err != nil {
		slog.Warn("crypto seed unavailable, falling back to fixed seed", "error", err)
		return random.New(1)
	}
	slog.Info("random source seeded", "seed", seed)
	return src
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
