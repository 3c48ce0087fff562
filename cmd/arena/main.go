package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/vectorclash/vectorclash/internal/core/arena"
	"github.com/vectorclash/vectorclash/internal/core/intent"
	"github.com/vectorclash/vectorclash/internal/core/observability/log"
	"github.com/vectorclash/vectorclash/internal/core/reflex"
	"github.com/vectorclash/vectorclash/internal/core/sim"
	"github.com/vectorclash/vectorclash/internal/core/strategist"
	"github.com/vectorclash/vectorclash/internal/server"
)

func main() {
	var (
		telemetryAddr  = flag.String("telemetry", ":8080", "telemetry listen address")
		strategistAddr = flag.String("strategist", "", "remote strategist endpoint; empty uses the built-in local decider")
		transportKind  = flag.String("transport", "ws", "strategist transport: ws or quic")
		mapPath        = flag.String("map", "", "YAML map config override")
		reflexPath     = flag.String("reflex", "", "YAML reflex tuning override")
		fps            = flag.Int("fps", 60, "simulation tick rate")
		debug          = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	level := zapcore.InfoLevel
	if *debug {
		level = zapcore.DebugLevel
	}
	logger := log.New(level)
	defer func() { _ = logger.Sync() }()

	if err := run(logger, *telemetryAddr, *strategistAddr, *transportKind, *mapPath, *reflexPath, *fps); err != nil {
		logger.Error("arena failed", log.Err(err))
		os.Exit(1)
	}
}

func run(logger *log.Logger, telemetryAddr, strategistAddr, transportKind, mapPath, reflexPath string, fps int) error {
	mapCfg, err := loadMapConfig(mapPath)
	if err != nil {
		return err
	}
	reflexCfg, err := loadReflexConfig(reflexPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)

	slot := intent.NewSlot()
	world := sim.NewWorld(mapCfg, reflexCfg, slot, logger)

	decider, err := buildDecider(ctx, strategistAddr, transportKind)
	if err != nil {
		return err
	}

	pool := strategist.NewPool(strategist.DefaultPoolConfig(), decider, slot, world.Snapshot, logger)
	go func() { _ = pool.Run(ctx) }()

	telemetry := server.NewTelemetry(telemetryAddr, logger)
	if err := telemetry.Start(ctx); err != nil {
		return fmt.Errorf("start telemetry: %w", err)
	}

	opponent := newScriptedPlayer(time.Now().UnixNano())
	dt := 1.0 / float64(fps)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	logger.Info("match started",
		log.Int("fps", fps),
		log.Float64("arena_w", mapCfg.Bounds.W),
		log.Float64("arena_h", mapCfg.Bounds.H))

	for {
		select {
		case <-stopCh:
			logger.Info("interrupted")
			return nil
		case <-ticker.C:
			world.SetPlayerInput(opponent.Input(world, dt))
			world.Step(dt)
			if err := telemetry.Broadcast(server.FrameFromWorld(world)); err != nil {
				logger.Warn("broadcast failed", log.Err(err))
			}
			if world.Over() {
				logger.Info("shutting down", log.String("winner", world.Winner().String()))
				return nil
			}
		}
	}
}

func buildDecider(ctx context.Context, addr, kind string) (strategist.Decider, error) {
	if addr == "" {
		return strategist.NewLocalDecider(), nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch kind {
	case "ws":
		t, err := strategist.DialWS(dialCtx, addr)
		if err != nil {
			return nil, err
		}
		return strategist.NewRemoteDecider(t), nil
	case "quic":
		t, err := strategist.DialQUIC(dialCtx, addr)
		if err != nil {
			return nil, err
		}
		return strategist.NewRemoteDecider(t), nil
	default:
		return nil, fmt.Errorf("unknown transport %q (want ws or quic)", kind)
	}
}

func loadMapConfig(path string) (arena.MapConfig, error) {
	if path == "" {
		return arena.DefaultMapConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return arena.MapConfig{}, fmt.Errorf("open map config: %w", err)
	}
	defer func() { _ = f.Close() }()
	return arena.LoadMapConfig(f)
}

func loadReflexConfig(path string) (reflex.Config, error) {
	if path == "" {
		return reflex.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return reflex.Config{}, fmt.Errorf("open reflex config: %w", err)
	}
	defer func() { _ = f.Close() }()
	return reflex.LoadConfig(f)
}
