package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fresa/engine/internal/config"
	"github.com/fresa/engine/internal/core/ecs"
	"github.com/fresa/engine/internal/core/event"
	coresys "github.com/fresa/engine/internal/core/system"
	"github.com/fresa/engine/internal/data"
	"github.com/fresa/engine/internal/scripting"
	"github.com/fresa/engine/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

// ── Simulation ────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/sim.toml"
	if p := os.Getenv("FRESA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Load spawn table and scripts
	spawns, err := data.LoadSpawnList(cfg.Simulation.SpawnList)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}
	lua, err := scripting.NewEngine(cfg.Simulation.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer lua.Close()

	// 4. Create the registry and register components up front so no pool is
	// created mid-tick.
	reg := ecs.NewRegistry(log,
		ecs.WithPageSize(cfg.ECS.PageSize),
		ecs.WithDestroyQueueCapacity(cfg.ECS.DestroyQueueCapacity),
	)
	registerComponents(reg)

	bus := event.NewBus()
	event.Subscribe(bus, func(ev event.EntityExpired) {
		log.Debug("entity expired",
			zap.Stringer("entity", ev.Entity),
			zap.String("name", ev.Name),
			zap.Duration("age", ev.Age))
	})

	// 5. Create systems and register with runner
	runner := coresys.NewRunner()
	spawnSys := system.NewSpawnSystem(reg, bus, spawns, cfg.Simulation.Seed, log)
	cleanupSys := system.NewCleanupSystem(reg)
	runner.Register(spawnSys)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewSteerSystem(reg, lua, cfg.Simulation.BoundsWidth, cfg.Simulation.BoundsHeight))
	runner.Register(system.NewMovementSystem(reg))
	runner.Register(system.NewLifetimeSystem(reg, bus))
	runner.Register(cleanupSys)

	// 6. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	log.Info("simulation started",
		zap.Int("spawn_entries", len(spawns)),
		zap.Duration("tick_rate", cfg.Simulation.TickRate),
		zap.Int("ticks", cfg.Simulation.Ticks))

	ticks := 0
loop:
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
			ticks++
			if cfg.Simulation.Ticks > 0 && ticks >= cfg.Simulation.Ticks {
				break loop
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			break loop
		}
	}

	// 7. Report
	fmt.Println()
	printSection("Summary")
	printStat("Ticks", ticks)
	printStat("Spawned", spawnSys.Spawned())
	printStat("Destroyed", cleanupSys.Destroyed())
	printStat("Live entities", reg.Len())
	for _, s := range reg.PoolStats() {
		log.Info("pool",
			zap.Uint16("id", uint16(s.ID)),
			zap.String("component", s.Name),
			zap.Int("len", s.Len),
			zap.Int("extent", s.Extent))
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
