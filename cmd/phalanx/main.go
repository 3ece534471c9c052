package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/width"

	"github.com/l1jgo/phalanx/internal/config"
	"github.com/l1jgo/phalanx/internal/core/event"
	"github.com/l1jgo/phalanx/internal/data"
	"github.com/l1jgo/phalanx/internal/persist"
	"github.com/l1jgo/phalanx/internal/scripting"
	"github.com/l1jgo/phalanx/internal/sim"
	"github.com/l1jgo/phalanx/internal/terrain"
	"github.com/l1jgo/phalanx/internal/trace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

var numbers = message.NewPrinter(language.English)

func printBanner(scenario string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              phalanx  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        formation movement simulator       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mscenario:\033[0m %s\n\n", scenario)
}

// displayWidth counts East Asian wide runes as two columns.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func printSection(title string) {
	lineLen := max(46-displayWidth(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	numStr := numbers.Sprintf("%d", value)
	dotsLen := max(42-displayWidth(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ──────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/phalanx.toml"
	if p := os.Getenv("PHALANX_CONFIG"); p != "" {
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

	// 3. Scenario
	sc, err := data.LoadScenario(cfg.Scenario.Path)
	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	printBanner(sc.Name)

	// 4. Terrain and tuning scripts
	printSection("terrain")
	fm := cfg.FlockManager()
	rules := cfg.CombatRules()
	var surface terrain.Surface = terrain.Flat(cfg.Terrain.FlatHeight)
	if cfg.Terrain.ScriptDir != "" {
		lua, err := scripting.NewEngine(cfg.Terrain.ScriptDir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer lua.Close()
		if lua.HasTerrain() {
			surface = lua
			printOK("lua terrain loaded")
		} else {
			printOK(fmt.Sprintf("flat terrain at y=%.1f", cfg.Terrain.FlatHeight))
		}
		printStat("tuning overrides", lua.ApplyOverrides(&fm, &rules))
	} else {
		printOK(fmt.Sprintf("flat terrain at y=%.1f", cfg.Terrain.FlatHeight))
	}
	fmt.Println()

	// 5. Build the simulation
	s := sim.New(sim.Options{
		Config:  cfg,
		Manager: &fm,
		Rules:   &rules,
		Surface: surface,
		Log:     log,
	})
	if err := s.Load(sc); err != nil {
		return err
	}

	printSection("simulation")
	printStat("formations", len(sc.Formations))
	printStat("units", s.State().UnitCount())
	printStat("workers", s.Pool().Workers())
	printStat("seed", cfg.Simulation.Seed)
	fmt.Println()

	// 6. Optional sinks: database journal and trace file
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo *persist.JournalRepo
	if cfg.Database.Enabled {
		printSection("database")
		jr, closeDB, err := openJournal(ctx, cfg, s, sc, log)
		if err != nil {
			return err
		}
		defer closeDB()
		repo = jr.repo
		defer func() {
			jr.journal.Close()
			log.Info("journal closed",
				zap.Uint64("dropped", jr.journal.Dropped()),
				zap.Uint64("failed", jr.journal.Failed()),
			)
		}()
		fmt.Println()
	}

	if cfg.Trace.Enabled {
		w, err := trace.Create(cfg.Trace.Dir, s.ID().String())
		if err != nil {
			return fmt.Errorf("trace: %w", err)
		}
		rec := trace.NewRecorder(w, 4096, log)
		rec.Record(trace.Record{Kind: trace.KindRun, Run: s.ID().String(), Scenario: sc.Name, Units: s.State().UnitCount()})
		rec.Subscribe(s.Bus())
		defer func() {
			if err := rec.Close(); err != nil {
				log.Error("close trace", zap.Error(err))
			}
			log.Info("trace written", zap.String("path", w.Path()), zap.Uint64("dropped", rec.Dropped()))
		}()
	}

	var last event.TickCompleted
	event.Subscribe(s.Bus(), func(e event.TickCompleted) { last = e })

	// 7. Tick loop
	ticker := time.NewTicker(s.TickRate())
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("run %s", s.ID()))
	printReady(fmt.Sprintf("tick loop started (tick: %s)", s.TickRate()))
	fmt.Println()

	start := time.Now()
	for {
		select {
		case <-ticker.C:
			t := s.Step()
			if cfg.Simulation.MaxTicks > 0 && t.N >= cfg.Simulation.MaxTicks {
				return finish(s, repo, &last, start, log)
			}
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return finish(s, repo, &last, start, log)
		}
	}
}

// finish delivers the last tick's events and closes out the run record.
func finish(s *sim.Simulation, repo *persist.JournalRepo, last *event.TickCompleted, start time.Time, log *zap.Logger) error {
	s.Drain()
	ticks := s.Runner().Current()
	log.Info("simulation stopped",
		zap.Uint64("ticks", ticks),
		zap.Duration("wall", time.Since(start)),
		zap.String("digest", trace.DigestString(last.Digest)),
	)
	if repo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.FinishRun(ctx, s.ID(), ticks, last.Digest); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	return nil
}

type journalSink struct {
	repo    *persist.JournalRepo
	journal *persist.Journal
}

func openJournal(ctx context.Context, cfg *config.Config, s *sim.Simulation, sc *data.Scenario, log *zap.Logger) (*journalSink, func(), error) {
	dctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(dctx, cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	printOK("PostgreSQL connected")

	if err := persist.RunMigrations(dctx, db.Pool); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")

	repo := persist.NewJournalRepo(db)
	err = repo.CreateRun(dctx, persist.RunInfo{
		ID:       s.ID(),
		Scenario: sc.Name,
		Units:    s.State().UnitCount(),
		Seed:     cfg.Simulation.Seed,
		TickRate: s.TickRate(),
	})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("journal: %w", err)
	}

	j := persist.NewJournal(ctx, repo, s.ID(), persist.JournalOptions{
		BatchSize:   cfg.Database.BatchSize,
		QueueSize:   cfg.Database.QueueSize,
		SampleEvery: cfg.Logging.StatsEvery,
	}, log)
	j.Subscribe(s.Bus())
	return &journalSink{repo: repo, journal: j}, db.Close, nil
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
