// cmd/starship/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-starship/pkg/config"
	"github.com/opd-ai/go-starship/pkg/engine"
	"github.com/opd-ai/go-starship/pkg/logging"
	"github.com/opd-ai/go-starship/pkg/render"
	"github.com/opd-ai/go-starship/pkg/telemetry"
)

type options struct {
	configPath string
	burn       uint64
	autopilot  bool
	renderMode string
	recordPath string
	realtime   bool
	maxTicks   int
}

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	var opts options
	flag.StringVar(&opts.configPath, "config", "starship.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	flag.Uint64Var(&opts.burn, "burn", 60, "Ticks to hold the booster engine before separation")
	flag.BoolVar(&opts.autopilot, "autopilot", true, "Engage upper stage autopilot after separation")
	flag.StringVar(&opts.renderMode, "render", "none", "Renderer: none, log or ascii")
	flag.StringVar(&opts.recordPath, "record", "", "Record telemetry to this SQLite file")
	flag.BoolVar(&opts.realtime, "realtime", false, "Pace ticks at run.tickRate")
	flag.IntVar(&opts.maxTicks, "max-ticks", 0, "Stop after this many ticks (0 uses run.maxTicks)")
	flag.Parse()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), opts.configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", opts.configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", opts.configPath,
		)
		return
	}

	cfg, err := loadConfig(ctx, logger, opts.configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", opts.configPath,
		)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	phase, err := run(ctx, logger, cfg, opts)
	if err != nil {
		logger.Error(ctx, "Flight aborted", err)
		stop()
		os.Exit(1)
	}
	if phase != engine.Landed {
		stop()
		os.Exit(2)
	}
}

// loadConfig reads path when it exists and falls back to defaults plus
// environment overrides otherwise.
func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.SimConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		return config.LoadConfigFromEnv()
	}
	return config.LoadConfig(path)
}

// run flies one scripted mission and returns the final phase
func run(ctx context.Context, logger *logging.Logger, cfg *config.SimConfig, opts options) (engine.Phase, error) {
	if opts.recordPath != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Path = opts.recordPath
	}
	maxTicks := uint64(cfg.Run.MaxTicks)
	if opts.maxTicks > 0 {
		maxTicks = uint64(opts.maxTicks)
	}

	ctx = logging.WithFlightID(ctx, logging.GenerateFlightID())
	sim, err := engine.NewSimulation(cfg, engine.WithLogger(logger), engine.WithContext(ctx))
	if err != nil {
		return engine.PreLaunch, err
	}

	m := newMission(sim, opts.burn, opts.autopilot)
	fs := engine.NewFlightSystem(sim, m)

	switch opts.renderMode {
	case "ascii":
		r := render.NewTerminalRenderer(os.Stdout, 100, 36, 6)
		r.SetEvery(uint64(max(1, cfg.Run.TickRate/10)))
		r.SetClearScreen(opts.realtime)
		fs.Observe(r)
	case "log":
		fs.Observe(render.NewNullRenderer(ctx, logger))
	case "none", "":
	default:
		return engine.PreLaunch, logging.WrapError(errors.New("unknown renderer"), "render mode %q", opts.renderMode)
	}

	var rec *telemetry.Recorder
	if cfg.Telemetry.Enabled {
		db, err := telemetry.Open(cfg.Telemetry.Path)
		if err != nil {
			return engine.PreLaunch, err
		}
		rec = telemetry.NewRecorder(db, cfg.Telemetry, logger)
		defer rec.Close()
		if err := rec.Begin(ctx, cfg); err != nil {
			return engine.PreLaunch, err
		}
		rec.Attach(sim.EventBus)
		fs.Observe(rec)
	}

	world := &ecs.World{}
	world.AddSystem(fs)

	var pace <-chan time.Time
	dt := float32(1) / float32(cfg.Run.TickRate)
	if opts.realtime {
		ticker := time.NewTicker(time.Second / time.Duration(cfg.Run.TickRate))
		defer ticker.Stop()
		pace = ticker.C
	}

	logger.Info(ctx, "Starting flight",
		"burn", opts.burn,
		"autopilot", opts.autopilot,
		"max_ticks", maxTicks,
	)
	if !m.start() {
		return sim.Phase(), errors.New("launch rejected")
	}

	interrupted := false
	for !sim.Phase().Terminal() && sim.CurrentTick() < maxTicks && !interrupted {
		if pace != nil {
			select {
			case <-ctx.Done():
				interrupted = true
				continue
			case <-pace:
			}
		} else if ctx.Err() != nil {
			interrupted = true
			continue
		}
		world.Update(dt)
	}

	snap := sim.Snapshot()
	logger.Info(ctx, "Flight finished",
		"phase", snap.Phase.String(),
		"ticks", snap.Tick,
		"interrupted", interrupted,
		"upper_fuel", snap.Upper.Fuel,
		"upper_x", snap.Upper.Position.X,
		"status", render.StatusLine(snap),
	)

	if rec != nil {
		if err := rec.Finish(snap); err != nil {
			return snap.Phase, err
		}
		logger.Info(ctx, "Telemetry saved", "path", cfg.Telemetry.Path, "flight_id", rec.FlightID())
	}
	return snap.Phase, nil
}
