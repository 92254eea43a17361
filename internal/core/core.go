// Package core assembles the application: one Context object owns every
// component and is passed by reference to all consumers. No component
// keeps module-level state, so a session is created at startup and torn
// down cleanly at exit.
package core

import (
	"fmt"
	"log/slog"

	"github.com/voltflow/voltflow-go/internal/calc"
	"github.com/voltflow/voltflow-go/internal/catalog"
	"github.com/voltflow/voltflow-go/internal/conf"
	"github.com/voltflow/voltflow-go/internal/logging"
	"github.com/voltflow/voltflow-go/internal/observability"
	"github.com/voltflow/voltflow-go/internal/optimizer"
	"github.com/voltflow/voltflow-go/internal/syncer"
	"github.com/voltflow/voltflow-go/internal/tracker"
)

// Context is the composition root: every long-lived component of a
// session, wired once.
type Context struct {
	Settings    *conf.Settings
	Catalog     *catalog.Catalog
	Engine      *calc.Engine
	Evaluator   *calc.CachedEvaluator
	Optimizer   *optimizer.Optimizer
	Tracker     *tracker.Tracker
	Coordinator *syncer.Coordinator
	Metrics     *observability.Metrics
	Logger      *slog.Logger

	closers []func() error
}

// NewContext wires the full component graph from the loaded settings.
func NewContext(settings *conf.Settings) (*Context, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings are required")
	}

	logger := logging.Structured()
	if logger == nil {
		logging.Init()
		logger = logging.Structured()
	}

	ctx := &Context{
		Settings: settings,
		Logger:   logger,
	}

	if settings.Main.Log.Enabled {
		fileLogger, closeFunc, err := logging.NewFileLogger(
			settings.Main.Log.Path,
			settings.Main.Name,
			slog.LevelInfo,
			logging.Rotation{
				MaxSizeMB:  settings.Main.Log.MaxSizeMB,
				MaxBackups: settings.Main.Log.MaxBackups,
				MaxAgeDays: settings.Main.Log.MaxAgeDays,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to set up file logging: %w", err)
		}
		ctx.Logger = fileLogger
		ctx.closers = append(ctx.closers, closeFunc)
	}

	cat := catalog.Default()
	if settings.Catalog.Path != "" {
		loaded, err := catalog.LoadFile(settings.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load conductor catalog: %w", err)
		}
		cat = loaded
	}
	ctx.Catalog = cat

	metrics, err := observability.NewMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	ctx.Metrics = metrics

	limits := calc.Limits{
		BranchPercent:  settings.Compliance.BranchMaxDropPercent,
		FeederPercent:  settings.Compliance.FeederMaxDropPercent,
		ServicePercent: settings.Compliance.ServiceMaxDropPercent,
		MotorPercent:   settings.Compliance.MotorMaxDropPercent,
	}
	ctx.Engine = calc.NewEngine(cat, limits)
	ctx.Evaluator = calc.NewCachedEvaluator(ctx.Engine, ctx.Metrics)
	ctx.Optimizer = optimizer.New(ctx.Engine)

	ctx.Tracker = tracker.New(ctx.Logger.With("service", "tracker"))
	// Any relevant circuit edit drops the memoized results.
	ctx.Tracker.OnRecalculationNeeded(func(circuitID, property string) {
		ctx.Evaluator.Invalidate()
	})

	ctx.Coordinator = syncer.New(settings.Sync, ctx.Metrics,
		ctx.Logger.With("service", "syncer"))

	ctx.Logger.Info("session context created",
		"catalog_sizes", cat.Len(),
		"instance", settings.Main.Name,
	)
	return ctx, nil
}

// Economics derives the cost comparison parameters from the settings.
func (c *Context) Economics() optimizer.Economics {
	econ := optimizer.DefaultEconomics()
	e := c.Settings.Economics
	if e.EnergyPricePerKWh > 0 {
		econ.EnergyPricePerKWh = e.EnergyPricePerKWh
	}
	if e.OperatingHoursPerYear > 0 {
		econ.OperatingHoursPerYear = e.OperatingHoursPerYear
	}
	if e.AnalysisYears > 0 {
		econ.AnalysisYears = e.AnalysisYears
	}
	if e.PaybackHorizonYears > 0 {
		econ.PaybackHorizonYears = e.PaybackHorizonYears
	}
	if e.BaseInstallationCost > 0 {
		econ.BaseInstallationCost = e.BaseInstallationCost
	}
	if e.BaselineAreaCMil > 0 {
		econ.BaselineAreaCMil = e.BaselineAreaCMil
	}
	if e.CopperCostPerCMilFt > 0 {
		econ.MaterialCostPerCMilFt[catalog.MaterialCopper] = e.CopperCostPerCMilFt
	}
	if e.AluminumCostPerCMilFt > 0 {
		econ.MaterialCostPerCMilFt[catalog.MaterialAluminum] = e.AluminumCostPerCMilFt
	}
	return econ
}

// Close tears the session down, closing file loggers.
func (c *Context) Close() error {
	var firstErr error
	for _, closeFunc := range c.closers {
		if err := closeFunc(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
