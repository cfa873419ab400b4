package engine

import (
	"math"

	"github.com/roach88/camod/internal/model"
	"github.com/roach88/camod/internal/signal"
	"github.com/roach88/camod/internal/units"
)

// MaxRows bounds the output table of a single run.
const MaxRows = 50_000_000

// Config is everything one run needs. The parameter overlay has already
// been applied by the caller.
type Config struct {
	Model  model.ReactionModel
	Signal *signal.Signal

	StartTime float64
	EndTime   float64
	Timestep  float64

	// Volume is the system volume in liters.
	Volume float64

	// InitialConcentrations are in nmol/l, in Model.Species() order.
	InitialConcentrations []float64

	// Kinetics are the parameters handed to Model.Bind.
	Kinetics model.ParamSet

	Seed uint64
}

// prepared is a validated run: immutable inputs plus freshly allocated
// state and output. Nothing in it is shared with another run.
type prepared struct {
	cfg        Config
	species    []string
	reactions  int
	conv       units.Converter
	propensity model.PropensityFunc
	rows       int

	counts       []uint64
	drivingIndex int
}

// prepare validates cfg and derives the initial state.
// Every failure is a configuration RunError.
func prepare(cfg Config) (*prepared, error) {
	start := cfg.StartTime

	if cfg.Model == nil {
		return nil, newConfigError(start, "model is required")
	}
	if cfg.Signal == nil || cfg.Signal.Len() < 2 {
		return nil, newConfigError(start, "driving signal needs at least 2 samples")
	}
	if !finite(cfg.StartTime) || !finite(cfg.EndTime) {
		return nil, newConfigError(start, "start and end time must be finite")
	}
	if !finite(cfg.Timestep) || cfg.Timestep <= 0 {
		return nil, newConfigError(start, "timestep must be > 0, got %v", cfg.Timestep)
	}
	if cfg.EndTime < cfg.StartTime {
		return nil, newConfigError(start, "end time %v before start time %v", cfg.EndTime, cfg.StartTime)
	}
	if cfg.StartTime < cfg.Signal.Start() {
		return nil, newConfigError(start, "start time %v before first signal sample %v", cfg.StartTime, cfg.Signal.Start())
	}
	if cfg.EndTime > cfg.Signal.End() {
		return nil, newConfigError(start, "end time %v beyond last signal sample %v", cfg.EndTime, cfg.Signal.End())
	}

	if n := gridRows(cfg.StartTime, cfg.EndTime, cfg.Timestep); !(n <= MaxRows) {
		return nil, newConfigError(start, "output would have %g rows (max %d)", n, MaxRows)
	}
	rows := RowCount(cfg.StartTime, cfg.EndTime, cfg.Timestep)

	conv, err := units.NewConverter(cfg.Volume)
	if err != nil {
		return nil, wrapConfigError(start, "invalid volume", err)
	}

	species := cfg.Model.Species()
	if len(cfg.InitialConcentrations) != len(species) {
		return nil, newConfigError(start, "%d initial concentrations for %d species of model %s",
			len(cfg.InitialConcentrations), len(species), cfg.Model.Name())
	}
	counts := make([]uint64, len(species))
	for i, c := range cfg.InitialConcentrations {
		n, err := conv.ToCount(c)
		if err != nil {
			return nil, wrapConfigError(start, "initial concentration of "+species[i], err)
		}
		counts[i] = n
	}

	reactions := cfg.Model.ReactionCount()
	if reactions < 1 {
		return nil, newConfigError(start, "model %s declares no reactions", cfg.Model.Name())
	}
	propensity, err := cfg.Model.Bind(cfg.Kinetics)
	if err != nil {
		return nil, wrapConfigError(start, "bind kinetic parameters", err)
	}

	return &prepared{
		cfg:          cfg,
		species:      species,
		reactions:    reactions,
		conv:         conv,
		propensity:   propensity,
		rows:         rows,
		counts:       counts,
		drivingIndex: cfg.Signal.IndexAt(cfg.StartTime),
	}, nil
}

// Validate checks cfg without running it.
func Validate(cfg Config) error {
	_, err := prepare(cfg)
	return err
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
