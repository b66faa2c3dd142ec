package common

import (
	"errors"
	"fmt"
	"path"

	"github.com/spf13/pflag"
	"github.com/zeu5/smartcab-rl/util"
)

type Flags struct {
	WorldFlags
	SavePath string
	RunFlags
	Parallelism int
	Debug       bool
	Render      bool
}

type WorldFlags struct {
	Width           int
	Height          int
	DummyAgents     int
	LightPeriodMin  int
	LightPeriodMax  int
	DeadlineFactor  int
	EnforceDeadline bool
	Seed            uint64
}

type RunFlags struct {
	NumRuns              int
	Trials               int
	MaxTicks             int
	MaxConsecutiveErrors int
}

func DefaultFlags() *Flags {
	return &Flags{
		WorldFlags: WorldFlags{
			Width:           8,
			Height:          6,
			DummyAgents:     3,
			LightPeriodMin:  3,
			LightPeriodMax:  5,
			DeadlineFactor:  5,
			EnforceDeadline: true,
		},
		SavePath: "results",
		RunFlags: RunFlags{
			NumRuns:              1,
			Trials:               100,
			MaxTicks:             500,
			MaxConsecutiveErrors: 20,
		},
		Parallelism: 2,
		Debug:       false,
		Render:      false,
	}
}

// AddFlags binds every field to fs, using the current values as defaults.
func (f *Flags) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.SavePath, "save-path", f.SavePath, "Path to save results")
	fs.IntVar(&f.Parallelism, "parallelism", f.Parallelism, "Number of experiments run in parallel")
	fs.BoolVar(&f.Debug, "debug", f.Debug, "Save traces of the last trials")
	fs.BoolVar(&f.Render, "render", f.Render, "Draw the routes of the last trials as PNG images")

	fs.IntVar(&f.Width, "width", f.Width, "Number of intersections east-west")
	fs.IntVar(&f.Height, "height", f.Height, "Number of intersections north-south")
	fs.IntVar(&f.DummyAgents, "dummy-agents", f.DummyAgents, "Number of other vehicles")
	fs.IntVar(&f.LightPeriodMin, "light-period-min", f.LightPeriodMin, "Minimum ticks between light changes")
	fs.IntVar(&f.LightPeriodMax, "light-period-max", f.LightPeriodMax, "Maximum ticks between light changes")
	fs.IntVar(&f.DeadlineFactor, "deadline-factor", f.DeadlineFactor, "Ticks allowed per unit of trip distance")
	fs.BoolVar(&f.EnforceDeadline, "enforce-deadline", f.EnforceDeadline, "End trials when the deadline runs out")
	fs.Uint64Var(&f.Seed, "seed", f.Seed, "World seed, 0 for time based")

	fs.IntVar(&f.NumRuns, "num-runs", f.NumRuns, "Number of runs")
	fs.IntVar(&f.Trials, "trials", f.Trials, "Number of trials per run")
	fs.IntVar(&f.MaxTicks, "max-ticks", f.MaxTicks, "Upper bound on ticks per trial, 0 for none")
	fs.IntVar(&f.MaxConsecutiveErrors, "max-consecutive-errors", f.MaxConsecutiveErrors, "Maximum number of consecutive trial errors")
}

func (f *Flags) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("grid must be at least 1x1 (got %dx%d)", f.Width, f.Height)
	}
	if f.Width*f.Height < 2 {
		return errors.New("grid needs at least two intersections")
	}
	if f.DummyAgents < 0 {
		return fmt.Errorf("dummy agents must not be negative (got %d)", f.DummyAgents)
	}
	if f.LightPeriodMin <= 0 || f.LightPeriodMax < f.LightPeriodMin {
		return fmt.Errorf("invalid light period range [%d, %d]", f.LightPeriodMin, f.LightPeriodMax)
	}
	if f.DeadlineFactor <= 0 {
		return fmt.Errorf("deadline factor must be positive (got %d)", f.DeadlineFactor)
	}
	if f.NumRuns <= 0 || f.Trials <= 0 {
		return fmt.Errorf("runs and trials must be positive (got %d, %d)", f.NumRuns, f.Trials)
	}
	if f.MaxTicks < 0 {
		return fmt.Errorf("max ticks must not be negative (got %d)", f.MaxTicks)
	}
	if !f.EnforceDeadline && f.MaxTicks == 0 {
		return errors.New("max ticks is required when the deadline is not enforced")
	}
	return nil
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}
