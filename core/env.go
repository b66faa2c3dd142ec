package core

import (
	"context"
	"errors"
)

var (
	ErrDeadlineExceeded = errors.New("deadline exceeded")
)

// Environment is the view of the world a driving agent consumes.
type Environment interface {
	Sense() Percept
	// Deadline returns the ticks remaining in the trial.
	Deadline() int
	Act(Action) (float64, error)
	ValidActions() []Action
}

type Planner interface {
	RouteTo(Location)
	NextWaypoint() Waypoint
}

// World is the simulation driven by the runner. It owns the primary agent's
// body and the rest of the traffic.
type World interface {
	Environment
	// Reset starts a new trial and returns the primary agent's destination.
	Reset(*TrialContext) (Location, error)
	// Tick advances everything except the primary agent.
	Tick(*StepContext) error
	// Done is true once the destination is reached or the deadline enforced.
	Done() bool
	Planner() Planner
}

type WorldConstructor interface {
	// NewWorld creates the world for a run. Experiments of the same run get
	// worlds that start every trial identically.
	NewWorld(int) World
}

type TrialContext struct {
	Context context.Context
	Trial   int
	Run     int
	// StartTick is the total number of ticks run before this trial.
	StartTick int

	Trace *Trace

	err     error
	reached bool
}

func NewTrialContext(ctx context.Context) *TrialContext {
	return &TrialContext{
		Context: ctx,
		Trace:   NewTrace(),
	}
}

func (t *TrialContext) Error(err error) {
	t.err = err
}

func (t *TrialContext) Err() error {
	return t.err
}

func (t *TrialContext) IsError() bool {
	return t.err != nil && !errors.Is(t.err, ErrDeadlineExceeded)
}

// Reached marks the destination as reached within the deadline.
func (t *TrialContext) Reached() {
	t.reached = true
}

func (t *TrialContext) IsSuccess() bool {
	return t.reached
}

type StepContext struct {
	Tick int
	*TrialContext
}
