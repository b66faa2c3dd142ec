package smartcab

import (
	"errors"
	"fmt"
	"time"

	"github.com/zeu5/smartcab-rl/core"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

var (
	ErrUnknownAction = errors.New("unknown action")
)

const (
	rewardFollowedWaypoint = 2.0
	rewardOtherMove        = -0.5
	rewardIdle             = 0.0
	rewardViolation        = -1.0
	rewardArrival          = 10.0

	minTripDistance  = 4
	placementRetries = 100
)

type WorldConfig struct {
	Width          int
	Height         int
	DummyAgents    int
	LightPeriodMin int
	LightPeriodMax int
	// DeadlineFactor is the number of ticks allowed per unit of distance
	DeadlineFactor  int
	EnforceDeadline bool
	// Seed of the world randomness, 0 picks one from the clock
	Seed uint64
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Width:           8,
		Height:          6,
		DummyAgents:     3,
		LightPeriodMin:  3,
		LightPeriodMax:  5,
		DeadlineFactor:  5,
		EnforceDeadline: true,
	}
}

type vehicle struct {
	location core.Location
	heading  core.Heading
	// waypoint is the move the vehicle intends to make next
	waypoint core.Action
}

// World is a grid of intersections joined by roads that wrap around at the
// edges. Every intersection has a traffic light. One primary agent is
// tracked and scored; the remaining vehicles drive randomly.
type World struct {
	config WorldConfig

	// rand places vehicles and lights; traffic drives the dummies and is
	// reseeded from rand at every Reset
	rand    *erand.Rand
	traffic erand.Source

	lights  map[core.Location]*trafficLight
	dummies []*vehicle
	primary *vehicle
	planner *RoutePlanner

	destination core.Location
	deadline    int
	t           int
	started     bool
	reached     bool
	expired     bool

	tCtx *core.TrialContext
}

var _ core.World = &World{}

func NewWorld(config WorldConfig) *World {
	def := DefaultWorldConfig()
	if config.Width <= 0 {
		config.Width = def.Width
	}
	if config.Height <= 0 {
		config.Height = def.Height
	}
	if config.DummyAgents < 0 {
		config.DummyAgents = 0
	}
	if config.LightPeriodMin <= 0 {
		config.LightPeriodMin = def.LightPeriodMin
	}
	if config.LightPeriodMax < config.LightPeriodMin {
		config.LightPeriodMax = config.LightPeriodMin
	}
	if config.DeadlineFactor <= 0 {
		config.DeadlineFactor = def.DeadlineFactor
	}
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	w := &World{
		config:  config,
		rand:    erand.New(erand.NewSource(seed)),
		traffic: erand.NewSource(seed),
		lights:  make(map[core.Location]*trafficLight),
		dummies: make([]*vehicle, config.DummyAgents),
		primary: &vehicle{location: core.Location{X: 1, Y: 1}, heading: core.East},
	}
	for x := 1; x <= config.Width; x++ {
		for y := 1; y <= config.Height; y++ {
			northSouth := w.rand.Intn(2) == 0
			w.lights[core.Location{X: x, Y: y}] = &trafficLight{
				northSouth: northSouth,
				initial:    northSouth,
				period:     config.LightPeriodMin + w.rand.Intn(config.LightPeriodMax-config.LightPeriodMin+1),
			}
		}
	}
	for i := range w.dummies {
		w.dummies[i] = &vehicle{}
	}
	w.planner = NewRoutePlanner(w)
	return w
}

func (w *World) Planner() core.Planner {
	return w.planner
}

func (w *World) Config() WorldConfig {
	return w.config
}

func (w *World) Location() core.Location {
	return w.primary.location
}

func (w *World) Heading() core.Heading {
	return w.primary.heading
}

func (w *World) Destination() core.Location {
	return w.destination
}

// Reset places every vehicle at a random intersection and picks a start
// and destination for the primary agent.
func (w *World) Reset(tCtx *core.TrialContext) (core.Location, error) {
	if len(w.lights) < 2 {
		return core.Location{}, fmt.Errorf("grid %dx%d has no room for a trip", w.config.Width, w.config.Height)
	}
	w.tCtx = tCtx
	w.t = 0
	w.started = false
	w.reached = false
	w.expired = false
	for _, l := range w.lights {
		l.reset()
	}
	w.traffic.Seed(w.rand.Uint64())

	start := w.randomLocation()
	destination := w.randomLocation()
	for i := 0; i < placementRetries && (start == destination || manhattan(start, destination) < minTripDistance); i++ {
		start = w.randomLocation()
		destination = w.randomLocation()
	}
	for start == destination {
		destination = w.randomLocation()
	}

	w.primary.location = start
	w.primary.heading = w.randomHeading()
	w.destination = destination
	w.deadline = manhattan(start, destination) * w.config.DeadlineFactor

	for _, d := range w.dummies {
		d.location = w.randomLocation()
		d.heading = w.randomHeading()
		d.waypoint = w.randomWaypoint(w.rand)
	}

	w.planner.RouteTo(destination)
	w.primary.waypoint = w.planner.NextWaypoint().Action()
	return destination, nil
}

// Tick updates the lights, moves the dummy traffic and counts down the
// deadline. The primary agent moves afterwards through Act.
func (w *World) Tick(sCtx *core.StepContext) error {
	if w.started {
		w.t++
		w.deadline--
	}
	w.started = true
	if w.config.EnforceDeadline && w.deadline <= 0 && !w.expired {
		w.expired = true
		if w.tCtx != nil {
			w.tCtx.Error(core.ErrDeadlineExceeded)
		}
	}

	for _, l := range w.lights {
		l.update(w.t)
	}
	for _, d := range w.dummies {
		percept := w.sense(d)
		if legal(d.waypoint, percept) {
			w.move(d, d.waypoint)
			d.waypoint = w.randomWaypoint(w.traffic)
		}
	}
	return nil
}

func (w *World) Done() bool {
	return w.reached || w.expired
}

func (w *World) Sense() core.Percept {
	return w.sense(w.primary)
}

func (w *World) Deadline() int {
	return w.deadline
}

func (w *World) ValidActions() []core.Action {
	return core.ValidActions()
}

// Act moves the primary agent if the action is legal and returns its reward.
func (w *World) Act(action core.Action) (float64, error) {
	if !action.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownAction, int(action))
	}
	waypoint := w.planner.NextWaypoint()
	w.primary.waypoint = waypoint.Action()
	percept := w.sense(w.primary)
	step := &core.Step{
		Tick:     w.t,
		Location: w.primary.location,
		Heading:  w.primary.heading,
		Percept:  percept,
		Waypoint: waypoint,
		Deadline: w.deadline,
		Action:   action,
		Misc:     make(map[string]interface{}),
	}

	var reward float64
	switch {
	case !legal(action, percept):
		reward = rewardViolation
	case action == core.ActionNone:
		reward = rewardIdle
	default:
		w.move(w.primary, action)
		step.Moved = true
		if !waypoint.IsArrived() && action == waypoint.Action() {
			reward = rewardFollowedWaypoint
		} else {
			reward = rewardOtherMove
		}
	}

	if w.primary.location == w.destination && !w.reached {
		w.reached = true
		if w.deadline >= 0 {
			reward += rewardArrival
			if w.tCtx != nil {
				w.tCtx.Reached()
			}
		}
		step.Misc["reached"] = true
	}
	step.Reward = reward
	step.NextLocation = w.primary.location
	if w.tCtx != nil {
		w.tCtx.Trace.AddStep(step)
	}
	return reward, nil
}

// sense reports the light and the intended moves of other vehicles at the
// same intersection, relative to v.
func (w *World) sense(v *vehicle) core.Percept {
	percept := core.Percept{
		Light:    w.lights[v.location].colorFor(v.heading),
		Oncoming: core.ActionNone,
		Left:     core.ActionNone,
		Right:    core.ActionNone,
	}
	for _, other := range w.vehicles() {
		if other == v || other.location != v.location || other.heading == v.heading {
			continue
		}
		switch {
		case v.heading.DX*other.heading.DX+v.heading.DY*other.heading.DY == -1:
			if percept.Oncoming != core.ActionLeft {
				percept.Oncoming = other.waypoint
			}
		case other.heading == v.heading.Left():
			if percept.Right != core.ActionForward && percept.Right != core.ActionLeft {
				percept.Right = other.waypoint
			}
		default:
			if percept.Left != core.ActionForward {
				percept.Left = other.waypoint
			}
		}
	}
	return percept
}

func (w *World) vehicles() []*vehicle {
	out := make([]*vehicle, 0, len(w.dummies)+1)
	out = append(out, w.primary)
	return append(out, w.dummies...)
}

// legal applies the right-of-way rules at an intersection.
func legal(action core.Action, p core.Percept) bool {
	switch action {
	case core.ActionForward:
		return p.Light == core.LightGreen
	case core.ActionLeft:
		return p.Light == core.LightGreen && (p.Oncoming == core.ActionNone || p.Oncoming == core.ActionLeft)
	case core.ActionRight:
		return p.Light == core.LightGreen || p.Left != core.ActionForward
	}
	return true
}

func (w *World) move(v *vehicle, action core.Action) {
	switch action {
	case core.ActionNone:
		return
	case core.ActionLeft:
		v.heading = v.heading.Left()
	case core.ActionRight:
		v.heading = v.heading.Right()
	}
	v.location = core.Location{
		X: wrap(v.location.X+v.heading.DX, w.config.Width),
		Y: wrap(v.location.Y+v.heading.DY, w.config.Height),
	}
}

// wrap maps a coordinate back onto 1..size
func wrap(c, size int) int {
	c = (c - 1) % size
	if c < 0 {
		c += size
	}
	return c + 1
}

func manhattan(a, b core.Location) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (w *World) randomLocation() core.Location {
	return core.Location{
		X: 1 + w.rand.Intn(w.config.Width),
		Y: 1 + w.rand.Intn(w.config.Height),
	}
}

func (w *World) randomHeading() core.Heading {
	headings := core.Headings()
	return headings[w.rand.Intn(len(headings))]
}

// randomWaypoint samples forward, left or right uniformly.
func (w *World) randomWaypoint(src erand.Source) core.Action {
	moves := []core.Action{core.ActionForward, core.ActionLeft, core.ActionRight}
	i, ok := sampleuv.NewWeighted([]float64{1, 1, 1}, src).Take()
	if !ok {
		return core.ActionForward
	}
	return moves[i]
}

type WorldConstructor struct {
	config WorldConfig
}

var _ core.WorldConstructor = &WorldConstructor{}

// NewWorldConstructor fixes the seed up front, from the clock when it is 0,
// so every experiment sees the same worlds.
func NewWorldConstructor(config WorldConfig) *WorldConstructor {
	if config.Seed == 0 {
		config.Seed = uint64(time.Now().UnixNano())
	}
	return &WorldConstructor{config: config}
}

// NewWorld offsets the seed by the run, so runs differ while experiments of
// one run share their trial layouts.
func (c *WorldConstructor) NewWorld(run int) core.World {
	config := c.config
	config.Seed += uint64(run)
	return NewWorld(config)
}
