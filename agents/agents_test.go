package agents

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/zeu5/smartcab-rl/core"
)

type scriptedEnv struct {
	percept  core.Percept
	rewards  []float64
	deadline int
	err      error

	actions []core.Action
}

func (e *scriptedEnv) Sense() core.Percept { return e.percept }
func (e *scriptedEnv) Deadline() int { return e.deadline }
func (e *scriptedEnv) ValidActions() []core.Action { return core.ValidActions() }

func (e *scriptedEnv) Act(a core.Action) (float64, error) {
	if e.err != nil {
		return 0, e.err
	}
	e.actions = append(e.actions, a)
	if len(e.rewards) == 0 {
		return 0, nil
	}
	r := e.rewards[0]
	if len(e.rewards) > 1 {
		e.rewards = e.rewards[1:]
	}
	return r, nil
}

// scriptedPlanner hands out waypoints in order and repeats the last one.
type scriptedPlanner struct {
	waypoints   []core.Waypoint
	destination core.Location
	routed      int
}

func (p *scriptedPlanner) RouteTo(l core.Location) {
	p.destination = l
	p.routed++
}

func (p *scriptedPlanner) NextWaypoint() core.Waypoint {
	w := p.waypoints[0]
	if len(p.waypoints) > 1 {
		p.waypoints = p.waypoints[1:]
	}
	return w
}

var redAndEmpty = core.Percept{
	Light:    core.LightRed,
	Oncoming: core.ActionNone,
	Left:     core.ActionNone,
	Right:    core.ActionNone,
}

func newTestAgent(env *scriptedEnv, waypoints ...core.Waypoint) (*LearningAgent, *scriptedPlanner, *bytes.Buffer) {
	planner := &scriptedPlanner{waypoints: waypoints}
	buf := new(bytes.Buffer)
	agent := NewLearningAgent(env, planner, buf)
	agent.Reset(core.Location{X: 3, Y: 3})
	return agent, planner, buf
}

func stepCtx(tick int) *core.StepContext {
	return &core.StepContext{Tick: tick, TrialContext: core.NewTrialContext(context.Background())}
}

func TestQTableFullEnumeration(t *testing.T) {
	actions := core.ValidActions()
	q := NewQTable(actions)

	n := len(actions)
	expected := 2 * n * n * n * n * n
	if q.Len() != expected {
		t.Fatalf("expected %d entries, got %d", expected, q.Len())
	}
	if q.KnownEntries() != 0 {
		t.Fatalf("expected no known entries, got %d", q.KnownEntries())
	}

	for _, light := range core.Lights() {
		for _, oncoming := range actions {
			for _, left := range actions {
				for _, right := range actions {
					for _, waypoint := range actions {
						state := LearningState{Light: light, Oncoming: oncoming, Left: left, Right: right, Waypoint: waypoint}
						for _, action := range actions {
							e, err := q.Lookup(state, action)
							if err != nil {
								t.Fatalf("lookup %s %s: %v", state, action, err)
							}
							if e.IsKnown() || !math.IsInf(e.Float(), -1) {
								t.Fatalf("expected -inf for %s %s, got %s", state, action, e)
							}
						}
					}
				}
			}
		}
	}
}

func TestQTableLookupOutsideStateSpace(t *testing.T) {
	q := NewQTable(core.ValidActions())
	state := LearningState{Light: core.LightGreen, Waypoint: core.Action(9)}

	_, err := q.Lookup(state, core.ActionNone)
	if !errors.Is(err, ErrStateSpaceViolation) {
		t.Fatalf("expected state space violation, got %v", err)
	}
	if !errors.Is(err, core.ErrFatal) {
		t.Fatalf("expected violation to be fatal, got %v", err)
	}
	if err := q.Update(state, core.ActionNone, 1); !errors.Is(err, ErrStateSpaceViolation) {
		t.Fatalf("expected update to fail, got %v", err)
	}
	if q.Len() != 2*4*4*4*4*4 {
		t.Fatalf("table grew to %d entries", q.Len())
	}
}

func TestQTableUpdateLastWriteWins(t *testing.T) {
	q := NewQTable(core.ValidActions())
	state := Encode(redAndEmpty, core.WaypointTo(core.ActionLeft))

	for _, v := range []float64{1.5, -3, 7.25} {
		if err := q.Update(state, core.ActionRight, v); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	e, _ := q.Lookup(state, core.ActionRight)
	if e.Float() != 7.25 {
		t.Fatalf("expected 7.25, got %s", e)
	}
	if q.KnownEntries() != 1 {
		t.Fatalf("expected one known entry, got %d", q.KnownEntries())
	}
}

func TestEncodeArrivedWaypoint(t *testing.T) {
	s := Encode(redAndEmpty, core.Arrived)
	if s.Waypoint != core.ActionNone {
		t.Fatalf("expected arrived to encode as none, got %s", s.Waypoint)
	}
	if s != Encode(redAndEmpty, core.WaypointTo(core.ActionNone)) {
		t.Fatalf("expected equal states")
	}
	if s == Encode(redAndEmpty, core.WaypointTo(core.ActionForward)) {
		t.Fatalf("expected different states for different waypoints")
	}
}

func TestSelectTieBreakFirstInScanOrder(t *testing.T) {
	q := NewQTable(core.ValidActions())
	waypoint := core.WaypointTo(core.ActionForward)
	state := Encode(redAndEmpty, waypoint)

	q.Update(state, core.ActionRight, 1)
	q.Update(state, core.ActionLeft, 1)
	for i := 0; i < 5; i++ {
		action, estimate, err := Select(q, state, waypoint)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if action != core.ActionLeft {
			t.Fatalf("expected left, got %s", action)
		}
		if estimate.Float() != 1 {
			t.Fatalf("expected estimate 1, got %s", estimate)
		}
	}

	q.Update(state, core.ActionNone, 1)
	if action, _, _ := Select(q, state, waypoint); action != core.ActionNone {
		t.Fatalf("expected none, got %s", action)
	}
}

func TestSelectZeroIsNotNegative(t *testing.T) {
	q := NewQTable(core.ValidActions())
	waypoint := core.WaypointTo(core.ActionForward)
	state := Encode(redAndEmpty, waypoint)
	q.Update(state, core.ActionRight, 0)

	action, estimate, _ := Select(q, state, waypoint)
	if action != core.ActionRight || estimate.Float() != 0 {
		t.Fatalf("expected right with 0, got %s with %s", action, estimate)
	}
}

func TestSelectFallsBackToWaypoint(t *testing.T) {
	q := NewQTable(core.ValidActions())
	waypoint := core.WaypointTo(core.ActionRight)
	state := Encode(redAndEmpty, waypoint)

	action, estimate, err := Select(q, state, waypoint)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if action != core.ActionRight {
		t.Fatalf("expected waypoint action right, got %s", action)
	}
	if !math.IsInf(estimate.Float(), -1) {
		t.Fatalf("expected raw -inf estimate, got %s", estimate)
	}

	q.Update(state, core.ActionNone, -0.5)
	q.Update(state, core.ActionForward, -2)
	action, estimate, _ = Select(q, state, waypoint)
	if action != core.ActionRight {
		t.Fatalf("expected waypoint action right, got %s", action)
	}
	if estimate.Float() != -0.5 {
		t.Fatalf("expected raw estimate -0.5, got %s", estimate)
	}
	if estimate.Clamped() != 0 {
		t.Fatalf("expected clamped estimate 0, got %f", estimate.Clamped())
	}

	if action, _, _ := Select(q, state, core.Arrived); action != core.ActionNone {
		t.Fatalf("expected none at destination, got %s", action)
	}
}

func TestBlend(t *testing.T) {
	if got := Blend(-1, 0, 0, 1, 1); got != -2 {
		t.Fatalf("expected -2, got %f", got)
	}
	got := Blend(2, 1, 3, 0.8, 0.8)
	if math.Abs(got-4.08) > 1e-9 {
		t.Fatalf("expected 4.08, got %f", got)
	}
}

func TestUpdateRedLightScenario(t *testing.T) {
	env := &scriptedEnv{percept: redAndEmpty, rewards: []float64{-1.0}}
	forward := core.WaypointTo(core.ActionForward)
	agent, _, _ := newTestAgent(env, forward)

	if err := agent.Update(stepCtx(0)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(env.actions) != 1 || env.actions[0] != core.ActionForward {
		t.Fatalf("expected the waypoint to be taken, got %v", env.actions)
	}
	e, _ := agent.Table().Lookup(Encode(redAndEmpty, forward), core.ActionForward)
	if e.Float() != -2.0 {
		t.Fatalf("expected table entry -2, got %s", e)
	}
	if agent.TotalReward() != -2.0 {
		t.Fatalf("expected total reward -2, got %f", agent.TotalReward())
	}
	if agent.Alpha() != 0.8 || agent.Gamma() != 0.8 {
		t.Fatalf("expected alpha and gamma 0.8, got %f %f", agent.Alpha(), agent.Gamma())
	}
}

func TestUpdateUsesBestEstimate(t *testing.T) {
	env := &scriptedEnv{percept: redAndEmpty, rewards: []float64{2.0}}
	forward := core.WaypointTo(core.ActionForward)
	agent, _, _ := newTestAgent(env, forward)
	state := Encode(redAndEmpty, forward)
	agent.Table().Update(state, core.ActionLeft, 4)

	if err := agent.Update(stepCtx(0)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if env.actions[0] != core.ActionLeft {
		t.Fatalf("expected left, got %s", env.actions[0])
	}
	// (2 - 4) * 2 + 4 with the successor being the same state
	e, _ := agent.Table().Lookup(state, core.ActionLeft)
	if e.Float() != 0 {
		t.Fatalf("expected 0, got %s", e)
	}
}

func TestUpdateClampsSuccessorEstimate(t *testing.T) {
	env := &scriptedEnv{percept: redAndEmpty, rewards: []float64{1.0}}
	forward := core.WaypointTo(core.ActionForward)
	left := core.WaypointTo(core.ActionLeft)
	agent, _, _ := newTestAgent(env, forward, left)

	next := Encode(redAndEmpty, left)
	for _, a := range core.ValidActions() {
		agent.Table().Update(next, a, -5)
	}

	if err := agent.Update(stepCtx(0)); err != nil {
		t.Fatalf("update: %v", err)
	}
	e, _ := agent.Table().Lookup(Encode(redAndEmpty, forward), core.ActionForward)
	if e.Float() != 2.0 {
		t.Fatalf("expected 2, got %s", e)
	}
}

func TestDecayAndReset(t *testing.T) {
	env := &scriptedEnv{percept: redAndEmpty, rewards: []float64{0.5}}
	agent, planner, _ := newTestAgent(env, core.WaypointTo(core.ActionLeft))

	expected := 1.0
	for n := 0; n < 6; n++ {
		if err := agent.Update(stepCtx(n)); err != nil {
			t.Fatalf("update %d: %v", n, err)
		}
		expected *= 0.8
		if agent.Alpha() != expected || agent.Gamma() != expected {
			t.Fatalf("tick %d: expected %f, got alpha %f gamma %f", n, expected, agent.Alpha(), agent.Gamma())
		}
	}
	if math.Abs(agent.Alpha()-math.Pow(0.8, 6)) > 1e-12 {
		t.Fatalf("expected 0.8^6, got %f", agent.Alpha())
	}

	destination := core.Location{X: 7, Y: 2}
	agent.Reset(destination)
	agent.Reset(destination)
	if agent.Alpha() != 1 || agent.Gamma() != 1 || agent.TotalReward() != 0 {
		t.Fatalf("expected a clean trial, got alpha %f gamma %f reward %f", agent.Alpha(), agent.Gamma(), agent.TotalReward())
	}
	if planner.destination != destination {
		t.Fatalf("expected planner to route to %s, got %s", destination, planner.destination)
	}
	if planner.routed != 3 {
		t.Fatalf("expected three routes, got %d", planner.routed)
	}
}

func TestResetRunForgetsTable(t *testing.T) {
	env := &scriptedEnv{percept: redAndEmpty, rewards: []float64{-1.0}}
	agent, _, _ := newTestAgent(env, core.WaypointTo(core.ActionForward))
	for n := 0; n < 3; n++ {
		if err := agent.Update(stepCtx(n)); err != nil {
			t.Fatalf("update %d: %v", n, err)
		}
	}
	if agent.Table().KnownEntries() == 0 {
		t.Fatalf("expected the agent to have learned something")
	}

	agent.Reset(core.Location{X: 1, Y: 1})
	if agent.Table().KnownEntries() == 0 {
		t.Fatalf("expected estimates to survive a trial reset")
	}

	agent.ResetRun()
	if agent.Table().KnownEntries() != 0 || agent.Table().Len() != 2*4*4*4*4*4 {
		t.Fatalf("expected a fully enumerated unknown table, got %d/%d", agent.Table().KnownEntries(), agent.Table().Len())
	}
	if agent.Alpha() != 1 || agent.Gamma() != 1 || agent.TotalReward() != 0 {
		t.Fatalf("expected a clean run, got alpha %f gamma %f reward %f", agent.Alpha(), agent.Gamma(), agent.TotalReward())
	}
}

func TestUpdateReportsArrival(t *testing.T) {
	env := &scriptedEnv{percept: redAndEmpty, rewards: []float64{12}, deadline: 4}
	agent, _, buf := newTestAgent(env, core.WaypointTo(core.ActionForward), core.Arrived)

	if err := agent.Update(stepCtx(0)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !strings.Contains(buf.String(), "reached destination") {
		t.Fatalf("expected an arrival diagnostic, got %q", buf.String())
	}
}

func TestUpdatePropagatesEnvironmentErrors(t *testing.T) {
	envErr := errors.New("malformed percept")
	env := &scriptedEnv{percept: redAndEmpty, err: envErr}
	agent, _, _ := newTestAgent(env, core.WaypointTo(core.ActionForward))

	if err := agent.Update(stepCtx(0)); !errors.Is(err, envErr) {
		t.Fatalf("expected environment error, got %v", err)
	}
	if agent.Alpha() != 1 {
		t.Fatalf("expected no decay on a failed tick, got %f", agent.Alpha())
	}
}

func TestRandomAgentActsWithinValidActions(t *testing.T) {
	env := &scriptedEnv{percept: redAndEmpty, rewards: []float64{-0.5}}
	planner := &scriptedPlanner{waypoints: []core.Waypoint{core.WaypointTo(core.ActionForward)}}
	agent := NewRandomAgent(env, planner, nil, 42)
	agent.Reset(core.Location{X: 1, Y: 1})

	for i := 0; i < 20; i++ {
		if err := agent.Update(stepCtx(i)); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	for _, a := range env.actions {
		if !a.Valid() {
			t.Fatalf("invalid action %d", int(a))
		}
	}
	if agent.TotalReward() != -10 {
		t.Fatalf("expected -10, got %f", agent.TotalReward())
	}
}
