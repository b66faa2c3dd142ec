package agents

import (
	"fmt"
	"io"

	"github.com/zeu5/smartcab-rl/core"
)

const (
	// decay is applied to alpha and gamma after every decision in a trial
	decay = 0.8
	// successor estimates below this are treated as no information
	sentinelThreshold = -1e9
)

// LearningAgent drives with a tabular value estimate over LearningStates.
// Alpha and gamma start at 1 every trial and decay after every tick.
type LearningAgent struct {
	env     core.Environment
	planner core.Planner
	qTable  *QTable
	writer  io.Writer

	alpha       float64
	gamma       float64
	totalReward float64

	state        LearningState
	nextWaypoint core.Waypoint
}

var _ core.Agent = &LearningAgent{}

func NewLearningAgent(env core.Environment, planner core.Planner, writer io.Writer) *LearningAgent {
	if writer == nil {
		writer = io.Discard
	}
	return &LearningAgent{
		env:     env,
		planner: planner,
		qTable:  NewQTable(env.ValidActions()),
		writer:  writer,
		alpha:   1.0,
		gamma:   1.0,
	}
}

// Reset routes to the new destination and restarts the trial-local parameters.
func (l *LearningAgent) Reset(destination core.Location) {
	l.planner.RouteTo(destination)
	l.alpha = 1.0
	l.gamma = 1.0
	l.totalReward = 0.0
}

// ResetRun forgets every estimate, leaving the table fully enumerated and
// unknown.
func (l *LearningAgent) ResetRun() {
	l.qTable.Initialize()
	l.alpha = 1.0
	l.gamma = 1.0
	l.totalReward = 0.0
}

// Update makes one decision, acts on it and learns from the outcome.
func (l *LearningAgent) Update(sCtx *core.StepContext) error {
	l.nextWaypoint = l.planner.NextWaypoint()
	inputs := l.env.Sense()
	deadline := l.env.Deadline()
	l.state = Encode(inputs, l.nextWaypoint)

	action, estimate, err := Select(l.qTable, l.state, l.nextWaypoint)
	if err != nil {
		return err
	}
	qval := estimate.Clamped()

	reward, err := l.env.Act(action)
	if err != nil {
		return err
	}

	nextWaypoint := l.planner.NextWaypoint()
	statePrime := Encode(l.env.Sense(), nextWaypoint)
	_, qPrimeRaw, err := Select(l.qTable, statePrime, nextWaypoint)
	if err != nil {
		return err
	}
	qPrime := qPrimeRaw.Clamped()
	if qPrimeRaw.Float() < sentinelThreshold {
		qPrime = 0.0
	}

	learned := Blend(reward, qval, qPrime, l.alpha, l.gamma)
	if err := l.qTable.Update(l.state, action, learned); err != nil {
		return err
	}
	l.totalReward += learned

	l.alpha *= decay
	l.gamma *= decay

	if nextWaypoint.IsArrived() {
		trial := 0
		if sCtx != nil && sCtx.TrialContext != nil {
			trial = sCtx.Trial
		}
		fmt.Fprintf(l.writer, "LearningAgent: trial %d reached destination, deadline = %d, total reward = %.2f\n", trial, deadline, l.totalReward)
	}
	return nil
}

// Blend combines the observed reward with the current and successor
// estimates. The middle step compounds the correction with itself, which
// gives (reward - alpha*qval)*(1+alpha) + alpha*gamma*qPrime rather than the
// usual temporal-difference target.
func Blend(reward, qval, qPrime, alpha, gamma float64) float64 {
	r := reward - alpha*qval
	r = r + alpha*r
	r = r + alpha*gamma*qPrime
	return r
}

func (l *LearningAgent) Alpha() float64 {
	return l.alpha
}

func (l *LearningAgent) Gamma() float64 {
	return l.gamma
}

// TotalReward is the sum of learned values written during the current trial.
func (l *LearningAgent) TotalReward() float64 {
	return l.totalReward
}

func (l *LearningAgent) Table() *QTable {
	return l.qTable
}

type LearningAgentConstructor struct{}

var _ core.AgentConstructor = &LearningAgentConstructor{}

func NewLearningAgentConstructor() *LearningAgentConstructor {
	return &LearningAgentConstructor{}
}

func (c *LearningAgentConstructor) NewAgent(env core.Environment, planner core.Planner, writer io.Writer) core.Agent {
	return NewLearningAgent(env, planner, writer)
}
