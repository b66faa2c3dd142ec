package agents

import (
	"fmt"
	"io"
	"time"

	"github.com/zeu5/smartcab-rl/core"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// RandomAgent ignores its inputs and picks a uniformly random valid action
// every tick. It is the baseline the learning agent is compared against.
type RandomAgent struct {
	env     core.Environment
	planner core.Planner
	writer  io.Writer
	rand    erand.Source

	totalReward float64
}

var _ core.Agent = &RandomAgent{}

// NewRandomAgent creates a random agent. A zero seed uses the current time.
func NewRandomAgent(env core.Environment, planner core.Planner, writer io.Writer, seed uint64) *RandomAgent {
	if writer == nil {
		writer = io.Discard
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomAgent{
		env:     env,
		planner: planner,
		writer:  writer,
		rand:    erand.NewSource(seed),
	}
}

func (r *RandomAgent) Reset(destination core.Location) {
	r.planner.RouteTo(destination)
	r.totalReward = 0.0
}

func (r *RandomAgent) ResetRun() {
	r.totalReward = 0.0
}

func (r *RandomAgent) Update(sCtx *core.StepContext) error {
	actions := r.env.ValidActions()
	weights := make([]float64, len(actions))
	for i := range weights {
		weights[i] = 1
	}
	i, ok := sampleuv.NewWeighted(weights, r.rand).Take()
	if !ok {
		return fmt.Errorf("no action to sample from %d actions", len(actions))
	}
	reward, err := r.env.Act(actions[i])
	if err != nil {
		return err
	}
	r.totalReward += reward

	if r.planner.NextWaypoint().IsArrived() {
		trial := 0
		if sCtx != nil && sCtx.TrialContext != nil {
			trial = sCtx.Trial
		}
		fmt.Fprintf(r.writer, "RandomAgent: trial %d reached destination, total reward = %.2f\n", trial, r.totalReward)
	}
	return nil
}

func (r *RandomAgent) TotalReward() float64 {
	return r.totalReward
}

type RandomAgentConstructor struct {
	Seed uint64
}

var _ core.AgentConstructor = &RandomAgentConstructor{}

func (c *RandomAgentConstructor) NewAgent(env core.Environment, planner core.Planner, writer io.Writer) core.Agent {
	return NewRandomAgent(env, planner, writer, c.Seed)
}
