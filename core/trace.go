package core

import "sync"

// Step is one action of the primary agent as seen by the world.
type Step struct {
	Tick     int
	Location Location
	Heading  Heading
	Percept  Percept
	Waypoint Waypoint
	Deadline int
	Action   Action
	Reward   float64
	Moved    bool

	// NextLocation is where the agent is after the action
	NextLocation Location

	Misc map[string]interface{}
}

type Trace struct {
	mtx   *sync.Mutex
	steps []*Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0),
		mtx:   &sync.Mutex{},
	}
}

func (t *Trace) AddStep(s *Step) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[i]
}

func (t *Trace) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.steps)
}

// Last returns the most recent step, nil on an empty trace.
func (t *Trace) Last() *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if len(t.steps) == 0 {
		return nil
	}
	return t.steps[len(t.steps)-1]
}

// TotalReward sums the environment rewards of all steps.
func (t *Trace) TotalReward() float64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	total := 0.0
	for _, s := range t.steps {
		total += s.Reward
	}
	return total
}
