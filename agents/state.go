package agents

import (
	"fmt"

	"github.com/zeu5/smartcab-rl/core"
)

// LearningState is the value table's state key: what the agent senses plus
// where the planner wants it to go. The deadline is not part of the key.
type LearningState struct {
	Light    core.Light
	Oncoming core.Action
	Left     core.Action
	Right    core.Action
	Waypoint core.Action
}

// Encode reduces a percept and waypoint to a LearningState. The Arrived
// waypoint encodes as ActionNone.
func Encode(p core.Percept, w core.Waypoint) LearningState {
	return LearningState{
		Light:    p.Light,
		Oncoming: p.Oncoming,
		Left:     p.Left,
		Right:    p.Right,
		Waypoint: w.Action(),
	}
}

func (s LearningState) String() string {
	return fmt.Sprintf("((%s, %s, %s, %s), %s)", s.Light, s.Oncoming, s.Left, s.Right, s.Waypoint)
}
