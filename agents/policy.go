package agents

import "github.com/zeu5/smartcab-rl/core"

// Select returns the action with the strictly greatest estimate for state,
// first in scan order on ties. When no action has a non-negative estimate the
// waypoint's action is returned instead. The estimate is always the raw best
// value found by the scan.
func Select(q *QTable, state LearningState, waypoint core.Waypoint) (core.Action, Estimate, error) {
	best := Unknown()
	bestAction := waypoint.Action()
	for _, action := range q.Actions() {
		e, err := q.Lookup(state, action)
		if err != nil {
			return bestAction, best, err
		}
		if e.Greater(best) {
			best = e
			bestAction = action
		}
	}

	// nothing worth at least zero is known: follow the planner
	if best.Negative() {
		bestAction = waypoint.Action()
	}
	return bestAction, best, nil
}
