package agents

import (
	"fmt"
	"math"

	"github.com/zeu5/smartcab-rl/core"
)

// ErrStateSpaceViolation is returned when a (state, action) pair reaches the
// table without having been enumerated at construction.
var ErrStateSpaceViolation = fmt.Errorf("%w: state space violation", core.ErrFatal)

// Estimate is a value table entry. An unknown estimate has never been
// written and orders below every known value.
type Estimate struct {
	value float64
	known bool
}

func Unknown() Estimate {
	return Estimate{}
}

func Known(v float64) Estimate {
	return Estimate{value: v, known: true}
}

func (e Estimate) IsKnown() bool {
	return e.known
}

// Float returns the estimate as a number, negative infinity when unknown.
func (e Estimate) Float() float64 {
	if !e.known {
		return math.Inf(-1)
	}
	return e.value
}

// Greater reports whether e is strictly greater than o.
func (e Estimate) Greater(o Estimate) bool {
	if !e.known {
		return false
	}
	if !o.known {
		return true
	}
	return e.value > o.value
}

// Negative is true for unknown estimates and known values below zero.
func (e Estimate) Negative() bool {
	return !e.known || e.value < 0
}

// Clamped returns the estimate with negative and unknown values mapped to 0.
func (e Estimate) Clamped() float64 {
	if e.Negative() {
		return 0.0
	}
	return e.value
}

func (e Estimate) String() string {
	if !e.known {
		return "-inf"
	}
	return fmt.Sprintf("%.4f", e.value)
}

// QTable maps (LearningState, Action) to an Estimate. Every key is created
// by Initialize; the table never grows afterwards.
type QTable struct {
	table   map[LearningState]map[core.Action]Estimate
	actions []core.Action
}

func NewQTable(actions []core.Action) *QTable {
	q := &QTable{
		actions: append([]core.Action(nil), actions...),
	}
	q.Initialize()
	return q
}

// Initialize enumerates light x oncoming x left x right x waypoint and sets
// every action entry to unknown.
func (q *QTable) Initialize() {
	q.table = make(map[LearningState]map[core.Action]Estimate)
	for _, light := range core.Lights() {
		for _, oncoming := range q.actions {
			for _, left := range q.actions {
				for _, right := range q.actions {
					for _, waypoint := range q.actions {
						state := LearningState{
							Light:    light,
							Oncoming: oncoming,
							Left:     left,
							Right:    right,
							Waypoint: waypoint,
						}
						entries := make(map[core.Action]Estimate, len(q.actions))
						for _, action := range q.actions {
							entries[action] = Unknown()
						}
						q.table[state] = entries
					}
				}
			}
		}
	}
}

// Actions returns the action dimension in scan order.
func (q *QTable) Actions() []core.Action {
	return q.actions
}

func (q *QTable) Lookup(state LearningState, action core.Action) (Estimate, error) {
	entries, ok := q.table[state]
	if !ok {
		return Unknown(), fmt.Errorf("%w: unknown state %s", ErrStateSpaceViolation, state)
	}
	e, ok := entries[action]
	if !ok {
		return Unknown(), fmt.Errorf("%w: unknown action %s in state %s", ErrStateSpaceViolation, action, state)
	}
	return e, nil
}

// Update overwrites an existing entry.
func (q *QTable) Update(state LearningState, action core.Action, value float64) error {
	if _, err := q.Lookup(state, action); err != nil {
		return err
	}
	q.table[state][action] = Known(value)
	return nil
}

// Len returns the number of (state, action) entries.
func (q *QTable) Len() int {
	n := 0
	for _, entries := range q.table {
		n += len(entries)
	}
	return n
}

// KnownEntries returns how many entries have been written at least once.
func (q *QTable) KnownEntries() int {
	n := 0
	for _, entries := range q.table {
		for _, e := range entries {
			if e.known {
				n++
			}
		}
	}
	return n
}
