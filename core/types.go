package core

import "fmt"

// Action is a driving move at an intersection, including doing nothing.
// The same set describes the direction other traffic intends to take.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionLeft
	ActionRight
)

var validActions = []Action{ActionNone, ActionForward, ActionLeft, ActionRight}

// ValidActions returns the fixed, ordered action set. The order is the scan
// order used for tie-breaks.
func ValidActions() []Action {
	out := make([]Action, len(validActions))
	copy(out, validActions)
	return out
}

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionForward:
		return "forward"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Valid reports whether a belongs to ValidActions.
func (a Action) Valid() bool {
	return a >= ActionNone && a <= ActionRight
}

type Light int

const (
	LightRed Light = iota
	LightGreen
)

func (l Light) String() string {
	switch l {
	case LightRed:
		return "red"
	case LightGreen:
		return "green"
	}
	return fmt.Sprintf("light(%d)", int(l))
}

// Lights returns both light colors in enumeration order.
func Lights() []Light {
	return []Light{LightRed, LightGreen}
}

// Percept is what an agent senses at its intersection.
type Percept struct {
	Light    Light
	Oncoming Action
	Left     Action
	Right    Action
}

func (p Percept) String() string {
	return fmt.Sprintf("light=%s oncoming=%s left=%s right=%s", p.Light, p.Oncoming, p.Left, p.Right)
}

// Waypoint is the planner's suggestion. It is either an Action or the
// explicit Arrived variant once the destination is reached.
type Waypoint struct {
	action  Action
	arrived bool
}

// Arrived is the waypoint returned at the destination.
var Arrived = Waypoint{arrived: true}

func WaypointTo(a Action) Waypoint {
	return Waypoint{action: a}
}

func (w Waypoint) IsArrived() bool {
	return w.arrived
}

// Action returns the suggested action. At the destination the suggestion is
// to stay put.
func (w Waypoint) Action() Action {
	if w.arrived {
		return ActionNone
	}
	return w.action
}

func (w Waypoint) String() string {
	if w.arrived {
		return "arrived"
	}
	return w.action.String()
}

type Location struct {
	X int
	Y int
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Y)
}

// Heading is a unit vector along one grid axis.
type Heading struct {
	DX int
	DY int
}

var (
	North = Heading{DX: 0, DY: -1}
	South = Heading{DX: 0, DY: 1}
	East  = Heading{DX: 1, DY: 0}
	West  = Heading{DX: -1, DY: 0}
)

func Headings() []Heading {
	return []Heading{East, South, West, North}
}

// Left returns the heading after a left turn.
func (h Heading) Left() Heading {
	return Heading{DX: h.DY, DY: -h.DX}
}

// Right returns the heading after a right turn.
func (h Heading) Right() Heading {
	return Heading{DX: -h.DY, DY: h.DX}
}
