package smartcab

import "github.com/zeu5/smartcab-rl/core"

// RoutePlanner suggests the next move toward the destination, ignoring
// traffic rules.
type RoutePlanner struct {
	world       *World
	destination core.Location
}

var _ core.Planner = &RoutePlanner{}

func NewRoutePlanner(world *World) *RoutePlanner {
	return &RoutePlanner{world: world}
}

func (p *RoutePlanner) RouteTo(destination core.Location) {
	p.destination = destination
}

func (p *RoutePlanner) NextWaypoint() core.Waypoint {
	return waypointTowards(p.world.primary.location, p.world.primary.heading, p.destination)
}

func waypointTowards(location core.Location, heading core.Heading, destination core.Location) core.Waypoint {
	dx := destination.X - location.X
	dy := destination.Y - location.Y
	switch {
	case dx == 0 && dy == 0:
		return core.Arrived
	case dx != 0:
		// east-west difference first
		switch {
		case dx*heading.DX > 0:
			return core.WaypointTo(core.ActionForward)
		case dx*heading.DX < 0:
			// long u-turn
			return core.WaypointTo(core.ActionRight)
		case dx*heading.DY > 0:
			return core.WaypointTo(core.ActionLeft)
		default:
			return core.WaypointTo(core.ActionRight)
		}
	default:
		switch {
		case dy*heading.DY > 0:
			return core.WaypointTo(core.ActionForward)
		case dy*heading.DY < 0:
			return core.WaypointTo(core.ActionRight)
		case dy*heading.DX > 0:
			return core.WaypointTo(core.ActionRight)
		default:
			return core.WaypointTo(core.ActionLeft)
		}
	}
}
