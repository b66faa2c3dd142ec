package smartcab

import "github.com/zeu5/smartcab-rl/core"

// trafficLight alternates between north-south green and east-west green.
type trafficLight struct {
	northSouth  bool
	initial     bool
	period      int
	lastUpdated int
}

// reset puts the light back in the phase it was built with.
func (l *trafficLight) reset() {
	l.northSouth = l.initial
	l.lastUpdated = 0
}

func (l *trafficLight) update(t int) {
	if t-l.lastUpdated >= l.period {
		l.northSouth = !l.northSouth
		l.lastUpdated = t
	}
}

// colorFor returns the light shown to traffic travelling along heading.
func (l *trafficLight) colorFor(heading core.Heading) core.Light {
	if (l.northSouth && heading.DY != 0) || (!l.northSouth && heading.DX != 0) {
		return core.LightGreen
	}
	return core.LightRed
}
