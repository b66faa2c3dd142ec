package smartcab

import (
	"github.com/zeu5/smartcab-rl/analysis"
	"github.com/zeu5/smartcab-rl/core"
)

// RanRedLight is an incident where the primary agent tried to drive forward
// on red.
var RanRedLight = analysis.IncidentSpec{
	Name: "RanRedLight",
	Check: func(trace *core.Trace) bool {
		for i := 0; i < trace.Len(); i++ {
			step := trace.Step(i)
			if step.Action == core.ActionForward && step.Percept.Light == core.LightRed {
				return true
			}
		}
		return false
	},
}

// MissedDeadline is an incident where the trial ended on a zero deadline
// without reaching the destination.
var MissedDeadline = analysis.IncidentSpec{
	Name: "MissedDeadline",
	Check: func(trace *core.Trace) bool {
		last := trace.Last()
		if last == nil {
			return false
		}
		if _, ok := last.Misc["reached"]; ok {
			return false
		}
		return last.Deadline <= 0
	},
}
