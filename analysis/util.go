package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path"

	"github.com/zeu5/smartcab-rl/core"
)

func ensureDir(savePath, sub string) string {
	dir := path.Join(savePath, sub)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		os.MkdirAll(dir, 0755)
	}
	return dir
}

func traceToString(trace *core.Trace) string {
	buf := new(bytes.Buffer)
	for i := 0; i < trace.Len(); i++ {
		buf.WriteString(fmt.Sprintf("Step %d\n%s\n", i, stepToString(trace.Step(i))))
	}
	return buf.String()
}

func stepToString(step *core.Step) string {
	return fmt.Sprintf(
		"Tick: %d\nLocation: %s -> %s, Heading: (%d,%d)\nInputs: %s\nWaypoint: %s, Deadline: %d\nAction: %s, Reward: %.2f, Moved: %t\n%s",
		step.Tick,
		step.Location, step.NextLocation, step.Heading.DX, step.Heading.DY,
		step.Percept,
		step.Waypoint, step.Deadline,
		step.Action, step.Reward, step.Moved,
		addInfoToString(step.Misc),
	)
}

func addInfoToString(addInfo map[string]interface{}) string {
	out := ""
	if _, ok := addInfo["reached"]; ok {
		out += "Reached destination\n"
	}
	return out
}
