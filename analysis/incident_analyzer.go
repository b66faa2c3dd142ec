package analysis

import (
	"fmt"
	"os"
	"path"

	"github.com/zeu5/smartcab-rl/core"
)

// IncidentSpec names a condition on a trial trace worth keeping.
type IncidentSpec struct {
	Name  string
	Check func(*core.Trace) bool
}

type incidentDataset struct {
	Counts map[string]int
}

func (d *incidentDataset) Copy() *incidentDataset {
	counts := make(map[string]int, len(d.Counts))
	for k, v := range d.Counts {
		counts[k] = v
	}
	return &incidentDataset{Counts: counts}
}

// IncidentAnalyzer counts incidents and writes every matching trace to disk.
type IncidentAnalyzer struct {
	incidents []IncidentSpec
	savePath  string
	exp       string
	dataset   *incidentDataset
}

var _ core.Analyzer = &IncidentAnalyzer{}

func NewIncidentAnalyzer(savePath string, incidents ...IncidentSpec) *IncidentAnalyzer {
	a := &IncidentAnalyzer{
		incidents: incidents,
		savePath:  ensureDir(savePath, "incidents"),
	}
	a.Reset()
	return a
}

func (ia *IncidentAnalyzer) Analyze(tCtx *core.TrialContext, trace *core.Trace) {
	for _, incident := range ia.incidents {
		if !incident.Check(trace) {
			continue
		}
		ia.dataset.Counts[incident.Name]++
		fileName := path.Join(ia.savePath, fmt.Sprintf("%d_%s_incident_%d.txt", tCtx.Run, incident.Name, tCtx.Trial))
		if ia.exp != "" {
			fileName = path.Join(ia.savePath, fmt.Sprintf("%d_%s_%s_incident_%d.txt", tCtx.Run, ia.exp, incident.Name, tCtx.Trial))
		}
		os.WriteFile(fileName, []byte(traceToString(trace)), 0644)
	}
}

func (ia *IncidentAnalyzer) DataSet() core.DataSet {
	return ia.dataset.Copy()
}

func (ia *IncidentAnalyzer) Reset() {
	ia.dataset = &incidentDataset{Counts: make(map[string]int)}
	for _, incident := range ia.incidents {
		ia.dataset.Counts[incident.Name] = 0
	}
}

type IncidentAnalyzerConstructor struct {
	SavePath  string
	Incidents []IncidentSpec
}

var _ core.AnalyzerConstructor = &IncidentAnalyzerConstructor{}

func NewIncidentAnalyzerConstructor(savePath string, incidents ...IncidentSpec) *IncidentAnalyzerConstructor {
	return &IncidentAnalyzerConstructor{
		SavePath:  savePath,
		Incidents: incidents,
	}
}

func (c *IncidentAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	a := NewIncidentAnalyzer(c.SavePath, c.Incidents...)
	a.exp = exp
	return a
}
