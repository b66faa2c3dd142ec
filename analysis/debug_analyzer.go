package analysis

import (
	"fmt"
	"os"
	"path"

	"github.com/zeu5/smartcab-rl/core"
)

type PrintDebugAnalyzer struct {
	// savePath is the path to save the trace
	savePath string
	exp      string
	// will save the trace to the file only after the trial number exceeds this threshold
	thresholdTrial int
}

var _ core.Analyzer = &PrintDebugAnalyzer{}

func NewPrintDebugAnalyzer(savePath string, threshold int) *PrintDebugAnalyzer {
	return &PrintDebugAnalyzer{
		savePath:       ensureDir(savePath, "traces"),
		thresholdTrial: threshold,
	}
}

func (a *PrintDebugAnalyzer) Analyze(ctx *core.TrialContext, trace *core.Trace) {
	if ctx.Trial < a.thresholdTrial {
		return
	}
	fileName := fmt.Sprintf("%d_trace_%d.txt", ctx.Run, ctx.Trial)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_trace_%d.txt", ctx.Run, a.exp, ctx.Trial)
	}
	os.WriteFile(path.Join(a.savePath, fileName), []byte(traceToString(trace)), 0644)
}

func (a *PrintDebugAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *PrintDebugAnalyzer) Reset() {}

type PrintDebugAnalyzerConstructor struct {
	SavePath       string
	ThresholdTrial int
}

var _ core.AnalyzerConstructor = &PrintDebugAnalyzerConstructor{}

func NewPrintDebugAnalyzerConstructor(savePath string, thresholdTrial int) *PrintDebugAnalyzerConstructor {
	return &PrintDebugAnalyzerConstructor{
		SavePath:       savePath,
		ThresholdTrial: thresholdTrial,
	}
}

func (c *PrintDebugAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	a := NewPrintDebugAnalyzer(c.SavePath, c.ThresholdTrial)
	a.exp = exp
	return a
}
