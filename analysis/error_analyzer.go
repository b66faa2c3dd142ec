package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path"

	"github.com/zeu5/smartcab-rl/core"
)

// ErrorAnalyzer saves the trace of every trial that ended in an error.
type ErrorAnalyzer struct {
	savePath string
	exp      string
}

var _ core.Analyzer = &ErrorAnalyzer{}

func NewErrorAnalyzer(savePath string) *ErrorAnalyzer {
	return &ErrorAnalyzer{
		savePath: ensureDir(savePath, "errors"),
	}
}

func (a *ErrorAnalyzer) Analyze(ctx *core.TrialContext, trace *core.Trace) {
	if !ctx.IsError() {
		return
	}
	buf := new(bytes.Buffer)
	buf.WriteString(fmt.Sprintf("Error: %s\n", ctx.Err()))
	buf.WriteString(traceToString(trace))

	fileName := fmt.Sprintf("%d_error_%d.txt", ctx.Run, ctx.Trial)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_error_%d.txt", ctx.Run, a.exp, ctx.Trial)
	}
	os.WriteFile(path.Join(a.savePath, fileName), buf.Bytes(), 0644)
}

func (a *ErrorAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *ErrorAnalyzer) Reset() {}

type ErrorAnalyzerConstructor struct {
	SavePath string
}

var _ core.AnalyzerConstructor = &ErrorAnalyzerConstructor{}

func NewErrorAnalyzerConstructor(savePath string) *ErrorAnalyzerConstructor {
	return &ErrorAnalyzerConstructor{
		SavePath: savePath,
	}
}

func (e *ErrorAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	a := NewErrorAnalyzer(e.SavePath)
	a.exp = exp
	return a
}
