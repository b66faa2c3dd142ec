package analysis

import (
	"fmt"
	"image/color"
	"path"

	"github.com/fogleman/gg"
	"github.com/zeu5/smartcab-rl/core"
)

const cellSize = 48

var (
	roadColour      = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	routeColour     = color.RGBA{R: 61, G: 53, B: 122, A: 255}
	startColour     = color.RGBA{R: 40, G: 160, B: 80, A: 255}
	violationColour = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	arrivalColour   = color.RGBA{R: 255, G: 166, B: 0, A: 255}
)

// RenderAnalyzer draws the primary agent's route over the grid as a PNG,
// for trials from thresholdTrial onwards.
type RenderAnalyzer struct {
	savePath       string
	exp            string
	width          int
	height         int
	thresholdTrial int
}

var _ core.Analyzer = &RenderAnalyzer{}

func NewRenderAnalyzer(savePath string, width, height, threshold int) *RenderAnalyzer {
	return &RenderAnalyzer{
		savePath:       ensureDir(savePath, "renders"),
		width:          width,
		height:         height,
		thresholdTrial: threshold,
	}
}

func (a *RenderAnalyzer) Analyze(ctx *core.TrialContext, trace *core.Trace) {
	if ctx.Trial < a.thresholdTrial || trace.Len() == 0 {
		return
	}
	fileName := fmt.Sprintf("%d_route_%d.png", ctx.Run, ctx.Trial)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_route_%d.png", ctx.Run, a.exp, ctx.Trial)
	}
	renderTrace(trace, a.width, a.height).SavePNG(path.Join(a.savePath, fileName))
}

func (a *RenderAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *RenderAnalyzer) Reset() {}

func pixel(c int) float64 {
	return float64(c) * cellSize
}

// renderTrace draws the roads, every move of the agent, and markers for the
// start, each violation and the arrival.
func renderTrace(trace *core.Trace, width, height int) *gg.Context {
	dc := gg.NewContext((width+1)*cellSize, (height+1)*cellSize)
	dc.SetColor(color.White)
	dc.Clear()

	for x := 1; x <= width; x++ {
		dc.DrawLine(pixel(x), pixel(1), pixel(x), pixel(height))
	}
	for y := 1; y <= height; y++ {
		dc.DrawLine(pixel(1), pixel(y), pixel(width), pixel(y))
	}
	dc.SetColor(roadColour)
	dc.SetLineWidth(2.0)
	dc.Stroke()

	dc.ClearPath()
	for i := 0; i < trace.Len(); i++ {
		step := trace.Step(i)
		from, to := step.Location, step.NextLocation
		// wrapped moves jump across the grid and are left out
		if !step.Moved || abs(from.X-to.X)+abs(from.Y-to.Y) != 1 {
			continue
		}
		dc.DrawLine(pixel(from.X), pixel(from.Y), pixel(to.X), pixel(to.Y))
	}
	dc.SetColor(routeColour)
	dc.SetLineWidth(5.0)
	dc.Stroke()

	start := trace.Step(0).Location
	dc.DrawCircle(pixel(start.X), pixel(start.Y), cellSize/5)
	dc.SetColor(startColour)
	dc.Fill()

	for i := 0; i < trace.Len(); i++ {
		step := trace.Step(i)
		if step.Reward < 0 && !step.Moved {
			dc.DrawCircle(pixel(step.Location.X), pixel(step.Location.Y), cellSize/8)
			dc.SetColor(violationColour)
			dc.Fill()
		}
		if _, ok := step.Misc["reached"]; ok {
			end := step.NextLocation
			dc.DrawRectangle(pixel(end.X)-cellSize/6, pixel(end.Y)-cellSize/6, cellSize/3, cellSize/3)
			dc.SetColor(arrivalColour)
			dc.Fill()
		}
	}

	dc.SetColor(color.Black)
	dc.DrawStringAnchored(fmt.Sprintf("ticks %d, reward %.1f", trace.Len(), trace.TotalReward()), cellSize/4, cellSize/4, 0, 1)
	return dc
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type RenderAnalyzerConstructor struct {
	SavePath       string
	Width          int
	Height         int
	ThresholdTrial int
}

var _ core.AnalyzerConstructor = &RenderAnalyzerConstructor{}

func NewRenderAnalyzerConstructor(savePath string, width, height, threshold int) *RenderAnalyzerConstructor {
	return &RenderAnalyzerConstructor{
		SavePath:       savePath,
		Width:          width,
		Height:         height,
		ThresholdTrial: threshold,
	}
}

func (c *RenderAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	a := NewRenderAnalyzer(c.SavePath, c.Width, c.Height, c.ThresholdTrial)
	a.exp = exp
	return a
}
