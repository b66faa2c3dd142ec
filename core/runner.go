package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gosuri/uilive"
)

var (
	ErrTooManyErrors = errors.New("too many errors")
	// ErrFatal marks agent errors that must abort the whole experiment
	ErrFatal = errors.New("fatal agent error")
)

type experimentRunContext struct {
	run       int
	ctx       context.Context
	analyzers map[string]Analyzer

	writer io.Writer

	*RunConfig
}

type ExperimentResult struct {
	CompletedTrials  int
	TotalTrials      int
	ErrorTrials      int
	SuccessfulTrials int
	DeadlineTrials   int
	TotalTicks       int

	Error    error
	Datasets map[string]DataSet
}

func (r *ExperimentResult) IsError() bool {
	return r.Error != nil
}

// runTrial drives one trial to completion. Ticks are strictly sequential.
func (e *Experiment) runTrial(tCtx *TrialContext, maxTicks int) int {
	destination, err := e.World.Reset(tCtx)
	if err != nil {
		tCtx.Error(err)
		return 0
	}
	e.Agent.Reset(destination)

	tick := 0
	for ; !e.World.Done(); tick++ {
		if maxTicks > 0 && tick >= maxTicks {
			break
		}
		select {
		case <-tCtx.Context.Done():
			tCtx.Error(tCtx.Context.Err())
			return tick
		default:
		}

		sCtx := &StepContext{Tick: tick, TrialContext: tCtx}
		if err := e.World.Tick(sCtx); err != nil {
			tCtx.Error(err)
			return tick
		}
		if err := e.Agent.Update(sCtx); err != nil {
			tCtx.Error(err)
			return tick + 1
		}
	}
	return tick
}

func (e *Experiment) run(ctx *experimentRunContext) *ExperimentResult {
	result := &ExperimentResult{
		Datasets: make(map[string]DataSet),
	}
	e.Agent.ResetRun()
	writer := ctx.writer
	if writer == nil {
		writer = io.Discard
	}

	consecutiveErrors := 0
TrialLoop:
	for trial := 0; trial < ctx.Trials; trial++ {
		select {
		case <-ctx.ctx.Done():
			result.Error = errors.New("context cancelled")
			break TrialLoop
		default:
		}

		fmt.Fprintf(
			writer,
			"Experiment: %s, Run %d, Trial %d/%d, Ticks: %d, Reached: %d, Deadline: %d, Error: %d\n",
			e.Name, ctx.run, trial, ctx.Trials, result.TotalTicks, result.SuccessfulTrials, result.DeadlineTrials, result.ErrorTrials,
		)
		tCtx := NewTrialContext(ctx.ctx)
		tCtx.Run = ctx.run
		tCtx.Trial = trial
		tCtx.StartTick = result.TotalTicks

		ticks := e.runTrial(tCtx, ctx.MaxTicks)
		result.TotalTrials++

		if err := tCtx.Err(); err != nil && errors.Is(err, ErrFatal) {
			result.Error = err
			break TrialLoop
		}

		if tCtx.IsError() {
			result.ErrorTrials++
			if consecutiveErrors++; ctx.ThresholdConsecutiveErrors > 0 && consecutiveErrors >= ctx.ThresholdConsecutiveErrors {
				result.Error = ErrTooManyErrors
				break TrialLoop
			}
		} else {
			consecutiveErrors = 0
			result.CompletedTrials++
			result.TotalTicks += ticks
			if tCtx.IsSuccess() {
				result.SuccessfulTrials++
			} else if errors.Is(tCtx.Err(), ErrDeadlineExceeded) {
				result.DeadlineTrials++
			}
		}

		for _, a := range ctx.analyzers {
			a.Analyze(tCtx, tCtx.Trace)
		}
	}
	if result.Error != nil {
		fmt.Fprintf(writer, "Experiment: %s, Run %d, Error: %v\n", e.Name, ctx.run, result.Error)
	}

	for name, a := range ctx.analyzers {
		result.Datasets[name] = a.DataSet()
	}

	e.Agent.ResetRun()
	return result
}

// Run executes every experiment sequentially and returns the results of the
// last run. Agents start every run from scratch.
func (c *Comparison) Run(ctx context.Context, runs int, rConfig *RunConfig, writer io.Writer) map[string]*ExperimentResult {
	var results map[string]*ExperimentResult
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return results
		default:
		}

		results = make(map[string]*ExperimentResult)

		// Run experiments
		for _, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return results
			default:
			}
			eCtx := &experimentRunContext{
				run:       run,
				ctx:       ctx,
				analyzers: make(map[string]Analyzer),
				writer:    writer,
				RunConfig: rConfig,
			}

			for name, a := range c.Analyzers {
				a.Reset()
				eCtx.analyzers[name] = a
			}

			results[e.Name] = e.run(eCtx)
		}

		names, datasets := collectDatasets(results, c.analyzerNames())
		for name, cc := range c.Comparators {
			cc.NewComparator(run).Compare(names, datasets[name])
		}
	}
	return results
}

func (c *Comparison) analyzerNames() []string {
	names := make([]string, 0, len(c.Analyzers))
	for name := range c.Analyzers {
		names = append(names, name)
	}
	return names
}

// collectDatasets groups datasets by analyzer, aligned with the returned
// experiment names. Failed experiments contribute a nil dataset.
func collectDatasets(results map[string]*ExperimentResult, analyzerNames []string) ([]string, map[string][]DataSet) {
	datasets := make(map[string][]DataSet)
	experimentNames := make([]string, 0, len(results))
	for name, result := range results {
		experimentNames = append(experimentNames, name)
		for _, aName := range analyzerNames {
			if result.IsError() {
				datasets[aName] = append(datasets[aName], nil)
			} else {
				datasets[aName] = append(datasets[aName], result.Datasets[aName])
			}
		}
	}
	return experimentNames, datasets
}

// parallelWorker is a worker that runs experiments
type parallelWorker struct {
	id int
}

// parallelWork is a struct that contains all the information needed to run an experiment
type parallelWork struct {
	experiment *ParallelExperiment
	comp       *ParallelComparison
	runNumber  int
	writer     io.Writer
	rConfig    *RunConfig
	wg         *sync.WaitGroup
}

// parallelResult is a struct that contains the result of running an experiment
type parallelResult struct {
	experimentName string
	run            int
	result         *ExperimentResult
}

// Worker main loop that consumes work from a channel
func (w *parallelWorker) run(ctx context.Context, workCh <-chan *parallelWork, resultsCh chan<- *parallelResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case work, more := <-workCh:
			if !more {
				return
			}
			resultsCh <- w.runWork(ctx, work)
		}
	}
}

// Run an experiment with a fresh world and agent owned by this worker
func (w *parallelWorker) runWork(ctx context.Context, work *parallelWork) *parallelResult {
	defer work.wg.Done()
	eCtx := &experimentRunContext{
		run:       work.runNumber,
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		writer:    work.writer,
		RunConfig: work.rConfig,
	}

	for name, aC := range work.comp.Analyzers {
		eCtx.analyzers[name] = aC.NewAnalyzer(work.experiment.Name, w.id)
	}

	world := work.experiment.World.NewWorld(work.runNumber)
	exp := &Experiment{
		Name:  work.experiment.Name,
		World: world,
		Agent: work.experiment.Agent.NewAgent(world, world.Planner(), work.writer),
	}

	return &parallelResult{
		experimentName: work.experiment.Name,
		run:            work.runNumber,
		result:         exp.run(eCtx),
	}
}

// Run executes all experiments of each run concurrently, one per worker.
// Every experiment builds its own world and agent, and the experiments of a
// run get worlds built from the same run number.
func (c *ParallelComparison) Run(ctx context.Context, runs int, rConfig *RunConfig, parallelism int) map[string]*ExperimentResult {
	if parallelism <= 0 {
		parallelism = 1
	}
	var results map[string]*ExperimentResult
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return results
		default:
		}
		wg := new(sync.WaitGroup)
		writer := uilive.New()
		writer.Start()
		fmt.Fprintf(writer, "Run %d\n", run)

		workCh := make(chan *parallelWork, len(c.Experiments))
		resultsCh := make(chan *parallelResult, len(c.Experiments))

		for i := 0; i < parallelism; i++ {
			worker := &parallelWorker{id: i}
			go worker.run(ctx, workCh, resultsCh)
		}

		for _, e := range c.Experiments {
			wg.Add(1)
			workCh <- &parallelWork{
				experiment: e,
				comp:       c,
				runNumber:  run,
				rConfig:    rConfig,
				wg:         wg,
				writer:     writer.Newline(),
			}
		}
		close(workCh)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			writer.Stop()
			return results
		}
		close(resultsCh)
		writer.Stop()

		results = make(map[string]*ExperimentResult)
		for r := range resultsCh {
			results[r.experimentName] = r.result
		}

		analyzerNames := make([]string, 0, len(c.Analyzers))
		for name := range c.Analyzers {
			analyzerNames = append(analyzerNames, name)
		}
		names, datasets := collectDatasets(results, analyzerNames)
		for name, cc := range c.Comparators {
			select {
			case <-ctx.Done():
				return results
			default:
			}
			cc.NewComparator(run).Compare(names, datasets[name])
		}
	}
	return results
}
