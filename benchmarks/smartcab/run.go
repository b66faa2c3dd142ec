package smartcab

import (
	"io"

	"github.com/zeu5/smartcab-rl/agents"
	"github.com/zeu5/smartcab-rl/analysis"
	"github.com/zeu5/smartcab-rl/benchmarks/common"
	"github.com/zeu5/smartcab-rl/core"
)

func worldConfig(flags *common.Flags) WorldConfig {
	return WorldConfig{
		Width:           flags.Width,
		Height:          flags.Height,
		DummyAgents:     flags.DummyAgents,
		LightPeriodMin:  flags.LightPeriodMin,
		LightPeriodMax:  flags.LightPeriodMax,
		DeadlineFactor:  flags.DeadlineFactor,
		EnforceDeadline: flags.EnforceDeadline,
		Seed:            flags.Seed,
	}
}

func RunConfig(flags *common.Flags) *core.RunConfig {
	return &core.RunConfig{
		Trials:                     flags.Trials,
		MaxTicks:                   flags.MaxTicks,
		ThresholdConsecutiveErrors: flags.MaxConsecutiveErrors,
	}
}

// PrepareLearningComparison runs the learning agent alone in one world.
// Agent diagnostics go to writer.
func PrepareLearningComparison(flags *common.Flags, writer io.Writer) *core.Comparison {
	cmp := core.NewComparison()
	world := NewWorld(worldConfig(flags))

	if flags.Debug {
		cmp.AddAnalysis("Debug", analysis.NewPrintDebugAnalyzer(flags.SavePath, flags.Trials-10), analysis.NewNoOpComparatorConstructor())
	}
	if flags.Render {
		cmp.AddAnalysis("Render", analysis.NewRenderAnalyzer(flags.SavePath, flags.Width, flags.Height, flags.Trials-10), analysis.NewNoOpComparatorConstructor())
	}
	cmp.AddAnalysis("Errors", analysis.NewErrorAnalyzer(flags.SavePath), analysis.NewNoOpComparatorConstructor())
	cmp.AddAnalysis("Incidents", analysis.NewIncidentAnalyzer(flags.SavePath, RanRedLight, MissedDeadline), analysis.NewJSONComparatorConstructor(flags.SavePath, "incidents.json"))
	cmp.AddAnalysis("Rewards", analysis.NewRewardAnalyzer(), analysis.NewRewardComparatorConstructor(flags.SavePath))

	cmp.AddExperiment(&core.Experiment{
		Name:  "LearningAgent",
		World: world,
		Agent: agents.NewLearningAgent(world, world.Planner(), writer),
	})
	return cmp
}

// PrepareBaselineComparison runs the learning agent against the random
// baseline, each in its own world.
func PrepareBaselineComparison(flags *common.Flags) *core.ParallelComparison {
	cmp := core.NewParallelComparison()
	worldConstructor := NewWorldConstructor(worldConfig(flags))

	if flags.Debug {
		cmp.AddAnalysis("Debug", analysis.NewPrintDebugAnalyzerConstructor(flags.SavePath, flags.Trials-10), analysis.NewNoOpComparatorConstructor())
	}
	if flags.Render {
		cmp.AddAnalysis("Render", analysis.NewRenderAnalyzerConstructor(flags.SavePath, flags.Width, flags.Height, flags.Trials-10), analysis.NewNoOpComparatorConstructor())
	}
	cmp.AddAnalysis("Errors", analysis.NewErrorAnalyzerConstructor(flags.SavePath), analysis.NewNoOpComparatorConstructor())
	cmp.AddAnalysis("Incidents", analysis.NewIncidentAnalyzerConstructor(flags.SavePath, RanRedLight, MissedDeadline), analysis.NewJSONComparatorConstructor(flags.SavePath, "incidents.json"))
	cmp.AddAnalysis("Rewards", analysis.NewRewardAnalyzerConstructor(), analysis.NewRewardComparatorConstructor(flags.SavePath))

	cmp.AddExperiment(&core.ParallelExperiment{
		Name:  "LearningAgent",
		World: worldConstructor,
		Agent: agents.NewLearningAgentConstructor(),
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:  "Random",
		World: worldConstructor,
		Agent: &agents.RandomAgentConstructor{Seed: flags.Seed},
	})
	return cmp
}
