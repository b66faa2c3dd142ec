package analysis

import (
	"path"
	"strconv"

	"github.com/zeu5/smartcab-rl/core"
	"github.com/zeu5/smartcab-rl/util"
	"gonum.org/v1/gonum/stat"
)

const recentTrials = 10

type rewardDataset struct {
	Rewards    []float64
	Ticks      []int
	Successes  []bool
	Violations []int
}

func (r *rewardDataset) Copy() *rewardDataset {
	return &rewardDataset{
		Rewards:    util.CopyFloatSlice(r.Rewards),
		Ticks:      util.CopyIntSlice(r.Ticks),
		Successes:  append([]bool(nil), r.Successes...),
		Violations: util.CopyIntSlice(r.Violations),
	}
}

// RewardAnalyzer records, per trial, the environment reward collected, the
// ticks taken, whether the destination was reached in time and how many
// traffic violations were committed.
type RewardAnalyzer struct {
	dataset *rewardDataset
}

var _ core.Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer() *RewardAnalyzer {
	r := &RewardAnalyzer{}
	r.Reset()
	return r
}

func (r *RewardAnalyzer) Reset() {
	r.dataset = &rewardDataset{
		Rewards:    make([]float64, 0),
		Ticks:      make([]int, 0),
		Successes:  make([]bool, 0),
		Violations: make([]int, 0),
	}
}

func (r *RewardAnalyzer) Analyze(tCtx *core.TrialContext, trace *core.Trace) {
	violations := 0
	for i := 0; i < trace.Len(); i++ {
		if trace.Step(i).Reward < 0 && !trace.Step(i).Moved {
			violations++
		}
	}
	r.dataset.Rewards = append(r.dataset.Rewards, trace.TotalReward())
	r.dataset.Ticks = append(r.dataset.Ticks, trace.Len())
	r.dataset.Successes = append(r.dataset.Successes, tCtx.IsSuccess())
	r.dataset.Violations = append(r.dataset.Violations, violations)
}

func (r *RewardAnalyzer) DataSet() core.DataSet {
	return r.dataset.Copy()
}

type RewardAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &RewardAnalyzerConstructor{}

func NewRewardAnalyzerConstructor() *RewardAnalyzerConstructor {
	return &RewardAnalyzerConstructor{}
}

func (c *RewardAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewRewardAnalyzer()
}

// RewardSummary aggregates a reward dataset.
type RewardSummary struct {
	Trials       int
	MeanReward   float64
	StdDevReward float64
	RecentReward float64
	SuccessRate  float64
	MeanTicks    float64
	Violations   int
}

func summarize(d *rewardDataset) RewardSummary {
	s := RewardSummary{Trials: len(d.Rewards)}
	if s.Trials == 0 {
		return s
	}
	s.MeanReward, s.StdDevReward = stat.MeanStdDev(d.Rewards, nil)
	if s.Trials < 2 {
		s.StdDevReward = 0
	}
	recent := d.Rewards
	if len(recent) > recentTrials {
		recent = recent[len(recent)-recentTrials:]
	}
	s.RecentReward = stat.Mean(recent, nil)

	successes := make([]float64, len(d.Successes))
	for i, ok := range d.Successes {
		if ok {
			successes[i] = 1
		}
	}
	s.SuccessRate = stat.Mean(successes, nil)

	ticks := make([]float64, len(d.Ticks))
	for i, t := range d.Ticks {
		ticks[i] = float64(t)
	}
	s.MeanTicks = stat.Mean(ticks, nil)
	for _, v := range d.Violations {
		s.Violations += v
	}
	return s
}

type rewardComparison struct {
	Summary RewardSummary
	Trials  *rewardDataset
}

type RewardComparator struct {
	savePath string
}

var _ core.Comparator = &RewardComparator{}

func NewRewardComparator(savePath string) *RewardComparator {
	return &RewardComparator{
		savePath: path.Join(savePath, "rewards.json"),
	}
}

func (c *RewardComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	out := make(map[string]*rewardComparison)
	for i, name := range experimentNames {
		d, ok := datasets[i].(*rewardDataset)
		if !ok {
			continue
		}
		out[name] = &rewardComparison{
			Summary: summarize(d),
			Trials:  d,
		}
	}
	util.SaveJson(c.savePath, out)
}

type RewardComparatorConstructor struct {
	savePath string
}

var _ core.ComparatorConstructor = &RewardComparatorConstructor{}

func NewRewardComparatorConstructor(savePath string) *RewardComparatorConstructor {
	return &RewardComparatorConstructor{
		savePath: savePath,
	}
}

func (c *RewardComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewRewardComparator(path.Join(c.savePath, strconv.Itoa(run)))
}
