package analysis

import (
	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/util"
)

type rewardAnalyzerDataset struct {
	Epochs      []int
	Ticks       []int
	MeanRewards map[string][]float64
}

func (r *rewardAnalyzerDataset) Copy() *rewardAnalyzerDataset {
	out := &rewardAnalyzerDataset{
		Epochs:      append([]int(nil), r.Epochs...),
		Ticks:       append([]int(nil), r.Ticks...),
		MeanRewards: make(map[string][]float64, len(r.MeanRewards)),
	}
	for k, v := range r.MeanRewards {
		out.MeanRewards[k] = append([]float64(nil), v...)
	}
	return out
}

// RewardAnalyzer records the mean per-tick reward of every controller for
// each episode.
type RewardAnalyzer struct {
	systems []core.ControlSystem
	dataset *rewardAnalyzerDataset
}

var _ core.Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer(systems ...core.ControlSystem) *RewardAnalyzer {
	r := &RewardAnalyzer{systems: systems}
	r.Reset()
	return r
}

func (r *RewardAnalyzer) Reset() {
	r.dataset = &rewardAnalyzerDataset{
		Epochs:      make([]int, 0),
		Ticks:       make([]int, 0),
		MeanRewards: make(map[string][]float64),
	}
}

func (r *RewardAnalyzer) Analyze(eCtx *core.EpisodeContext) {
	r.dataset.Epochs = append(r.dataset.Epochs, eCtx.Epoch)
	r.dataset.Ticks = append(r.dataset.Ticks, eCtx.Trace.Len())
	for _, system := range r.systems {
		name := system.String()
		r.dataset.MeanRewards[name] = append(r.dataset.MeanRewards[name], MeanReward(eCtx.Trace.Rewards(system)))
	}
}

func (r *RewardAnalyzer) DataSet() core.DataSet {
	return r.dataset.Copy()
}

// MeanRewards returns the recorded means of one controller.
func (r *RewardAnalyzer) MeanRewards(system core.ControlSystem) []float64 {
	return append([]float64(nil), r.dataset.MeanRewards[system.String()]...)
}

// Save writes the dataset as JSON.
func (r *RewardAnalyzer) Save(path string) error {
	return util.SaveJson(path, r.dataset)
}
