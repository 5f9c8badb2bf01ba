package policies

import (
	"fmt"
	"time"

	"github.com/zeu5/torcs-qlearning/core"
	erand "golang.org/x/exp/rand"
)

// RandomPolicy picks a uniformly random action every tick and learns
// nothing. It is the baseline the learned controllers are compared with.
type RandomPolicy struct {
	domain     core.Domain
	rand       *erand.Rand
	statistics core.StatisticsLog
}

var _ core.Policy = &RandomPolicy{}

func NewRandomPolicy(d core.Domain, statistics core.StatisticsLog, src erand.Source) *RandomPolicy {
	if src == nil {
		src = erand.NewSource(uint64(time.Now().UnixNano()))
	}
	return &RandomPolicy{
		domain:     d,
		rand:       erand.New(src),
		statistics: statistics,
	}
}

func (r *RandomPolicy) Update(_, cur core.State, _ core.Action, _ float64) (core.Action, error) {
	return r.NextAction(cur)
}

func (r *RandomPolicy) NextAction(state core.State) (core.Action, error) {
	if _, err := core.LookupState(r.domain, state.Hash()); err != nil {
		return nil, fmt.Errorf("random policy: %w", err)
	}
	actions := r.domain.Actions()
	return actions[r.rand.Intn(len(actions))], nil
}

func (r *RandomPolicy) DecreaseEpsilon() {}

func (r *RandomPolicy) SaveTable() error { return nil }

func (r *RandomPolicy) SaveStatistics(line string) error {
	if r.statistics == nil {
		return ErrNoStatisticsLog
	}
	return r.statistics.Append(line)
}

type RandomPolicyConstructor struct {
	Statistics core.StatisticsLog
	Source     erand.Source
}

var _ core.PolicyConstructor = &RandomPolicyConstructor{}

func (c *RandomPolicyConstructor) NewPolicy(d core.Domain) (core.Policy, error) {
	return NewRandomPolicy(d, c.Statistics, c.Source), nil
}
