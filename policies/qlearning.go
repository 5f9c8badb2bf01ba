package policies

import (
	"errors"
	"fmt"
	"time"

	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/util"
	erand "golang.org/x/exp/rand"
)

const (
	LearningRate   = 0.7
	DiscountFactor = 0.95
	InitialEpsilon = 1.0
	FinalEpsilon   = 0.01
	EpsilonDecay   = 0.005

	// values are stored with this many decimals
	valuePrecision = 8
)

var (
	ErrNoTablePath     = errors.New("no q-table path configured")
	ErrNoStatisticsLog = errors.New("no statistics log configured")
)

type QLearningConfig struct {
	// TablePath is loaded at construction when it exists and written by
	// SaveTable.
	TablePath  string
	Statistics core.StatisticsLog
	// Epsilon is the starting exploration rate.
	Epsilon float64
	// Source drives exploration and tie-breaks. Seeded from the wall
	// clock when nil.
	Source erand.Source
}

// QLearning is a one-step Q-learning controller over the finite state and
// action enumeration of a single domain.
type QLearning struct {
	domain  core.Domain
	qTable  *QTable
	actions []core.Action
	hashes  []string
	byHash  map[string]core.Action
	epsilon float64
	rand    *erand.Rand

	tablePath  string
	statistics core.StatisticsLog
}

var _ core.Policy = &QLearning{}

// NewQLearning binds a controller to domain. A missing table file yields
// an all-zero table; a malformed one is an error.
func NewQLearning(domain core.Domain, config QLearningConfig) (*QLearning, error) {
	src := config.Source
	if src == nil {
		src = erand.NewSource(uint64(time.Now().UnixNano()))
	}
	q := &QLearning{
		domain:     domain,
		qTable:     NewQTable(src),
		actions:    domain.Actions(),
		byHash:     make(map[string]core.Action),
		epsilon:    config.Epsilon,
		rand:       erand.New(src),
		tablePath:  config.TablePath,
		statistics: config.Statistics,
	}
	for _, a := range q.actions {
		q.hashes = append(q.hashes, a.Hash())
		q.byHash[a.Hash()] = a
	}

	if q.tablePath != "" && util.FileExists(q.tablePath) {
		if err := q.qTable.Read(q.tablePath, domain); err != nil {
			return nil, fmt.Errorf("load %s table: %w", domain.System(), err)
		}
	} else {
		q.qTable.Fill(domain)
	}
	return q, nil
}

func (q *QLearning) Domain() core.Domain {
	return q.domain
}

func (q *QLearning) Table() *QTable {
	return q.qTable
}

func (q *QLearning) Epsilon() float64 {
	return q.epsilon
}

func (q *QLearning) Value(state core.State, action core.Action) (float64, error) {
	return q.qTable.Get(state.Hash(), action.Hash())
}

func (q *QLearning) Update(prev, cur core.State, action core.Action, reward float64) (core.Action, error) {
	if prev != nil {
		oldVal, err := q.qTable.Get(prev.Hash(), action.Hash())
		if err != nil {
			return nil, fmt.Errorf("%s update: %w", q.domain.System(), err)
		}
		_, maxNext, err := q.qTable.MaxAmong(cur.Hash(), q.hashes)
		if err != nil {
			return nil, fmt.Errorf("%s update: %w", q.domain.System(), err)
		}
		newVal := oldVal + LearningRate*(reward+DiscountFactor*maxNext-oldVal)
		if err := q.qTable.Set(prev.Hash(), action.Hash(), util.Round(newVal, valuePrecision)); err != nil {
			return nil, fmt.Errorf("%s update: %w", q.domain.System(), err)
		}
	}
	return q.NextAction(cur)
}

// NextAction is epsilon-greedy: with probability 1-epsilon one of the
// best valued actions of state, otherwise any action of the domain.
func (q *QLearning) NextAction(state core.State) (core.Action, error) {
	if !q.qTable.HasState(state.Hash()) {
		return nil, fmt.Errorf("%s: %w: %q", q.domain.System(), core.ErrUnknownState, state.Hash())
	}
	if q.rand.Float64() >= q.epsilon {
		best, _, err := q.qTable.MaxAmong(state.Hash(), q.hashes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", q.domain.System(), err)
		}
		return q.byHash[best], nil
	}
	return q.actions[q.rand.Intn(len(q.actions))], nil
}

// DecreaseEpsilon lowers the exploration rate by one decay step. There is
// no floor: once epsilon is at or below zero the controller is greedy.
func (q *QLearning) DecreaseEpsilon() {
	q.epsilon -= EpsilonDecay
}

func (q *QLearning) SaveTable() error {
	if q.tablePath == "" {
		return ErrNoTablePath
	}
	if err := q.qTable.Write(q.tablePath, q.domain); err != nil {
		return fmt.Errorf("save %s table: %w", q.domain.System(), err)
	}
	return nil
}

func (q *QLearning) SaveStatistics(line string) error {
	if q.statistics == nil {
		return ErrNoStatisticsLog
	}
	return q.statistics.Append(line)
}

type QLearningConstructor struct {
	config    QLearningConfig
	resources string
}

var _ core.PolicyConstructor = &QLearningConstructor{}

// NewQLearningConstructor builds controllers whose table lives at
// resources/<domain table file>.
func NewQLearningConstructor(resources string, config QLearningConfig) *QLearningConstructor {
	return &QLearningConstructor{
		config:    config,
		resources: resources,
	}
}

func (c *QLearningConstructor) NewPolicy(d core.Domain) (core.Policy, error) {
	config := c.config
	config.TablePath = TablePath(c.resources, d)
	return NewQLearning(d, config)
}
