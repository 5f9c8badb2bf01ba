package cmd

import (
	"fmt"

	"github.com/zeu5/torcs-qlearning/analysis"
	"github.com/zeu5/torcs-qlearning/common"
	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/policies"
	"github.com/zeu5/torcs-qlearning/systems/accel"
	"github.com/zeu5/torcs-qlearning/systems/steer"
	erand "golang.org/x/exp/rand"
)

type statisticsStore interface {
	core.StatisticsLog
	Lines() ([]string, error)
}

// openStatistics opens the SQLite store when one is configured and the
// flat file otherwise. The returned func releases it.
func openStatistics() (statisticsStore, func(), error) {
	if flags.StatisticsDB != "" {
		db, err := analysis.NewSQLiteStatisticsLog(flags.StatisticsDB)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	}
	return analysis.NewFileStatisticsLog(flags.StatisticsPath), func() {}, nil
}

func randomSource() erand.Source {
	if flags.Seed == 0 {
		return nil
	}
	return erand.NewSource(flags.Seed)
}

func policyConstructor(statistics core.StatisticsLog) (core.PolicyConstructor, error) {
	switch flags.Policy {
	case "", common.PolicyQLearning:
		return policies.NewQLearningConstructor(flags.ResourcesDir, policies.QLearningConfig{
			Statistics: statistics,
			Epsilon:    flags.Epsilon,
			Source:     randomSource(),
		}), nil
	case common.PolicyRandom:
		return &policies.RandomPolicyConstructor{
			Statistics: statistics,
			Source:     randomSource(),
		}, nil
	}
	return nil, fmt.Errorf("unknown policy %q", flags.Policy)
}

// tableDomain returns the domains whose tables can be handled without an
// embedding program. Gear rules are supplied by the embedder.
func tableDomain(name string) (core.Domain, error) {
	system, ok := core.ParseControlSystem(name)
	if !ok {
		return nil, fmt.Errorf("unknown control system %q", name)
	}
	switch system {
	case core.Steering:
		return steer.NewControl(), nil
	case core.Acceleration:
		return accel.NewControl(), nil
	}
	return nil, fmt.Errorf("%s table needs gear rules from the embedding program", system)
}
