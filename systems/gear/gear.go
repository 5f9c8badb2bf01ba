// Package gear binds an externally defined gear discretization to the
// Q-learning engine. The gear states, actions and reward are not defined
// here; they are supplied through Rules.
package gear

import (
	"github.com/zeu5/torcs-qlearning/core"
)

const TableFile = "QTable_Gear.csv"

type Rules interface {
	States() []core.State
	Actions() []core.Action
	EvaluateState(*core.Sensors) (core.State, error)
	CalculateReward(*core.Sensors, core.Action) float64
}

type Control struct {
	rules Rules
}

var _ core.Evaluator = &Control{}

func NewControl(rules Rules) *Control {
	return &Control{rules: rules}
}

func (*Control) System() core.ControlSystem {
	return core.Gear
}

func (c *Control) States() []core.State {
	return c.rules.States()
}

func (c *Control) Actions() []core.Action {
	return c.rules.Actions()
}

func (*Control) TableFile() string {
	return TableFile
}

func (c *Control) EvaluateState(s *core.Sensors) (core.State, error) {
	return c.rules.EvaluateState(s)
}

func (c *Control) CalculateReward(s *core.Sensors, action core.Action) float64 {
	return c.rules.CalculateReward(s, action)
}
