// Package accel discretizes the forward range reading for the
// accelerate/brake controller.
package accel

import (
	"fmt"

	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/util"
)

const (
	TableFile = "QTable_Accel.csv"

	// BrakingDistance is the forward distance under which accelerating
	// is punished and over which braking is.
	BrakingDistance = 20
	Penalty         = -10.0
	Bonus           = 1.0

	bucketWidth = 5
	maxDistance = 200
)

// State is a forward distance bucket. Only multiples of five in [0, 195]
// are enumerated.
type State int

func (s State) Hash() string {
	return fmt.Sprintf("STATE_%d", int(s))
}

type Action int

const (
	Accel Action = iota
	Brake
)

func (a Action) Hash() string {
	if a == Brake {
		return "BRAKE"
	}
	return "ACCEL"
}

// Value is +1 for full throttle and -1 for full brake.
func (a Action) Value() float64 {
	if a == Brake {
		return -1.0
	}
	return 1.0
}

var (
	states  = enumerateStates()
	actions = []core.Action{Accel, Brake}
)

func enumerateStates() []core.State {
	out := make([]core.State, 0, maxDistance/bucketWidth)
	for d := 0; d < maxDistance; d += bucketWidth {
		out = append(out, State(d))
	}
	return out
}

type Control struct{}

var _ core.Evaluator = Control{}

func NewControl() Control {
	return Control{}
}

func (Control) System() core.ControlSystem {
	return core.Acceleration
}

func (Control) States() []core.State {
	return append([]core.State(nil), states...)
}

func (Control) Actions() []core.Action {
	return append([]core.Action(nil), actions...)
}

func (Control) TableFile() string {
	return TableFile
}

// EvaluateState looks up the state named by StateIndex. Distances that are
// not a multiple of five name no enumerated state and return an error
// wrapping core.ErrUnknownState; they are not snapped to a bucket.
func (c Control) EvaluateState(s *core.Sensors) (core.State, error) {
	return core.LookupState(c, State(StateIndex(s)).Hash())
}

// StateIndex rounds the forward distance HALF_UP and scans 0..199 for it.
// The scan returns the distance itself when it lies in [0, 199], 0 when it
// is 200 or more and 194 when it is negative.
func StateIndex(s *core.Sensors) int {
	distance := int(util.Round(s.FrontDistance(), 0))
	index := 0
	for i := 0; i < maxDistance; i++ {
		if i == distance {
			return distance
		}
		if i > distance {
			index = i - bucketWidth
		}
	}
	return index
}

// CalculateReward punishes accelerating close to the track edge and
// braking away from it.
func (Control) CalculateReward(s *core.Sensors, action core.Action) float64 {
	distance := StateIndex(s)
	switch {
	case distance < BrakingDistance && action == Accel:
		return Penalty
	case distance >= BrakingDistance && action == Brake:
		return Penalty
	}
	return Bonus
}
