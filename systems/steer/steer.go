// Package steer discretizes the lateral track position for the steering
// controller.
package steer

import (
	"math"

	"github.com/zeu5/torcs-qlearning/core"
)

const TableFile = "QTable_Steer.csv"

type State string

const (
	LeftBorder  State = "LEFT_BORDER"
	LeftMiddle  State = "LEFT_MIDDLE"
	Center      State = "CENTER"
	RightMiddle State = "RIGHT_MIDDLE"
	RightBorder State = "RIGHT_BORDER"
	// OffTrack is never produced by EvaluateState, it is left to the
	// caller's off-track detection.
	OffTrack State = "OFFTRACK"
)

func (s State) Hash() string {
	return string(s)
}

type Action int

const (
	TurnLeftHard Action = iota
	TurnLeft
	TurnCenter
	TurnRight
	TurnRightHard
)

var (
	actionNames  = [...]string{"TURN_L_HARD", "TURN_L", "TURN_C", "TURN_R", "TURN_R_HARD"}
	actionAngles = [...]float64{0.4, 0.1, 0.0, -0.1, -0.4}
)

func (a Action) Hash() string {
	return actionNames[a]
}

// Value is the steering angle of the action.
func (a Action) Value() float64 {
	return actionAngles[a]
}

var (
	states  = []core.State{LeftBorder, LeftMiddle, Center, RightMiddle, RightBorder, OffTrack}
	actions = []core.Action{TurnLeftHard, TurnLeft, TurnCenter, TurnRight, TurnRightHard}
)

type Control struct{}

var _ core.Evaluator = Control{}

func NewControl() Control {
	return Control{}
}

func (Control) System() core.ControlSystem {
	return core.Steering
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

// EvaluateState buckets the track position p (negative is right of the
// axis). Both p = 1 and p = -1 fall through to CENTER.
func (Control) EvaluateState(s *core.Sensors) (core.State, error) {
	return Evaluate(s.TrackPosition), nil
}

func Evaluate(p float64) State {
	switch {
	case p > 0.15 && p < 0.5:
		return LeftMiddle
	case p >= 0.5 && p < 1.0:
		return LeftBorder
	case p > -0.5 && p < -0.15:
		return RightMiddle
	case p <= -0.5 && p > -1.0:
		return RightBorder
	}
	return Center
}

// CalculateReward is 1 on the track axis, falling linearly to 0 at the
// edges.
func (Control) CalculateReward(s *core.Sensors, _ core.Action) float64 {
	return 1 - math.Abs(s.TrackPosition)
}
