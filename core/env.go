package core

import (
	"context"
	"fmt"
)

type State interface {
	Hash() string
}

type Action interface {
	Hash() string
	// Value is the real-valued effect of the action (steering angle,
	// accel/brake command, ...)
	Value() float64
}

// Domain is the finite state and action enumeration of one control
// system. Enumeration order is significant: it is the column and row
// order of the persisted table and the scan order of the tie-break.
type Domain interface {
	System() ControlSystem
	States() []State
	Actions() []Action
	// TableFile is the file name of the persisted table, relative to the
	// resources directory.
	TableFile() string
}

// Evaluator maps a sensor snapshot to a discrete state and a reward.
type Evaluator interface {
	Domain
	EvaluateState(*Sensors) (State, error)
	// CalculateReward scores the snapshot. action is the action that was
	// taken on the previous tick; evaluators that do not need it ignore it.
	CalculateReward(*Sensors, Action) float64
}

// SensorFeed yields one snapshot per decision tick. Next returns io.EOF
// once the feed is exhausted.
type SensorFeed interface {
	Next(context.Context) (*Sensors, error)
}

func LookupState(d Domain, hash string) (State, error) {
	for _, s := range d.States() {
		if s.Hash() == hash {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no state %q", ErrUnknownState, d.System(), hash)
}

func LookupAction(d Domain, hash string) (Action, error) {
	for _, a := range d.Actions() {
		if a.Hash() == hash {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no action %q", ErrUnknownAction, d.System(), hash)
}

type EpisodeContext struct {
	Context context.Context
	Session string
	Epoch   int
	Tick    int

	Trace *Trace
}

func NewEpisodeContext(ctx context.Context, session string, epoch int) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Session: session,
		Epoch:   epoch,
		Trace:   NewTrace(),
	}
}
