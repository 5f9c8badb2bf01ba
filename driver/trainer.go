// Package driver turns sensor snapshots into vehicle commands while the
// bound Q-learning controllers learn from every tick.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/zeu5/torcs-qlearning/analysis"
	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/systems/accel"
	"github.com/zeu5/torcs-qlearning/systems/gear"
	"github.com/zeu5/torcs-qlearning/systems/steer"
	"github.com/zeu5/torcs-qlearning/util"
)

const (
	// TimeOutLapTime restarts the race once a lap took longer (seconds).
	TimeOutLapTime = 240.0
	// TargetSpeed is the speed above which a brake decision coasts.
	TargetSpeed = 40.0
	// LapsPerEpisode is the number of completed laps that end an episode.
	LapsPerEpisode = 1

	// crossing the start line is detected inside this distance
	startLineWindow = 1.0
)

type TrainerConfig struct {
	// Policies builds one controller per bound domain.
	Policies core.PolicyConstructor
	// GearRules binds a gear controller. Without it the gear is left
	// as reported by the sensors.
	GearRules gear.Rules
	Analyzers []core.Analyzer
	// Session tags the statistics lines. A random one is used when empty.
	Session string
}

// binding is one evaluator and its learning controller with the state of
// the running episode.
type binding struct {
	evaluator core.Evaluator
	policy    core.Policy

	initialState  core.State
	initialAction core.Action

	prev   core.State
	cur    core.State
	action core.Action
	reward float64
}

func newBinding(e core.Evaluator, p core.Policy, state core.State, action core.Action) *binding {
	b := &binding{
		evaluator:     e,
		policy:        p,
		initialState:  state,
		initialAction: action,
	}
	b.reset()
	return b
}

func (b *binding) reset() {
	b.prev = b.initialState
	b.cur = b.initialState
	b.action = b.initialAction
	b.reward = 0
}

// observe evaluates the snapshot without touching the controller. The
// reward is computed with the action taken on the previous tick.
func (b *binding) observe(s *core.Sensors) (core.State, float64, error) {
	cur, err := b.evaluator.EvaluateState(s)
	if err != nil {
		return nil, 0, err
	}
	return cur, b.evaluator.CalculateReward(s, b.action), nil
}

// learn feeds the transition into cur to the controller and keeps the
// next action it picks.
func (b *binding) learn(cur core.State, reward float64) (core.Action, error) {
	next, err := b.policy.Update(b.cur, cur, b.action, reward)
	if err != nil {
		return nil, err
	}
	b.prev, b.cur = b.cur, cur
	b.action = next
	b.reward = reward
	return next, nil
}

// Trainer drives the car with a steering and an acceleration controller
// (and optionally a gear controller) and restarts the race on a
// completed lap, when the car leaves the track or when a lap times out.
type Trainer struct {
	steering     *binding
	acceleration *binding
	gear         *binding
	bindings     []*binding

	analyzers []core.Analyzer
	session   string
	ctx       context.Context
	eCtx      *core.EpisodeContext

	ticks        int
	epochs       int
	laps         int
	prevFromLine float64
	curFromLine  float64
	distance     float64
	highSpeed    float64

	completeLap bool
	offTrack    bool
	timeOut     bool
}

var _ core.Controller = &Trainer{}

func NewTrainer(ctx context.Context, config TrainerConfig) (*Trainer, error) {
	if config.Policies == nil {
		return nil, errors.New("no policy constructor")
	}
	t := &Trainer{
		analyzers: config.Analyzers,
		session:   config.Session,
		ctx:       ctx,
	}
	if t.session == "" {
		t.session = uuid.NewString()
	}

	steerControl := steer.NewControl()
	steerPolicy, err := config.Policies.NewPolicy(steerControl)
	if err != nil {
		return nil, fmt.Errorf("steering controller: %w", err)
	}
	t.steering = newBinding(steerControl, steerPolicy, steer.Center, steer.TurnCenter)

	accelControl := accel.NewControl()
	accelPolicy, err := config.Policies.NewPolicy(accelControl)
	if err != nil {
		return nil, fmt.Errorf("acceleration controller: %w", err)
	}
	t.acceleration = newBinding(accelControl, accelPolicy, accel.State(195), accel.Accel)
	t.bindings = []*binding{t.steering, t.acceleration}

	if config.GearRules != nil {
		gearControl := gear.NewControl(config.GearRules)
		states, actions := gearControl.States(), gearControl.Actions()
		if len(states) == 0 || len(actions) == 0 {
			return nil, errors.New("gear rules define no states or actions")
		}
		gearPolicy, err := config.Policies.NewPolicy(gearControl)
		if err != nil {
			return nil, fmt.Errorf("gear controller: %w", err)
		}
		t.gear = newBinding(gearControl, gearPolicy, states[0], actions[0])
		t.bindings = append(t.bindings, t.gear)
	}

	t.resetEpisode()
	return t, nil
}

func (t *Trainer) Session() string {
	return t.session
}

func (t *Trainer) Ticks() int {
	return t.ticks
}

func (t *Trainer) Epochs() int {
	return t.epochs
}

func (t *Trainer) Laps() int {
	return t.laps
}

func (t *Trainer) Status() string {
	return fmt.Sprintf("epoch %d, tick %d, laps %d, distance %.1f, high speed %.1f",
		t.epochs, t.ticks, util.MaxInt(t.laps, 0), t.distance, t.highSpeed)
}

// Trace is the tick trace of the running episode.
func (t *Trainer) Trace() *core.Trace {
	return t.eCtx.Trace
}

// Control handles one tick. Restart commands are returned for timed out
// laps, completed episodes and off track positions; the caller ends the
// episode on them. A tick whose state cannot be evaluated by one of the
// controllers teaches none of them and is left out of the trace.
func (t *Trainer) Control(s *core.Sensors) (core.Command, error) {
	step := core.NewStep(t.ticks + 1)
	cmd, err := t.control(s, step)
	if err != nil {
		return core.Command{}, err
	}
	step.Command = cmd
	t.eCtx.Trace.AddStep(step)
	return cmd, nil
}

func (t *Trainer) control(s *core.Sensors, step *core.Step) (core.Command, error) {
	if t.ticks == 0 {
		t.prevFromLine = s.DistanceFromStartLine
	} else {
		t.prevFromLine = t.curFromLine
	}
	t.curFromLine = s.DistanceFromStartLine
	t.ticks++
	t.eCtx.Tick = t.ticks

	if s.LastLapTime > TimeOutLapTime {
		t.timeOut = true
		return core.Command{RestartRace: true}, nil
	}

	t.distance = s.DistanceRaced
	t.highSpeed = util.MaxFloat(t.highSpeed, s.Speed)

	if t.prevFromLine > startLineWindow && t.curFromLine < startLineWindow {
		// the car starts behind the line, the first crossing is not a lap
		t.laps++
		if t.laps >= LapsPerEpisode {
			t.completeLap = true
			return core.Command{RestartRace: true}, nil
		}
	}

	if math.Abs(s.TrackPosition) >= 1 {
		t.offTrack = true
		return core.Command{RestartRace: true}, nil
	}

	states := make([]core.State, len(t.bindings))
	rewards := make([]float64, len(t.bindings))
	for i, b := range t.bindings {
		state, reward, err := b.observe(s)
		if err != nil {
			return core.Command{}, fmt.Errorf("%s: %w", b.evaluator.System(), err)
		}
		states[i], rewards[i] = state, reward
	}

	cmd := core.Command{Gear: s.Gear}
	for i, b := range t.bindings {
		action, err := b.learn(states[i], rewards[i])
		if err != nil {
			return core.Command{}, fmt.Errorf("%s: %w", b.evaluator.System(), err)
		}
		system := b.evaluator.System()
		step.States[system] = b.cur
		step.Actions[system] = action
		step.Rewards[system] = b.reward
	}

	cmd.Steering = util.ClampFloat(t.steering.action.Value(), -1, 1)

	accelBrake := t.acceleration.action.Value()
	switch {
	case accelBrake >= 0:
		cmd.Accelerate = accelBrake
	case s.Speed >= TargetSpeed:
		// coast
	default:
		cmd.Brake = -accelBrake
	}

	if t.gear != nil {
		cmd.Gear = int(t.gear.action.Value())
	}
	return cmd, nil
}

// Statistics summarizes the running episode.
func (t *Trainer) Statistics() analysis.EpisodeStatistics {
	return analysis.EpisodeStatistics{
		Session:     t.session,
		Epoch:       t.epochs,
		Ticks:       t.ticks,
		Laps:        util.MaxInt(t.laps, 0),
		Distance:    t.distance,
		HighSpeed:   t.highSpeed,
		SteerReward: analysis.MeanReward(t.eCtx.Trace.Rewards(core.Steering)),
		AccelReward: analysis.MeanReward(t.eCtx.Trace.Rewards(core.Acceleration)),
		CompleteLap: t.completeLap,
		OffTrack:    t.offTrack,
		TimeOut:     t.timeOut,
	}
}

// EndEpisode appends the statistics line, saves every table and decays
// exploration before resetting the episode counters. Persistence errors
// are logged and returned; the trainer stays usable.
func (t *Trainer) EndEpisode() error {
	var errs []error

	if err := t.steering.policy.SaveStatistics(t.Statistics().Line()); err != nil {
		log.Printf("[TRAINER] save statistics: %v", err)
		errs = append(errs, err)
	}
	for _, b := range t.bindings {
		if err := b.policy.SaveTable(); err != nil {
			log.Printf("[TRAINER] save %s table: %v", b.evaluator.System(), err)
			errs = append(errs, err)
		}
		b.policy.DecreaseEpsilon()
	}
	for _, a := range t.analyzers {
		a.Analyze(t.eCtx)
	}

	t.epochs++
	t.resetEpisode()
	return errors.Join(errs...)
}

func (t *Trainer) resetEpisode() {
	t.ticks = 0
	t.laps = -1
	t.prevFromLine = 0
	t.curFromLine = 0
	t.distance = 0
	t.highSpeed = 0
	t.completeLap = false
	t.offTrack = false
	t.timeOut = false
	for _, b := range t.bindings {
		b.reset()
	}
	t.eCtx = core.NewEpisodeContext(t.ctx, t.session, t.epochs)
}
