package core

import "sync"

// Step records what every bound controller saw and did on one tick.
type Step struct {
	Tick    int
	States  map[ControlSystem]State
	Actions map[ControlSystem]Action
	Rewards map[ControlSystem]float64
	Command Command
}

func NewStep(tick int) *Step {
	return &Step{
		Tick:    tick,
		States:  make(map[ControlSystem]State),
		Actions: make(map[ControlSystem]Action),
		Rewards: make(map[ControlSystem]float64),
	}
}

type Trace struct {
	mtx   *sync.Mutex
	steps []*Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0),
		mtx:   &sync.Mutex{},
	}
}

func (t *Trace) AddStep(s *Step) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[i]
}

func (t *Trace) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.steps)
}

func (t *Trace) Last() *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if len(t.steps) == 0 {
		return nil
	}
	return t.steps[len(t.steps)-1]
}

// Rewards returns the per-tick rewards of one controller in tick order.
func (t *Trace) Rewards(system ControlSystem) []float64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	out := make([]float64, 0, len(t.steps))
	for _, s := range t.steps {
		if r, ok := s.Rewards[system]; ok {
			out = append(out, r)
		}
	}
	return out
}
