package steer

import (
	"math"
	"testing"

	"github.com/zeu5/torcs-qlearning/core"
)

func TestEvaluateBoundaries(t *testing.T) {
	cases := []struct {
		p    float64
		want State
	}{
		{0.5, LeftBorder},
		{0.49, LeftMiddle},
		{0.15, Center},
		{0.16, LeftMiddle},
		{0, Center},
		{1.0, Center},
		{0.99, LeftBorder},
		{-0.15, Center},
		{-0.16, RightMiddle},
		{-0.49, RightMiddle},
		{-0.5, RightBorder},
		{-0.99, RightBorder},
		{-1.0, Center},
		{1.7, Center},
		{-3, Center},
	}
	c := NewControl()
	for _, tc := range cases {
		got, err := c.EvaluateState(&core.Sensors{TrackPosition: tc.p})
		if err != nil {
			t.Fatalf("EvaluateState(%v): %v", tc.p, err)
		}
		if got != tc.want {
			t.Errorf("EvaluateState(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestOffTrackNeverProduced(t *testing.T) {
	for p := -2.0; p <= 2.0; p += 0.01 {
		if Evaluate(p) == OffTrack {
			t.Fatalf("OFFTRACK produced for %v", p)
		}
	}
}

func TestReward(t *testing.T) {
	c := NewControl()
	if r := c.CalculateReward(&core.Sensors{TrackPosition: 0}, nil); r != 1.0 {
		t.Fatalf("expected 1.0 on the axis, got %v", r)
	}
	if r := c.CalculateReward(&core.Sensors{TrackPosition: 0.4}, nil); math.Abs(r-0.6) > 1e-12 {
		t.Fatalf("expected 0.6 at 0.4, got %v", r)
	}
	if r := c.CalculateReward(&core.Sensors{TrackPosition: -1.0}, nil); r != 0.0 {
		t.Fatalf("expected 0.0 at the right edge, got %v", r)
	}
}

func TestActions(t *testing.T) {
	want := map[string]float64{
		"TURN_L_HARD": 0.4,
		"TURN_L":      0.1,
		"TURN_C":      0.0,
		"TURN_R":      -0.1,
		"TURN_R_HARD": -0.4,
	}
	actions := NewControl().Actions()
	if len(actions) != len(want) {
		t.Fatalf("expected %d actions, got %d", len(want), len(actions))
	}
	for _, a := range actions {
		if v, ok := want[a.Hash()]; !ok || v != a.Value() {
			t.Errorf("action %s has value %v", a.Hash(), a.Value())
		}
	}
	if len(NewControl().States()) != 6 {
		t.Fatalf("expected 6 states")
	}
}
