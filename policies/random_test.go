package policies

import (
	"errors"
	"testing"

	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/systems/accel"
	erand "golang.org/x/exp/rand"
)

func TestRandomPolicy(t *testing.T) {
	p := NewRandomPolicy(accel.NewControl(), nil, erand.NewSource(5))
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		a, err := p.Update(accel.State(45), accel.State(50), accel.Accel, -10)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		seen[a.Hash()] = true
	}
	if !seen["ACCEL"] || !seen["BRAKE"] {
		t.Fatalf("expected both actions, got %v", seen)
	}
	if _, err := p.NextAction(accel.State(47)); !errors.Is(err, core.ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
	if err := p.SaveTable(); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
}
