package policies

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/systems/accel"
	"github.com/zeu5/torcs-qlearning/systems/steer"
	"github.com/zeu5/torcs-qlearning/util"
	erand "golang.org/x/exp/rand"
)

type memoryLog struct {
	lines []string
}

func (m *memoryLog) Append(line string) error {
	m.lines = append(m.lines, line)
	return nil
}

func newSteer(t *testing.T, config QLearningConfig) *QLearning {
	t.Helper()
	if config.TablePath == "" {
		config.TablePath = filepath.Join(t.TempDir(), steer.TableFile)
	}
	if config.Source == nil {
		config.Source = erand.NewSource(7)
	}
	q, err := NewQLearning(steer.NewControl(), config)
	if err != nil {
		t.Fatalf("NewQLearning: %v", err)
	}
	return q
}

func setRow(t *testing.T, q *QLearning, state core.State, values ...float64) {
	t.Helper()
	for i, a := range q.Domain().Actions() {
		if err := q.Table().Set(state.Hash(), a.Hash(), values[i]); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
}

func snapshot(q *QLearning) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	for _, s := range q.Domain().States() {
		row, _ := q.Table().GetAll(s.Hash())
		out[s.Hash()] = row
	}
	return out
}

func TestZeroInitialTable(t *testing.T) {
	for _, d := range []core.Domain{steer.NewControl(), accel.NewControl()} {
		q, err := NewQLearning(d, QLearningConfig{
			TablePath: filepath.Join(t.TempDir(), "missing.csv"),
			Source:    erand.NewSource(1),
		})
		if err != nil {
			t.Fatalf("NewQLearning(%s): %v", d.System(), err)
		}
		if q.Table().Size() != len(d.States()) {
			t.Fatalf("expected %d rows, got %d", len(d.States()), q.Table().Size())
		}
		for _, s := range d.States() {
			for _, a := range d.Actions() {
				v, err := q.Value(s, a)
				if err != nil {
					t.Fatalf("Value(%s, %s): %v", s.Hash(), a.Hash(), err)
				}
				if v != 0 {
					t.Fatalf("expected 0 at (%s, %s), got %v", s.Hash(), a.Hash(), v)
				}
			}
		}
	}
}

func TestUpdateFormula(t *testing.T) {
	q := newSteer(t, QLearningConfig{})
	if err := q.Table().Set(steer.Center.Hash(), steer.TurnCenter.Hash(), 0.5); err != nil {
		t.Fatal(err)
	}
	setRow(t, q, steer.LeftMiddle, 0.2, 0.9, 0.9, -1, 0)

	if _, err := q.Update(steer.Center, steer.LeftMiddle, steer.TurnCenter, 0.8); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := q.Value(steer.Center, steer.TurnCenter)
	if got != 1.3085 {
		t.Fatalf("expected 1.3085, got %v", got)
	}
}

func TestUpdateRoundsToEightDecimals(t *testing.T) {
	q := newSteer(t, QLearningConfig{})
	if _, err := q.Update(steer.Center, steer.Center, steer.TurnLeft, 1.0/3.0); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := q.Value(steer.Center, steer.TurnLeft)
	want := util.Round(LearningRate*(1.0/3.0), 8)
	if got != want || got != 0.23333333 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestUpdateWithoutPreviousState(t *testing.T) {
	q := newSteer(t, QLearningConfig{})
	setRow(t, q, steer.Center, 1, 2, 3, 4, 5)
	before := snapshot(q)

	next, err := q.Update(nil, steer.Center, steer.TurnLeft, 100)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if next != steer.TurnRightHard {
		t.Fatalf("expected the greedy action TURN_R_HARD, got %v", next)
	}
	after := snapshot(q)
	for s, row := range before {
		for a, v := range row {
			if after[s][a] != v {
				t.Fatalf("(%s, %s) changed from %v to %v", s, a, v, after[s][a])
			}
		}
	}
}

func TestSaveAndReloadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources", steer.TableFile)
	q := newSteer(t, QLearningConfig{TablePath: path})
	transitions := []struct {
		prev, cur steer.State
		action    steer.Action
		reward    float64
	}{
		{steer.Center, steer.LeftMiddle, steer.TurnLeft, 0.91},
		{steer.LeftMiddle, steer.LeftBorder, steer.TurnLeftHard, 0.42},
		{steer.LeftBorder, steer.Center, steer.TurnRightHard, 0.35},
		{steer.Center, steer.Center, steer.TurnCenter, 1.0 / 7.0},
		{steer.RightBorder, steer.RightMiddle, steer.TurnRight, 0.0001},
	}
	for _, tr := range transitions {
		if _, err := q.Update(tr.prev, tr.cur, tr.action, tr.reward); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if err := q.SaveTable(); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}

	reloaded := newSteer(t, QLearningConfig{TablePath: path})
	want := snapshot(q)
	got := snapshot(reloaded)
	for s, row := range want {
		for a, v := range row {
			if got[s][a] != v {
				t.Fatalf("(%s, %s): saved %v, loaded %v", s, a, v, got[s][a])
			}
		}
	}
}

func TestSavedTableFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), steer.TableFile)
	q := newSteer(t, QLearningConfig{TablePath: path})
	if err := q.Table().Set(steer.LeftBorder.Hash(), steer.TurnRight.Hash(), -10); err != nil {
		t.Fatal(err)
	}
	if err := q.SaveTable(); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(bs), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header and 6 rows, got %d lines", len(lines))
	}
	if lines[0] != " Q-TABLE ,TURN_L_HARD,TURN_L,TURN_C,TURN_R,TURN_R_HARD," {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "LEFT_BORDER,0.0,0.0,0.0,-10.0,0.0," {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if lines[6] != "OFFTRACK,0.0,0.0,0.0,0.0,0.0," {
		t.Fatalf("unexpected last row %q", lines[6])
	}
}

func TestLoadFillsMissingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), steer.TableFile)
	content := " Q-TABLE ,TURN_L_HARD,TURN_L,TURN_C,TURN_R,TURN_R_HARD,\n" +
		"CENTER,1.0E-4,0.25,-3.5,\r\n" +
		"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	q := newSteer(t, QLearningConfig{TablePath: path})
	cases := map[steer.Action]float64{
		steer.TurnLeftHard:  0.0001,
		steer.TurnLeft:      0.25,
		steer.TurnCenter:    -3.5,
		steer.TurnRight:     0,
		steer.TurnRightHard: 0,
	}
	for a, want := range cases {
		if got, _ := q.Value(steer.Center, a); got != want {
			t.Fatalf("CENTER/%s: expected %v, got %v", a.Hash(), want, got)
		}
	}
	if got, err := q.Value(steer.OffTrack, steer.TurnLeft); err != nil || got != 0 {
		t.Fatalf("expected missing row to be filled with 0, got %v, %v", got, err)
	}
}

func TestLoadRejectsMalformedTable(t *testing.T) {
	cases := map[string]string{
		"bad number":     " Q-TABLE ,TURN_L,\nCENTER,abc,\n",
		"unknown state":  " Q-TABLE ,TURN_L,\nSTATE_45,1.0,\n",
		"unknown action": " Q-TABLE ,ACCEL,\nCENTER,1.0,\n",
		"extra column":   " Q-TABLE ,TURN_L,\nCENTER,1.0,2.0,\n",
		"not a number":   " Q-TABLE ,TURN_L,TURN_C,\nCENTER,NaN,NaN,\n",
		"infinity":       " Q-TABLE ,TURN_L,\nCENTER,Infinity,\n",
		"negative inf":   " Q-TABLE ,TURN_L,\nCENTER,-Inf,\n",
		"empty":          "",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), steer.TableFile)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := NewQLearning(steer.NewControl(), QLearningConfig{TablePath: path, Source: erand.NewSource(1)})
		if !errors.Is(err, ErrMalformedTable) {
			t.Errorf("%s: expected ErrMalformedTable, got %v", name, err)
		}
	}
}

func TestGreedyWithoutExploration(t *testing.T) {
	for _, eps := range []float64{0, -0.5} {
		q := newSteer(t, QLearningConfig{Epsilon: eps})
		setRow(t, q, steer.RightMiddle, 0.1, 0.2, 0.7, 0.3, 0.4)
		for i := 0; i < 200; i++ {
			a, err := q.NextAction(steer.RightMiddle)
			if err != nil {
				t.Fatalf("NextAction: %v", err)
			}
			if a != steer.TurnCenter {
				t.Fatalf("epsilon %v: expected TURN_C, got %s", eps, a.Hash())
			}
		}
	}
}

func TestGreedyTieBreakIsRandom(t *testing.T) {
	q := newSteer(t, QLearningConfig{})
	setRow(t, q, steer.LeftMiddle, 0.5, 0.9, 0.1, 0.9, 0.9)
	seen := make(map[string]int)
	for i := 0; i < 600; i++ {
		a, err := q.NextAction(steer.LeftMiddle)
		if err != nil {
			t.Fatalf("NextAction: %v", err)
		}
		seen[a.Hash()]++
	}
	if len(seen) != 3 {
		t.Fatalf("expected all three tied actions, got %v", seen)
	}
	for _, a := range []string{"TURN_L", "TURN_R", "TURN_R_HARD"} {
		if seen[a] < 100 {
			t.Fatalf("expected %s to be picked about a third of the time, got %v", a, seen)
		}
	}
}

func TestExplorationIgnoresValues(t *testing.T) {
	q := newSteer(t, QLearningConfig{Epsilon: 1.0})
	setRow(t, q, steer.Center, 0, 0, 5, 0, 0)
	seen := make(map[string]bool)
	for i := 0; i < 300; i++ {
		a, err := q.NextAction(steer.Center)
		if err != nil {
			t.Fatalf("NextAction: %v", err)
		}
		seen[a.Hash()] = true
	}
	if len(seen) != 5 {
		t.Fatalf("expected every action to be explored, got %v", seen)
	}
}

func TestSameSeedSameChoices(t *testing.T) {
	a := newSteer(t, QLearningConfig{Epsilon: 0.3, Source: erand.NewSource(99)})
	b := newSteer(t, QLearningConfig{Epsilon: 0.3, Source: erand.NewSource(99)})
	for i := 0; i < 50; i++ {
		x, _ := a.NextAction(steer.Center)
		y, _ := b.NextAction(steer.Center)
		if x != y {
			t.Fatalf("draw %d diverged: %s vs %s", i, x.Hash(), y.Hash())
		}
	}
}

func TestDecreaseEpsilonHasNoFloor(t *testing.T) {
	q := newSteer(t, QLearningConfig{Epsilon: 0.01})
	q.DecreaseEpsilon()
	q.DecreaseEpsilon()
	q.DecreaseEpsilon()
	if got := q.Epsilon(); got >= 0 || got < -0.0051 {
		t.Fatalf("expected epsilon just below zero, got %v", got)
	}
}

func TestWrongDomainFails(t *testing.T) {
	q := newSteer(t, QLearningConfig{})
	if _, err := q.NextAction(accel.State(45)); !errors.Is(err, core.ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
	if _, err := q.Update(steer.Center, accel.State(45), steer.TurnLeft, 1); !errors.Is(err, core.ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
	if _, err := q.Update(steer.Center, steer.Center, accel.Brake, 1); !errors.Is(err, core.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestSaveStatistics(t *testing.T) {
	q := newSteer(t, QLearningConfig{})
	if err := q.SaveStatistics("x"); !errors.Is(err, ErrNoStatisticsLog) {
		t.Fatalf("expected ErrNoStatisticsLog, got %v", err)
	}

	log := &memoryLog{}
	q = newSteer(t, QLearningConfig{Statistics: log})
	for _, line := range []string{"first", "second"} {
		if err := q.SaveStatistics(line); err != nil {
			t.Fatalf("SaveStatistics: %v", err)
		}
	}
	if strings.Join(log.lines, "|") != "first|second" {
		t.Fatalf("unexpected lines %v", log.lines)
	}
}

func TestConstructorUsesResourcesDir(t *testing.T) {
	dir := t.TempDir()
	c := NewQLearningConstructor(dir, QLearningConfig{Source: erand.NewSource(3)})
	p, err := c.NewPolicy(accel.NewControl())
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	if err := p.SaveTable(); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	if !util.FileExists(filepath.Join(dir, accel.TableFile)) {
		t.Fatalf("expected %s to be written", accel.TableFile)
	}
}
