package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/torcs-qlearning/policies"
	"github.com/zeu5/torcs-qlearning/systems/steer"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := RootCommand()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestInitWritesZeroTables(t *testing.T) {
	dir := t.TempDir()
	resources := filepath.Join(dir, "resources")
	common := []string{"--resources", resources, "--save-path", filepath.Join(dir, "results")}

	out := execute(t, append(common, "init")...)
	if strings.Count(out, "wrote") != 2 {
		t.Fatalf("expected two tables written, got %q", out)
	}
	out = execute(t, append(common, "init")...)
	if strings.Count(out, "skipping") != 2 {
		t.Fatalf("expected existing tables to be kept, got %q", out)
	}

	out = execute(t, append(common, "inspect", "accel")...)
	if !strings.Contains(out, "STATE_195") || !strings.Contains(out, "BRAKE") {
		t.Fatalf("unexpected inspect output %q", out)
	}
}

func TestRenderTableHighlightsBest(t *testing.T) {
	d := steer.NewControl()
	table := policies.NewQTable(nil)
	table.Fill(d)
	if err := table.Set(steer.Center.Hash(), steer.TurnCenter.Hash(), 0.63); err != nil {
		t.Fatal(err)
	}

	plain := new(bytes.Buffer)
	if err := renderTable(plain, table, d, aurora.NewAurora(false)); err != nil {
		t.Fatalf("renderTable: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(plain.String()), "\n")
	if len(lines) != len(d.States())+1 {
		t.Fatalf("expected a header and %d rows, got %d lines", len(d.States()), len(lines))
	}
	if !strings.HasPrefix(lines[0], "STEERING") || !strings.Contains(lines[0], "TURN_R_HARD") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(plain.String(), "0.63") {
		t.Fatalf("expected the learned value in the output")
	}

	colored := new(bytes.Buffer)
	if err := renderTable(colored, table, d, aurora.NewAurora(true)); err != nil {
		t.Fatalf("renderTable: %v", err)
	}
	if strings.Contains(plain.String(), "\x1b[") || !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("expected escape codes only when colors are enabled")
	}
}

func TestTableDomain(t *testing.T) {
	if d, err := tableDomain("steer"); err != nil || d.TableFile() != steer.TableFile {
		t.Fatalf("unexpected steering domain %v, %v", d, err)
	}
	if _, err := tableDomain("gear"); err == nil {
		t.Fatalf("expected gear to need external rules")
	}
	if _, err := tableDomain("throttle"); err == nil {
		t.Fatalf("expected an unknown system error")
	}
}
