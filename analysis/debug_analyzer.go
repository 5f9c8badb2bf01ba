package analysis

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path"

	"github.com/zeu5/torcs-qlearning/core"
)

// PrintDebugAnalyzer dumps the tick trace of every episode to a text file
// under <savePath>/traces.
type PrintDebugAnalyzer struct {
	savePath string
	// will save the trace to the file only after the epoch number reaches this threshold
	thresholdEpoch int
}

var _ core.Analyzer = &PrintDebugAnalyzer{}

func NewPrintDebugAnalyzer(savePath string, threshold int) *PrintDebugAnalyzer {
	// create a traces directory under save path if not exists
	if _, err := os.Stat(path.Join(savePath, "traces")); os.IsNotExist(err) {
		os.MkdirAll(path.Join(savePath, "traces"), 0755)
	}
	return &PrintDebugAnalyzer{
		savePath:       path.Join(savePath, "traces"),
		thresholdEpoch: threshold,
	}
}

func (a *PrintDebugAnalyzer) Analyze(eCtx *core.EpisodeContext) {
	if eCtx.Epoch < a.thresholdEpoch {
		return
	}
	buf := new(bytes.Buffer)
	for i := 0; i < eCtx.Trace.Len(); i++ {
		buf.WriteString(stepToString(eCtx.Trace.Step(i)))
		buf.WriteString("\n")
	}
	file := path.Join(a.savePath, traceFileName(eCtx))
	if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
		log.Printf("[DEBUG] write trace: %v", err)
	}
}

func traceFileName(eCtx *core.EpisodeContext) string {
	if eCtx.Session == "" {
		return fmt.Sprintf("trace_%d.txt", eCtx.Epoch)
	}
	return fmt.Sprintf("%s_trace_%d.txt", eCtx.Session, eCtx.Epoch)
}

var traceSystems = []core.ControlSystem{core.Steering, core.Acceleration, core.Gear}

func stepToString(step *core.Step) string {
	out := fmt.Sprintf("Tick %d\n", step.Tick)
	for _, system := range traceSystems {
		state, ok := step.States[system]
		if !ok {
			continue
		}
		out += fmt.Sprintf("%s: state %s, action %s, reward %g\n",
			system, state.Hash(), actionToString(step.Actions[system]), step.Rewards[system])
	}
	out += commandToString(step.Command)
	return out
}

func actionToString(action core.Action) string {
	if action == nil {
		return "none"
	}
	return fmt.Sprintf("%s (%g)", action.Hash(), action.Value())
}

func commandToString(cmd core.Command) string {
	if cmd.RestartRace {
		return "Command: restart race\n"
	}
	return fmt.Sprintf("Command: accelerate %g, brake %g, steering %g, gear %d\n",
		cmd.Accelerate, cmd.Brake, cmd.Steering, cmd.Gear)
}

func (a *PrintDebugAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *PrintDebugAnalyzer) Reset() {
	// do nothing
}
