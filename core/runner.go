package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/zeu5/torcs-qlearning/util"
)

var (
	ErrTooManyErrors = errors.New("too many consecutive control errors")
)

type RunResult struct {
	Ticks       int
	Epochs      int
	ErrorTicks  int
	Interrupted bool

	Error error
}

func (r *RunResult) IsError() bool {
	return r.Error != nil
}

// Run feeds every snapshot of feed to the controller until the feed is
// exhausted, the context is cancelled or cfg.MaxEpochs episodes are done.
// A restart command from the controller ends the current episode. A
// partially driven episode is flushed when the feed runs out.
func Run(ctx context.Context, feed SensorFeed, c Controller, cfg *RunConfig, w io.Writer) *RunResult {
	result := &RunResult{}

	printer := util.NewTerminalPrinter(w, cfg.ProgressFrequency)
	progress := printer.NewOutput()
	printer.Start(ctx)
	defer printer.Stop()

	consecutiveErrors := 0
TickLoop:
	for {
		select {
		case <-ctx.Done():
			result.Interrupted = true
			break TickLoop
		default:
		}
		if cfg.MaxEpochs > 0 && c.Epochs() >= cfg.MaxEpochs {
			break TickLoop
		}

		sensors, err := feed.Next(ctx)
		if errors.Is(err, io.EOF) {
			if c.Ticks() > 0 {
				if err := c.EndEpisode(); err != nil {
					log.Printf("[RUN] end episode: %v", err)
				}
			}
			break TickLoop
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result.Interrupted = true
			break TickLoop
		}
		if err != nil {
			result.Error = fmt.Errorf("read sensors: %w", err)
			break TickLoop
		}

		cmd, err := c.Control(sensors)
		result.Ticks++
		if err != nil {
			result.ErrorTicks++
			log.Printf("[RUN] tick %d: %v", result.Ticks, err)
			if consecutiveErrors++; cfg.ThresholdConsecutiveErrors > 0 && consecutiveErrors >= cfg.ThresholdConsecutiveErrors {
				result.Error = ErrTooManyErrors
				break TickLoop
			}
			continue
		}
		consecutiveErrors = 0

		if cmd.RestartRace {
			if err := c.EndEpisode(); err != nil {
				log.Printf("[RUN] end episode: %v", err)
			}
		}
		progress.TrySet(c.Status())
	}
	progress.Set(c.Status())
	result.Epochs = c.Epochs()
	return result
}
