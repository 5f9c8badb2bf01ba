package util

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// TerminalPrinter periodically redraws one line per registered output
// in place. Outputs are updated by the training loop and read by the
// printer goroutine.
type TerminalPrinter struct {
	parallelOutputs []*ParallelOutput
	frequency       time.Duration
	doneCh          chan struct{}
	stopOnce        sync.Once
	stoppedCh       chan struct{}

	writer  *uilive.Writer
	writers []io.Writer
}

// MinPrintFrequency bounds the refresh period from below.
const MinPrintFrequency = 10 * time.Millisecond

func NewTerminalPrinter(out io.Writer, frequency time.Duration) *TerminalPrinter {
	if frequency < MinPrintFrequency {
		frequency = MinPrintFrequency
	}
	writer := uilive.New()
	writer.Out = out
	return &TerminalPrinter{
		parallelOutputs: make([]*ParallelOutput, 0),
		frequency:       frequency,
		doneCh:          make(chan struct{}),
		stoppedCh:       make(chan struct{}),

		writer:  writer,
		writers: make([]io.Writer, 0),
	}
}

// NewOutput registers a new line. The first output is written by the
// main writer, every following one gets its own bypass line.
func (p *TerminalPrinter) NewOutput() *ParallelOutput {
	out := NewParallelOutput()
	if len(p.parallelOutputs) == 0 {
		p.writers = append(p.writers, p.writer)
	} else {
		p.writers = append(p.writers, p.writer.Newline())
	}
	p.parallelOutputs = append(p.parallelOutputs, out)
	return out
}

func (p *TerminalPrinter) Start(ctx context.Context) {
	go func() {
		defer close(p.stoppedCh)
		for {
			select {
			case <-p.doneCh:
				p.print()
				return
			case <-ctx.Done():
				p.print()
				return
			case <-time.After(p.frequency):
				p.print()
			}
		}
	}()
}

// Stop flushes the last state of every output and waits for the
// printer goroutine to exit.
func (p *TerminalPrinter) Stop() {
	p.stopOnce.Do(func() { close(p.doneCh) })
	<-p.stoppedCh
}

func (p *TerminalPrinter) print() {
	for i, output := range p.parallelOutputs {
		fmt.Fprint(p.writers[i], output.Get()+"\n")
	}
	p.writer.Flush()
}

// PARALLEL OUTPUT
// used to update and print training progress
type ParallelOutput struct {
	mu        *sync.Mutex
	printable string
}

func NewParallelOutput() *ParallelOutput {
	return &ParallelOutput{
		mu:        new(sync.Mutex),
		printable: "",
	}
}

// Set the output string (blocking)
func (p *ParallelOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// Try to set the output string (non-blocking)
func (p *ParallelOutput) TrySet(s string) bool {
	success := p.mu.TryLock()
	if success {
		defer p.mu.Unlock()
		p.printable = s
		return true
	}
	return false
}

// Get the output string (blocking)
func (p *ParallelOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}
