// Package feeds replays recorded sensor snapshots.
package feeds

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/zeu5/torcs-qlearning/core"
)

const maxLineSize = 1 << 20

// JSONLFeed reads one JSON encoded core.Sensors per line.
type JSONLFeed struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

var _ core.SensorFeed = &JSONLFeed{}

func NewJSONLFeed(r io.Reader) *JSONLFeed {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	f := &JSONLFeed{scanner: scanner}
	if c, ok := r.(io.Closer); ok {
		f.closer = c
	}
	return f
}

// OpenJSONLFeed opens the recording at path. The caller closes the feed.
func OpenJSONLFeed(path string) (*JSONLFeed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	return NewJSONLFeed(file), nil
}

// Next returns the next snapshot, skipping blank lines. It returns io.EOF
// once the recording is exhausted.
func (f *JSONLFeed) Next(ctx context.Context) (*core.Sensors, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !f.scanner.Scan() {
			if err := f.scanner.Err(); err != nil {
				return nil, fmt.Errorf("feed line %d: %w", f.line+1, err)
			}
			return nil, io.EOF
		}
		f.line++
		bs := bytes.TrimSpace(f.scanner.Bytes())
		if len(bs) == 0 {
			continue
		}
		sensors := &core.Sensors{}
		if err := json.Unmarshal(bs, sensors); err != nil {
			return nil, fmt.Errorf("feed line %d: %w", f.line, err)
		}
		return sensors, nil
	}
}

// Line is the number of the last line read.
func (f *JSONLFeed) Line() int {
	return f.line
}

func (f *JSONLFeed) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// SliceFeed replays snapshots held in memory.
type SliceFeed struct {
	snapshots []*core.Sensors
	next      int
}

var _ core.SensorFeed = &SliceFeed{}

func NewSliceFeed(snapshots ...*core.Sensors) *SliceFeed {
	return &SliceFeed{snapshots: snapshots}
}

func (f *SliceFeed) Next(ctx context.Context) (*core.Sensors, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.next >= len(f.snapshots) {
		return nil, io.EOF
	}
	s := f.snapshots[f.next]
	f.next++
	return s, nil
}

// WriteJSONL records snapshots in the format read by JSONLFeed.
func WriteJSONL(w io.Writer, snapshots ...*core.Sensors) error {
	enc := json.NewEncoder(w)
	for _, s := range snapshots {
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
	}
	return nil
}
