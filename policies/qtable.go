package policies

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/util"
	erand "golang.org/x/exp/rand"
)

const (
	separator   = ","
	headerLabel = " Q-TABLE "
)

var ErrMalformedTable = errors.New("malformed q-table")

// QTable maps a state hash to the value of every action hash.
type QTable struct {
	table map[string]map[string]float64

	rand *erand.Rand
}

func NewQTable(src erand.Source) *QTable {
	if src == nil {
		src = erand.NewSource(uint64(time.Now().UnixNano()))
	}
	return &QTable{
		table: make(map[string]map[string]float64),
		rand:  erand.New(src),
	}
}

// Fill adds every (state, action) pair of the domain that is missing
// with a value of 0.
func (q *QTable) Fill(d core.Domain) {
	for _, s := range d.States() {
		row, ok := q.table[s.Hash()]
		if !ok {
			row = make(map[string]float64)
			q.table[s.Hash()] = row
		}
		for _, a := range d.Actions() {
			if _, ok := row[a.Hash()]; !ok {
				row[a.Hash()] = 0
			}
		}
	}
}

func (q *QTable) Get(state, action string) (float64, error) {
	row, ok := q.table[state]
	if !ok {
		return 0, fmt.Errorf("%w: %q", core.ErrUnknownState, state)
	}
	val, ok := row[action]
	if !ok {
		return 0, fmt.Errorf("%w: %q in state %q", core.ErrUnknownAction, action, state)
	}
	return val, nil
}

// Set overwrites an existing entry. Entries are never created here so
// that the table keeps exactly the domain's cross product.
func (q *QTable) Set(state, action string, val float64) error {
	row, ok := q.table[state]
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrUnknownState, state)
	}
	if _, ok := row[action]; !ok {
		return fmt.Errorf("%w: %q in state %q", core.ErrUnknownAction, action, state)
	}
	row[action] = val
	return nil
}

func (q *QTable) GetAll(state string) (map[string]float64, bool) {
	values, ok := q.table[state]
	if !ok {
		return nil, false
	}
	return util.CopyStringFloatMap(values), true
}

func (q *QTable) HasState(state string) bool {
	_, ok := q.table[state]
	return ok
}

func (q *QTable) Size() int {
	return len(q.table)
}

// MaxAmong scans actions in order, keeping every action that attains the
// largest value, and returns one of them chosen uniformly at random.
func (q *QTable) MaxAmong(state string, actions []string) (string, float64, error) {
	row, ok := q.table[state]
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", core.ErrUnknownState, state)
	}
	if len(actions) == 0 {
		return "", 0, fmt.Errorf("%w: no actions to choose from", core.ErrUnknownAction)
	}
	maxActions := make([]string, 0, len(actions))
	maxVal := 0.0
	for _, a := range actions {
		val, ok := row[a]
		if !ok {
			return "", 0, fmt.Errorf("%w: %q in state %q", core.ErrUnknownAction, a, state)
		}
		if len(maxActions) == 0 || val > maxVal {
			maxActions = maxActions[:0]
			maxVal = val
		}
		if val == maxVal {
			maxActions = append(maxActions, a)
		}
	}

	if len(maxActions) == 0 {
		return "", 0, fmt.Errorf("%w: no comparable value in state %q", ErrMalformedTable, state)
	}
	randAction := q.rand.Intn(len(maxActions))
	return maxActions[randAction], maxVal, nil
}

// Read replaces the table with the contents of a persisted table file.
// Rows and columns are keyed by their text, an empty trailing field is
// tolerated and any pair of the domain missing from the file is filled
// with 0. Unknown states or actions and unparsable values fail the read.
func (q *QTable) Read(path string, d core.Domain) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	defer file.Close()

	table := make(map[string]map[string]float64)
	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("error reading file contents: %w", err)
		}
		return fmt.Errorf("%w: %s: missing header", ErrMalformedTable, path)
	}
	header := splitRow(scanner.Text())
	for _, label := range header[1:] {
		if _, err := core.LookupAction(d, label); err != nil {
			return fmt.Errorf("%w: %s: header: %w", ErrMalformedTable, path, err)
		}
	}

	line := 1
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		row := splitRow(text)
		state := row[0]
		if _, err := core.LookupState(d, state); err != nil {
			return fmt.Errorf("%w: %s:%d: %w", ErrMalformedTable, path, line, err)
		}
		if len(row) > len(header) {
			return fmt.Errorf("%w: %s:%d: %d values for %d actions", ErrMalformedTable, path, line, len(row)-1, len(header)-1)
		}
		entries := make(map[string]float64, len(row)-1)
		for i := 1; i < len(row); i++ {
			val, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				return fmt.Errorf("%w: %s:%d: %w", ErrMalformedTable, path, line, err)
			}
			if math.IsNaN(val) || math.IsInf(val, 0) {
				return fmt.Errorf("%w: %s:%d: non-finite value %q", ErrMalformedTable, path, line, row[i])
			}
			entries[header[i]] = val
		}
		table[state] = entries
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file contents: %w", err)
	}

	q.table = table
	q.Fill(d)
	return nil
}

// Write persists the table: a header row with the action hashes then one
// row per state, both in domain order, every field followed by a
// separator.
func (q *QTable) Write(path string, d core.Domain) error {
	bs := new(bytes.Buffer)

	bs.WriteString(headerLabel)
	bs.WriteString(separator)
	for _, a := range d.Actions() {
		bs.WriteString(a.Hash())
		bs.WriteString(separator)
	}
	bs.WriteString("\n")
	for _, s := range d.States() {
		bs.WriteString(s.Hash())
		bs.WriteString(separator)
		for _, a := range d.Actions() {
			val, err := q.Get(s.Hash(), a.Hash())
			if err != nil {
				return err
			}
			bs.WriteString(util.FormatDouble(val))
			bs.WriteString(separator)
		}
		bs.WriteString("\n")
	}

	if err := util.EnsureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, bs.Bytes(), 0644)
}

// splitRow splits on the separator and drops trailing empty fields.
func splitRow(line string) []string {
	fields := strings.Split(strings.TrimRight(line, "\r"), separator)
	for len(fields) > 1 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}
