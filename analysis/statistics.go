package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// EpisodeStatistics is the summary line written for every finished
// episode.
type EpisodeStatistics struct {
	Session     string
	Epoch       int
	Ticks       int
	Laps        int
	Distance    float64
	HighSpeed   float64
	SteerReward float64
	AccelReward float64
	CompleteLap bool
	OffTrack    bool
	TimeOut     bool
}

const statisticsFields = 11

func (e EpisodeStatistics) Line() string {
	return strings.Join([]string{
		e.Session,
		strconv.Itoa(e.Epoch),
		strconv.Itoa(e.Ticks),
		strconv.Itoa(e.Laps),
		strconv.FormatFloat(e.Distance, 'f', 2, 64),
		strconv.FormatFloat(e.HighSpeed, 'f', 2, 64),
		strconv.FormatFloat(e.SteerReward, 'f', 4, 64),
		strconv.FormatFloat(e.AccelReward, 'f', 4, 64),
		strconv.FormatBool(e.CompleteLap),
		strconv.FormatBool(e.OffTrack),
		strconv.FormatBool(e.TimeOut),
	}, ",")
}

func ParseEpisodeStatistics(line string) (EpisodeStatistics, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != statisticsFields {
		return EpisodeStatistics{}, fmt.Errorf("expected %d fields, got %d", statisticsFields, len(fields))
	}
	var (
		e   EpisodeStatistics
		err error
	)
	e.Session = fields[0]
	ints := []*int{&e.Epoch, &e.Ticks, &e.Laps}
	for i, dst := range ints {
		if *dst, err = strconv.Atoi(fields[1+i]); err != nil {
			return EpisodeStatistics{}, fmt.Errorf("field %d: %w", 1+i, err)
		}
	}
	fls := []*float64{&e.Distance, &e.HighSpeed, &e.SteerReward, &e.AccelReward}
	for i, dst := range fls {
		if *dst, err = strconv.ParseFloat(fields[4+i], 64); err != nil {
			return EpisodeStatistics{}, fmt.Errorf("field %d: %w", 4+i, err)
		}
	}
	bools := []*bool{&e.CompleteLap, &e.OffTrack, &e.TimeOut}
	for i, dst := range bools {
		if *dst, err = strconv.ParseBool(fields[8+i]); err != nil {
			return EpisodeStatistics{}, fmt.Errorf("field %d: %w", 8+i, err)
		}
	}
	return e, nil
}

// ParseStatisticsLines parses every line it understands. Lines in another
// format (older logs, hand written notes) are counted in skipped.
func ParseStatisticsLines(lines []string) (records []EpisodeStatistics, skipped int) {
	records = make([]EpisodeStatistics, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := ParseEpisodeStatistics(line)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, e)
	}
	return records, skipped
}

type Summary struct {
	Episodes      int
	MeanDistance  float64
	StdDistance   float64
	MaxDistance   float64
	MeanHighSpeed float64
	MaxHighSpeed  float64
	MeanSteer     float64
	MeanAccel     float64
	CompleteLaps  int
	OffTracks     int
	TimeOuts      int
}

func Summarize(records []EpisodeStatistics) Summary {
	s := Summary{Episodes: len(records)}
	if len(records) == 0 {
		return s
	}
	distances := make([]float64, len(records))
	speeds := make([]float64, len(records))
	steer := make([]float64, len(records))
	accel := make([]float64, len(records))
	for i, r := range records {
		distances[i] = r.Distance
		speeds[i] = r.HighSpeed
		steer[i] = r.SteerReward
		accel[i] = r.AccelReward
		if r.CompleteLap {
			s.CompleteLaps++
		}
		if r.OffTrack {
			s.OffTracks++
		}
		if r.TimeOut {
			s.TimeOuts++
		}
	}
	s.MeanDistance = stat.Mean(distances, nil)
	if len(distances) > 1 {
		s.StdDistance = stat.StdDev(distances, nil)
	}
	s.MaxDistance = floats.Max(distances)
	s.MeanHighSpeed = stat.Mean(speeds, nil)
	s.MaxHighSpeed = floats.Max(speeds)
	s.MeanSteer = stat.Mean(steer, nil)
	s.MeanAccel = stat.Mean(accel, nil)
	return s
}

// MeanReward is the average of rewards, 0 for an empty slice.
func MeanReward(rewards []float64) float64 {
	if len(rewards) == 0 {
		return 0
	}
	m := stat.Mean(rewards, nil)
	if math.IsNaN(m) {
		return 0
	}
	return m
}

func (s Summary) String() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "episodes:      %d\n", s.Episodes)
	fmt.Fprintf(b, "distance:      mean %.2f, std %.2f, max %.2f\n", s.MeanDistance, s.StdDistance, s.MaxDistance)
	fmt.Fprintf(b, "high speed:    mean %.2f, max %.2f\n", s.MeanHighSpeed, s.MaxHighSpeed)
	fmt.Fprintf(b, "mean reward:   steer %.4f, accel %.4f\n", s.MeanSteer, s.MeanAccel)
	fmt.Fprintf(b, "complete laps: %d, off track: %d, time outs: %d\n", s.CompleteLaps, s.OffTracks, s.TimeOuts)
	return b.String()
}
