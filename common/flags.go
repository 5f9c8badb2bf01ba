package common

import (
	"os"
	"path"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/util"
)

const (
	PolicyQLearning = "qlearning"
	PolicyRandom    = "random"
)

// Environment variables read by LoadEnv.
const (
	EnvResourcesDir   = "TORCS_RESOURCES"
	EnvStatisticsPath = "TORCS_STATISTICS"
	EnvStatisticsDB   = "TORCS_STATISTICS_DB"
	EnvEpsilon        = "TORCS_EPSILON"
)

type Flags struct {
	StorageFlags
	SavePath string
	LearningFlags
	RunFlags
	RecordTraces bool
}

type StorageFlags struct {
	// ResourcesDir holds the persisted tables.
	ResourcesDir   string
	StatisticsPath string
	// StatisticsDB, when set, keeps the statistics in SQLite instead of
	// the flat file.
	StatisticsDB string
}

type LearningFlags struct {
	Policy  string
	Epsilon float64
	// Seed of the random source. Zero seeds from the clock.
	Seed uint64
}

type RunFlags struct {
	MaxEpochs            int
	MaxConsecutiveErrors int
	ProgressFrequency    time.Duration
}

func DefaultFlags() *Flags {
	return &Flags{
		StorageFlags: StorageFlags{
			ResourcesDir:   "mdp/resources",
			StatisticsPath: "mdp/resources/StatisticsTest.csv",
			StatisticsDB:   "",
		},
		SavePath: "results",
		LearningFlags: LearningFlags{
			Policy:  PolicyQLearning,
			Epsilon: 0.0,
			Seed:    0,
		},
		RunFlags: RunFlags{
			MaxEpochs:            99,
			MaxConsecutiveErrors: 20,
			ProgressFrequency:    200 * time.Millisecond,
		},
		RecordTraces: false,
	}
}

// LoadEnv reads a .env file in the working directory, if any, and lets
// the environment override the defaults. Flags given on the command line
// still win.
func (f *Flags) LoadEnv() {
	_ = godotenv.Load(".env")

	if v := os.Getenv(EnvResourcesDir); v != "" {
		f.ResourcesDir = v
	}
	if v := os.Getenv(EnvStatisticsPath); v != "" {
		f.StatisticsPath = v
	}
	if v := os.Getenv(EnvStatisticsDB); v != "" {
		f.StatisticsDB = v
	}
	if v := os.Getenv(EnvEpsilon); v != "" {
		if eps, err := strconv.ParseFloat(v, 64); err == nil {
			f.Epsilon = eps
		}
	}
}

func (f *Flags) RunConfig() *core.RunConfig {
	return &core.RunConfig{
		MaxEpochs:                  f.MaxEpochs,
		ProgressFrequency:          f.ProgressFrequency,
		ThresholdConsecutiveErrors: f.MaxConsecutiveErrors,
	}
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}
