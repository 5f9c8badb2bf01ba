package core

import "time"

// RunConfig bounds a training run over a sensor feed.
type RunConfig struct {
	// MaxEpochs stops the run after that many finished episodes. Zero
	// means run until the feed is exhausted.
	MaxEpochs int
	// ProgressFrequency is the refresh period of the live progress line.
	ProgressFrequency time.Duration

	ThresholdConsecutiveErrors int
}

func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		MaxEpochs:         99,
		ProgressFrequency: 200 * time.Millisecond,

		ThresholdConsecutiveErrors: 20,
	}
}

type DataSet interface{}

// Analyzer inspects every finished episode.
type Analyzer interface {
	Analyze(*EpisodeContext)
	DataSet() DataSet
	Reset()
}
