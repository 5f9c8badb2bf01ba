package core

// Policy is a learning controller bound to one Domain.
type Policy interface {
	// Update learns from the transition prev --action--> cur and returns
	// the action to take next. A nil prev means the episode just started
	// and nothing is learned.
	Update(prev, cur State, action Action, reward float64) (Action, error)
	NextAction(State) (Action, error)
	DecreaseEpsilon()
	SaveTable() error
	SaveStatistics(line string) error
}

type PolicyConstructor interface {
	NewPolicy(Domain) (Policy, error)
}

// StatisticsLog keeps one summary line per finished episode.
type StatisticsLog interface {
	Append(line string) error
}

// Controller turns one sensor snapshot into one vehicle command.
type Controller interface {
	Control(*Sensors) (Command, error)
	// EndEpisode flushes the finished episode and prepares the next one.
	EndEpisode() error
	// Ticks is the number of ticks seen in the current episode.
	Ticks() int
	// Epochs is the number of finished episodes.
	Epochs() int
	// Status is a one line description of the current progress.
	Status() string
}
