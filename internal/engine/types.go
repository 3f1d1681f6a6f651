package engine

const (
	MinLevel = 1
	MaxLevel = 4
)

// Config tunes the Mix scheduler.
type Config struct {
	// MaxLevel is the level a card must pass to retire.
	MaxLevel int
	// MaxRounds caps full passes over the deck; 0 means no cap.
	MaxRounds int
	// BasePoints awarded for a correct answer, by question level.
	BasePoints map[int]int
	// FollowUpMultiplier discounts points earned on follow-up questions.
	FollowUpMultiplier float64
	// MissedWeight biases question selection toward previously missed
	// questions. 1.0 disables the bias.
	MissedWeight float64
}

func DefaultConfig() *Config {
	return &Config{
		MaxLevel:  MaxLevel,
		MaxRounds: 12,
		BasePoints: map[int]int{
			1: 10,
			2: 15,
			3: 20,
			4: 25,
		},
		FollowUpMultiplier: 0.8,
		MissedWeight:       3.0,
	}
}

func (c *Config) pointsForLevel(level int) int {
	if p, ok := c.BasePoints[level]; ok {
		return p
	}
	return c.BasePoints[MinLevel]
}
