package topic

// Difficulty represents a question difficulty level.
type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Advanced
)

// AllDifficulties returns the levels in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// String returns the level's wire name.
func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	default:
		return "unknown"
	}
}

// ParseDifficulty resolves a wire name to a level. Unrecognized input
// returns Beginner and false.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch s {
	case "beginner":
		return Beginner, true
	case "intermediate":
		return Intermediate, true
	case "advanced":
		return Advanced, true
	}
	return Beginner, false
}

// Up moves one level harder, clamped at Advanced.
func (d Difficulty) Up() Difficulty {
	if d >= Advanced {
		return Advanced
	}
	return d + 1
}

// Down moves one level easier, clamped at Beginner.
func (d Difficulty) Down() Difficulty {
	if d <= Beginner {
		return Beginner
	}
	return d - 1
}

// Clamp forces d into the valid range.
func (d Difficulty) Clamp() Difficulty {
	if d < Beginner {
		return Beginner
	}
	if d > Advanced {
		return Advanced
	}
	return d
}
