package adapt

import (
	"os"
	"strconv"

	"github.com/abhisek/studybuddy/internal/student"
	"github.com/abhisek/studybuddy/internal/topic"
)

// Config holds the difficulty adaptation policy.
type Config struct {
	// Window is how many recent attempts on a topic the controller
	// inspects. Fewer attempts than this leaves the level unchanged.
	Window int

	// PromoteStreak is the consecutive-correct run that earns a
	// promotion, provided no hint was used inside the window.
	PromoteStreak int

	// DemoteAccuracy is the window accuracy below which the level
	// drops one step.
	DemoteAccuracy float64
}

// DefaultConfig returns the default adaptation policy.
func DefaultConfig() Config {
	return Config{
		Window:         3,
		PromoteStreak:  2,
		DemoteAccuracy: 0.5,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling
// back to defaults for unset or unparsable values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("STUDYBUDDY_ADAPT_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Window = n
		}
	}
	if v := os.Getenv("STUDYBUDDY_ADAPT_PROMOTE_STREAK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PromoteStreak = n
		}
	}
	if v := os.Getenv("STUDYBUDDY_ADAPT_DEMOTE_ACCURACY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.DemoteAccuracy = f
		}
	}
	return cfg
}

// Controller decides the difficulty for the next question on a topic.
type Controller struct {
	cfg Config
}

// NewController returns a controller with the given policy.
func NewController(cfg Config) *Controller {
	if cfg.Window <= 0 {
		cfg = DefaultConfig()
	}
	return &Controller{cfg: cfg}
}

// NextDifficulty returns the level the next question should be served
// at, given the level the learner is currently working at. The result
// moves at most one step and never leaves the valid range.
//
// Demotion is checked before promotion, so a low-accuracy window can
// never promote: the level drops when window accuracy falls below the
// cutoff or when hints propped up a majority of the window. It rises
// when the current correct streak has reached the threshold without
// any hints inside the window. Anything else holds.
func (c *Controller) NextDifficulty(current topic.Difficulty, p *student.Profile, tp topic.Topic) topic.Difficulty {
	current = current.Clamp()

	window := p.LastN(tp, c.cfg.Window)
	if len(window) < c.cfg.Window {
		return current
	}

	correct := 0
	for _, a := range window {
		if a.Correct {
			correct++
		}
	}
	hinted := p.HintsInLastN(tp, c.cfg.Window)

	accuracy := float64(correct) / float64(len(window))
	if accuracy < c.cfg.DemoteAccuracy || hinted*2 > len(window) {
		return current.Down()
	}
	if p.Streak(tp) >= c.cfg.PromoteStreak && hinted == 0 {
		return current.Up()
	}
	return current
}
