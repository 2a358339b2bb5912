package scheduler

import "lernbox/internal/card"

// Config carries the scheduling knobs that were module-level constants in
// earlier iterations of the app. It is injected so the ladder and the status
// palette can be tested and themed without touching package state.
type Config struct {
	// IntervalDays maps each status to the number of days until the card is
	// due again after landing on that status.
	IntervalDays map[card.Status]int

	// Colors maps each status to its display color (hex). Informational
	// only; the scheduler itself never reads it, screens do.
	Colors map[card.Status]string
}

// DefaultConfig returns the six-bucket fixed-interval ladder. This is a
// deliberate design choice, not SM-2: no ease factors, no exponential
// backoff. A card at a 0-day interval is due again immediately.
func DefaultConfig() Config {
	return Config{
		IntervalDays: map[card.Status]int{
			card.StatusNew:      0,
			card.StatusBad:      0,
			card.StatusOK:       1,
			card.StatusGood:     3,
			card.StatusMastered: 7,
			card.StatusPerfect:  30,
		},
		Colors: map[card.Status]string{
			card.StatusNew:      "#9E9E9E",
			card.StatusBad:      "#E57373",
			card.StatusOK:       "#FFD54F",
			card.StatusGood:     "#81C784",
			card.StatusMastered: "#2E7D32",
			card.StatusPerfect:  "#64B5F6",
		},
	}
}

// Interval returns the configured interval in days for a status, falling
// back to the longest ladder rung for unknown statuses.
func (c Config) Interval(s card.Status) int {
	if d, ok := c.IntervalDays[s]; ok {
		return d
	}
	return 30
}

// Color returns the configured color for a status.
func (c Config) Color(s card.Status) string {
	if col, ok := c.Colors[s]; ok {
		return col
	}
	return "#9E9E9E"
}
