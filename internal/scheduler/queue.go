package scheduler

import (
	"fmt"
	"sort"
	"time"

	"lernbox/internal/card"
)

// Mode selects the queue-building strategy for a session.
type Mode string

const (
	// ModeSequential presents every card of the set once, in stored order,
	// without touching scheduling state.
	ModeSequential Mode = "sequential"

	// ModeSpaced presents only due cards, most urgent first, and applies
	// the ladder transition after every answer.
	ModeSpaced Mode = "spaced_repetition"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeSequential || m == ModeSpaced
}

// BuildQueue builds the ordered working queue for one session.
//
// Sequential mode returns a copy of cards in their stored order: no
// filtering, no truncation, always a full pass.
//
// Spaced mode lazily initializes scheduling state on every card, keeps only
// due cards (mastered and perfect are excluded regardless of their review
// time), sorts them ascending by the configured interval of their current
// status (stable, so stored order breaks ties) and truncates to limit.
// An empty result means there is nothing to study; it is not an error.
//
// limit is optional; when given it must be positive.
func BuildQueue(cards []*card.Card, mode Mode, cfg Config, now time.Time, limit ...int) ([]*card.Card, error) {
	size := 0
	if len(limit) > 0 {
		size = limit[0]
		if size <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidSessionSize, size)
		}
	}

	switch mode {
	case ModeSequential:
		queue := make([]*card.Card, len(cards))
		copy(queue, cards)
		return queue, nil

	case ModeSpaced:
		var due []*card.Card
		for _, c := range cards {
			c.EnsureState(now)
			if c.Due(now) {
				due = append(due, c)
			}
		}
		if len(due) == 0 {
			return nil, nil
		}

		sort.SliceStable(due, func(i, j int) bool {
			return cfg.IntervalDays[due[i].State.Status] < cfg.IntervalDays[due[j].State.Status]
		})

		if size > 0 && len(due) > size {
			due = due[:size]
		}
		return due, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}
