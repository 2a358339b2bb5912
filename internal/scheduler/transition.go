package scheduler

import (
	"time"

	"lernbox/internal/card"
)

// Transition applies one quality judgment to a card's scheduling state and
// recomputes its next review time from the configured ladder.
//
// Rules:
//   - bad and ok land on the matching status and reset the good streak, no
//     matter what the previous status was. A bad answer on a mastered or
//     perfect card demotes it back into the active pool.
//   - good while already on good promotes to mastered; good from anywhere
//     else lands on good.
//   - perfect jumps straight to perfect from any status.
func Transition(st *card.SchedulingState, q card.Quality, now time.Time, cfg Config) {
	switch q {
	case card.QualityBad:
		st.Status = card.StatusBad
		st.ConsecutiveGood = 0
	case card.QualityOK:
		st.Status = card.StatusOK
		st.ConsecutiveGood = 0
	case card.QualityGood:
		if st.Status == card.StatusGood {
			st.Status = card.StatusMastered
		} else {
			st.Status = card.StatusGood
		}
		st.ConsecutiveGood++
	case card.QualityPerfect:
		st.Status = card.StatusPerfect
	}

	st.NextReviewAt = now.Add(time.Duration(cfg.Interval(st.Status)) * 24 * time.Hour)
}

// ResetProgress wipes the learning progress of every given card: history
// cleared, status new, due at now. Works on a single card or a whole set.
func ResetProgress(now time.Time, cards ...*card.Card) {
	for _, c := range cards {
		c.Reset(now)
	}
}
