package card

import (
	"fmt"
	"time"
)

// Status represents a card's position on the learning ladder.
type Status string

const (
	StatusNew      Status = "new"
	StatusBad      Status = "bad"
	StatusOK       Status = "ok"
	StatusGood     Status = "good"
	StatusMastered Status = "mastered"
	StatusPerfect  Status = "perfect"
)

// Statuses lists all statuses in ladder order (shortest interval first).
var Statuses = []Status{StatusNew, StatusBad, StatusOK, StatusGood, StatusMastered, StatusPerfect}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusBad, StatusOK, StatusGood, StatusMastered, StatusPerfect:
		return true
	}
	return false
}

// Retired reports whether a card with this status is excluded from the
// spaced-repetition due set until it is demoted or explicitly reset.
func (s Status) Retired() bool {
	return s == StatusMastered || s == StatusPerfect
}

// Quality is the learner's self-judgment after seeing a card's answer.
type Quality string

const (
	QualityBad     Quality = "bad"
	QualityOK      Quality = "ok"
	QualityGood    Quality = "good"
	QualityPerfect Quality = "perfect"
)

// Qualities lists all quality judgments from worst to best.
var Qualities = []Quality{QualityBad, QualityOK, QualityGood, QualityPerfect}

// IsValid reports whether q is a known quality judgment.
func (q Quality) IsValid() bool {
	switch q {
	case QualityBad, QualityOK, QualityGood, QualityPerfect:
		return true
	}
	return false
}

// HistoryEntry records one answered presentation. History is append-only and
// read only by reporting code, never by the scheduler.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Quality   Quality   `json:"quality"`
}

// SchedulingState is the mutable per-card learning state.
type SchedulingState struct {
	Status          Status    `json:"status"`
	NextReviewAt    time.Time `json:"next_review_at"`
	ConsecutiveGood int       `json:"consecutive_good"`
}

// Card is a single flashcard. Question and Answer are opaque payloads; the
// scheduler only touches State and appends to History.
type Card struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Question string           `json:"question"`
	Answer   string           `json:"answer"`
	Tags     []string         `json:"tags,omitempty"`
	History  []HistoryEntry   `json:"history,omitempty"`
	State    *SchedulingState `json:"sm_data,omitempty"`
}

// EnsureState lazily initializes missing scheduling state. A card that has
// never been scheduled starts as new and immediately due.
func (c *Card) EnsureState(now time.Time) *SchedulingState {
	if c.State == nil {
		c.State = &SchedulingState{
			Status:       StatusNew,
			NextReviewAt: now,
		}
	}
	return c.State
}

// Due reports whether the card should appear in a spaced-repetition queue:
// its review time has passed and it has not been retired from rotation.
func (c *Card) Due(now time.Time) bool {
	st := c.EnsureState(now)
	return !now.Before(st.NextReviewAt) && !st.Status.Retired()
}

// Status returns the card's current status, treating absent state as new.
func (c *Card) Status() Status {
	if c.State == nil {
		return StatusNew
	}
	return c.State.Status
}

// Reset wipes the card's learning progress: history cleared, status back to
// new, due immediately.
func (c *Card) Reset(now time.Time) {
	c.History = nil
	c.State = &SchedulingState{
		Status:       StatusNew,
		NextReviewAt: now,
	}
}

// RecordAnswer appends one history entry. Scheduling state is not touched
// here; that is the scheduler's job.
func (c *Card) RecordAnswer(q Quality, now time.Time) error {
	if !q.IsValid() {
		return fmt.Errorf("card %s: unknown quality %q", c.ID, q)
	}
	c.History = append(c.History, HistoryEntry{Timestamp: now, Quality: q})
	return nil
}

// Accuracy returns the fraction of answered presentations that were not
// judged bad, and the total number of presentations.
func (c *Card) Accuracy() (float64, int) {
	if len(c.History) == 0 {
		return 0, 0
	}
	correct := 0
	for _, h := range c.History {
		if h.Quality != QualityBad {
			correct++
		}
	}
	return float64(correct) / float64(len(c.History)), len(c.History)
}
