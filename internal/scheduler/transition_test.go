package scheduler

import (
	"testing"
	"time"

	"lernbox/internal/card"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newState(s card.Status) *card.SchedulingState {
	return &card.SchedulingState{Status: s, NextReviewAt: testNow}
}

func TestTransition_Table(t *testing.T) {
	tests := []struct {
		name string
		from card.Status
		q    card.Quality
		want card.Status
	}{
		{"new + bad", card.StatusNew, card.QualityBad, card.StatusBad},
		{"good + bad", card.StatusGood, card.QualityBad, card.StatusBad},
		{"mastered + bad demotes", card.StatusMastered, card.QualityBad, card.StatusBad},
		{"perfect + ok demotes", card.StatusPerfect, card.QualityOK, card.StatusOK},
		{"new + ok", card.StatusNew, card.QualityOK, card.StatusOK},
		{"new + good", card.StatusNew, card.QualityGood, card.StatusGood},
		{"ok + good", card.StatusOK, card.QualityGood, card.StatusGood},
		{"good + good promotes", card.StatusGood, card.QualityGood, card.StatusMastered},
		{"new + perfect", card.StatusNew, card.QualityPerfect, card.StatusPerfect},
		{"bad + perfect", card.StatusBad, card.QualityPerfect, card.StatusPerfect},
		{"good + perfect", card.StatusGood, card.QualityPerfect, card.StatusPerfect},
	}

	cfg := DefaultConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newState(tt.from)
			Transition(st, tt.q, testNow, cfg)
			if st.Status != tt.want {
				t.Errorf("status = %q, want %q", st.Status, tt.want)
			}
		})
	}
}

func TestTransition_NextReviewFromLadder(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		q        card.Quality
		from     card.Status
		wantDays int
	}{
		{card.QualityBad, card.StatusNew, 0},
		{card.QualityOK, card.StatusNew, 1},
		{card.QualityGood, card.StatusNew, 3},
		{card.QualityGood, card.StatusGood, 7}, // promoted to mastered
		{card.QualityPerfect, card.StatusNew, 30},
	}

	for _, tt := range tests {
		st := newState(tt.from)
		Transition(st, tt.q, testNow, cfg)
		want := testNow.Add(time.Duration(tt.wantDays) * 24 * time.Hour)
		if !st.NextReviewAt.Equal(want) {
			t.Errorf("%s from %s: NextReviewAt = %v, want %v", tt.q, tt.from, st.NextReviewAt, want)
		}
	}
}

// Interval ladder is non-decreasing along the status order, with new and bad
// sharing the zero rung.
func TestLadderMonotone(t *testing.T) {
	cfg := DefaultConfig()
	order := []card.Status{card.StatusNew, card.StatusBad, card.StatusOK, card.StatusGood, card.StatusMastered, card.StatusPerfect}

	for i := 1; i < len(order); i++ {
		prev, cur := cfg.Interval(order[i-1]), cfg.Interval(order[i])
		if cur < prev {
			t.Errorf("interval[%s]=%d < interval[%s]=%d", order[i], cur, order[i-1], prev)
		}
	}
	if cfg.Interval(card.StatusNew) != 0 || cfg.Interval(card.StatusBad) != 0 {
		t.Error("new and bad must share the 0-day rung")
	}
}

// Mastery requires two goods in a row; a bad in between starts over.
func TestMasteryRequiresTwoGoods(t *testing.T) {
	cfg := DefaultConfig()

	st := newState(card.StatusNew)
	Transition(st, card.QualityGood, testNow, cfg)
	Transition(st, card.QualityGood, testNow, cfg)
	if st.Status != card.StatusMastered {
		t.Errorf("good,good: status = %q, want mastered", st.Status)
	}

	st = newState(card.StatusNew)
	Transition(st, card.QualityGood, testNow, cfg)
	Transition(st, card.QualityBad, testNow, cfg)
	Transition(st, card.QualityGood, testNow, cfg)
	if st.Status != card.StatusGood {
		t.Errorf("good,bad,good: status = %q, want good", st.Status)
	}
}

func TestTransition_BadResetsStreak(t *testing.T) {
	cfg := DefaultConfig()
	st := newState(card.StatusNew)
	Transition(st, card.QualityGood, testNow, cfg)
	if st.ConsecutiveGood != 1 {
		t.Fatalf("ConsecutiveGood = %d, want 1", st.ConsecutiveGood)
	}
	Transition(st, card.QualityOK, testNow, cfg)
	if st.ConsecutiveGood != 0 {
		t.Errorf("ConsecutiveGood = %d, want 0 after ok", st.ConsecutiveGood)
	}
}

func TestResetProgress_WholeSet(t *testing.T) {
	cards := []*card.Card{
		{ID: "a", State: &card.SchedulingState{Status: card.StatusPerfect, NextReviewAt: testNow.AddDate(0, 0, 30)}},
		{ID: "b", History: []card.HistoryEntry{{Timestamp: testNow, Quality: card.QualityOK}}},
	}

	ResetProgress(testNow, cards...)

	for _, c := range cards {
		if c.State.Status != card.StatusNew {
			t.Errorf("card %s: status = %q, want new", c.ID, c.State.Status)
		}
		if !c.State.NextReviewAt.Equal(testNow) {
			t.Errorf("card %s: not due at now", c.ID)
		}
		if len(c.History) != 0 {
			t.Errorf("card %s: history not cleared", c.ID)
		}
	}
}
