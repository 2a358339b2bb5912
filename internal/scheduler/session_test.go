package scheduler

import (
	"errors"
	"testing"
	"time"

	"lernbox/internal/card"
)

func newTestSession(t *testing.T, cards []*card.Card, mode Mode, limit ...int) *Session {
	t.Helper()
	s, err := NewSession(cards, mode, DefaultConfig(), limit...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.clock = func() time.Time { return testNow }
	return s
}

func TestSession_EmptyQueueIsDone(t *testing.T) {
	s := newTestSession(t, nil, ModeSpaced)
	if !s.Done() {
		t.Error("empty session should be done immediately")
	}
	if s.Current() != nil {
		t.Error("Current should be nil for an empty session")
	}
}

func TestSession_AnswerOnEmptyQueue(t *testing.T) {
	s := newTestSession(t, nil, ModeSpaced)
	out, err := s.Answer(card.QualityGood)
	if !errors.Is(err, ErrNoCurrentCard) {
		t.Errorf("err = %v, want ErrNoCurrentCard", err)
	}
	if !out.Done {
		t.Error("outcome should report done")
	}
}

func TestSession_InvalidQualityMutatesNothing(t *testing.T) {
	cards := makeCards("a")
	s := newTestSession(t, cards, ModeSpaced)

	_, err := s.Answer(card.Quality("great"))
	if !errors.Is(err, ErrInvalidQuality) {
		t.Errorf("err = %v, want ErrInvalidQuality", err)
	}
	if len(cards[0].History) != 0 {
		t.Error("history mutated on invalid quality")
	}
	if s.Remaining() != 1 {
		t.Error("queue mutated on invalid quality")
	}
}

// Bad reinserts after skipping exactly one card when at least two remain.
func TestSession_RequeueBadSkipsOne(t *testing.T) {
	cards := makeCards("A", "B", "C")
	s := newTestSession(t, cards, ModeSpaced)

	out, err := s.Answer(card.QualityBad)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if out.Next == nil || out.Next.ID != "B" {
		t.Errorf("next = %v, want B", out.Next)
	}
	want := []string{"B", "A", "C"}
	if !equalIDs(ids(s.Queued()), want) {
		t.Errorf("queue = %v, want %v", ids(s.Queued()), want)
	}
}

// With fewer than two remaining, bad appends instead.
func TestSession_RequeueBadAppendsWhenShort(t *testing.T) {
	cards := makeCards("A", "B")
	s := newTestSession(t, cards, ModeSpaced)

	if _, err := s.Answer(card.QualityBad); err != nil {
		t.Fatalf("answer: %v", err)
	}
	want := []string{"B", "A"}
	if !equalIDs(ids(s.Queued()), want) {
		t.Errorf("queue = %v, want %v", ids(s.Queued()), want)
	}
}

func TestSession_RequeueOKAppends(t *testing.T) {
	cards := makeCards("A", "B", "C")
	s := newTestSession(t, cards, ModeSpaced)

	if _, err := s.Answer(card.QualityOK); err != nil {
		t.Fatalf("answer: %v", err)
	}
	want := []string{"B", "C", "A"}
	if !equalIDs(ids(s.Queued()), want) {
		t.Errorf("queue = %v, want %v", ids(s.Queued()), want)
	}
}

func TestSession_FirstGoodRepeatsThisSession(t *testing.T) {
	cards := makeCards("A", "B")
	s := newTestSession(t, cards, ModeSpaced)

	out, err := s.Answer(card.QualityGood)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if out.Status != card.StatusGood {
		t.Errorf("status = %q, want good", out.Status)
	}
	want := []string{"B", "A"}
	if !equalIDs(ids(s.Queued()), want) {
		t.Errorf("queue = %v, want %v", ids(s.Queued()), want)
	}
}

func TestSession_SecondGoodMastersAndDrops(t *testing.T) {
	cards := makeCards("A")
	cards[0].State = &card.SchedulingState{Status: card.StatusGood, NextReviewAt: testNow}
	s := newTestSession(t, cards, ModeSpaced)

	out, err := s.Answer(card.QualityGood)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if out.Status != card.StatusMastered || !out.Mastered {
		t.Errorf("outcome = %+v, want mastered", out)
	}
	if !out.Done {
		t.Error("session should be done, card must not requeue")
	}
	if len(s.MasteredIDs) != 1 || s.MasteredIDs[0] != "A" {
		t.Errorf("MasteredIDs = %v, want [A]", s.MasteredIDs)
	}
}

func TestSession_PerfectDropsFromAnyStatus(t *testing.T) {
	for _, from := range []card.Status{card.StatusNew, card.StatusBad, card.StatusGood} {
		cards := makeCards("A", "B")
		cards[0].State = &card.SchedulingState{Status: from, NextReviewAt: testNow}
		s := newTestSession(t, cards, ModeSpaced)

		out, err := s.Answer(card.QualityPerfect)
		if err != nil {
			t.Fatalf("answer: %v", err)
		}
		if out.Status != card.StatusPerfect {
			t.Errorf("from %s: status = %q, want perfect", from, out.Status)
		}
		want := []string{"B"}
		if !equalIDs(ids(s.Queued()), want) {
			t.Errorf("from %s: queue = %v, want %v", from, ids(s.Queued()), want)
		}
	}
}

// Sequential sessions log history but never touch scheduling state and
// never requeue.
func TestSession_SequentialSinglePass(t *testing.T) {
	cards := makeCards("A", "B")
	s := newTestSession(t, cards, ModeSequential)

	if _, err := s.Answer(card.QualityBad); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if cards[0].State != nil {
		t.Error("sequential mode must not initialize scheduling state")
	}
	if len(cards[0].History) != 1 {
		t.Errorf("history length = %d, want 1", len(cards[0].History))
	}

	out, err := s.Answer(card.QualityBad)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !out.Done {
		t.Error("two answers should exhaust a two-card sequential session")
	}
}

func TestSession_HistoryAppendedPerAnswer(t *testing.T) {
	cards := makeCards("A")
	s := newTestSession(t, cards, ModeSpaced)

	if _, err := s.Answer(card.QualityOK); err != nil {
		t.Fatalf("answer: %v", err)
	}
	// Card requeued; answer it again.
	if _, err := s.Answer(card.QualityPerfect); err != nil {
		t.Fatalf("answer: %v", err)
	}

	if len(cards[0].History) != 2 {
		t.Fatalf("history length = %d, want 2", len(cards[0].History))
	}
	if cards[0].History[0].Quality != card.QualityOK || cards[0].History[1].Quality != card.QualityPerfect {
		t.Error("history entries out of order")
	}
}

func TestSession_Tallies(t *testing.T) {
	cards := makeCards("A", "B")
	s := newTestSession(t, cards, ModeSpaced)

	_, _ = s.Answer(card.QualityPerfect)
	_, _ = s.Answer(card.QualityPerfect)

	if s.Answered != 2 {
		t.Errorf("Answered = %d, want 2", s.Answered)
	}
	if s.Counts[card.QualityPerfect] != 2 {
		t.Errorf("Counts[perfect] = %d, want 2", s.Counts[card.QualityPerfect])
	}
}

func TestSession_FinishDiscardsQueue(t *testing.T) {
	s := newTestSession(t, makeCards("A", "B"), ModeSpaced)
	s.Finish()
	if !s.Done() {
		t.Error("session not done after Finish")
	}
}

func TestSession_LimitPropagatesError(t *testing.T) {
	_, err := NewSession(makeCards("A"), ModeSpaced, DefaultConfig(), -3)
	if !errors.Is(err, ErrInvalidSessionSize) {
		t.Errorf("err = %v, want ErrInvalidSessionSize", err)
	}
}

func TestRequeuePolicyTable(t *testing.T) {
	tests := []struct {
		q     card.Quality
		after card.Status
		want  requeueDecision
	}{
		{card.QualityBad, card.StatusBad, reinsertSkipOne},
		{card.QualityOK, card.StatusOK, appendToEnd},
		{card.QualityGood, card.StatusGood, appendToEnd},
		{card.QualityGood, card.StatusMastered, dropForSession},
		{card.QualityPerfect, card.StatusPerfect, dropForSession},
	}
	for _, tt := range tests {
		if got := requeuePolicy(tt.q, tt.after); got != tt.want {
			t.Errorf("requeuePolicy(%s, %s) = %d, want %d", tt.q, tt.after, got, tt.want)
		}
	}
}
