package scheduler

import (
	"slices"
	"time"

	"lernbox/internal/card"
)

// requeueDecision says what happens to the just-answered card for the rest
// of the current session.
type requeueDecision int

const (
	// dropForSession removes the card from the session entirely.
	dropForSession requeueDecision = iota
	// appendToEnd pushes the card to the back of the remaining queue.
	appendToEnd
	// reinsertSkipOne puts the card back after skipping one card, so it is
	// not shown twice in a row.
	reinsertSkipOne
)

// requeuePolicy decides the session fate of a card from the quality judgment
// and the status the transition landed on. Kept as one table-shaped function
// so the placement rules are testable on their own.
func requeuePolicy(q card.Quality, after card.Status) requeueDecision {
	switch q {
	case card.QualityBad:
		return reinsertSkipOne
	case card.QualityOK:
		return appendToEnd
	case card.QualityGood:
		if after == card.StatusMastered {
			return dropForSession
		}
		return appendToEnd
	case card.QualityPerfect:
		return dropForSession
	}
	return dropForSession
}

// Outcome reports the result of one answered presentation.
type Outcome struct {
	Card     *card.Card  // the card that was answered
	Status   card.Status // its status after the transition
	Mastered bool        // true when this answer promoted it to mastered
	Next     *card.Card  // front of the queue, nil when the session is over
	Done     bool        // no cards left to present
}

// Session drives one study run over a built queue: present the front card,
// collect a quality judgment, advance or requeue. It exclusively owns its
// queue; it is not safe for concurrent use and is never persisted.
type Session struct {
	mode    Mode
	cfg     Config
	queue   []*card.Card
	clock   func() time.Time
	started time.Time

	// Tallies for the end-of-session summary.
	Answered    int
	Counts      map[card.Quality]int
	MasteredIDs []string
}

// NewSession builds the queue for the given cards and mode and returns a
// ready session. An empty queue is a valid session that is immediately done
// (nothing due is "nothing to do", not an error).
func NewSession(cards []*card.Card, mode Mode, cfg Config, limit ...int) (*Session, error) {
	now := time.Now()
	queue, err := BuildQueue(cards, mode, cfg, now, limit...)
	if err != nil {
		return nil, err
	}
	return &Session{
		mode:    mode,
		cfg:     cfg,
		queue:   queue,
		clock:   time.Now,
		started: now,
		Counts:  make(map[card.Quality]int),
	}, nil
}

// Current returns the card at the front of the queue without consuming it,
// or nil when the session is done.
func (s *Session) Current() *card.Card {
	if len(s.queue) == 0 {
		return nil
	}
	return s.queue[0]
}

// Done reports whether there is nothing left to present.
func (s *Session) Done() bool {
	return len(s.queue) == 0
}

// Remaining returns the number of cards still queued, the current card
// included.
func (s *Session) Remaining() int {
	return len(s.queue)
}

// Queued returns a copy of the working queue, front first. Screens use it
// for the progress row; mutating the copy does not affect the session.
func (s *Session) Queued() []*card.Card {
	out := make([]*card.Card, len(s.queue))
	copy(out, s.queue)
	return out
}

// Duration returns how long the session has been running.
func (s *Session) Duration() time.Duration {
	return s.clock().Sub(s.started)
}

// Answer records one quality judgment for the current card: the card is
// popped, the answer is appended to its history, and in spaced mode the
// ladder transition and the requeue policy run. Sequential mode only logs
// the answer; every card is shown exactly once.
//
// The clock is read once per call; the whole step is one atomic in-memory
// mutation. Calling Answer with an empty queue is a programming error and
// mutates nothing.
func (s *Session) Answer(q card.Quality) (Outcome, error) {
	if len(s.queue) == 0 {
		return Outcome{Done: true}, ErrNoCurrentCard
	}
	if !q.IsValid() {
		return Outcome{}, ErrInvalidQuality
	}

	now := s.clock()
	cur := s.queue[0]
	s.queue = s.queue[1:]

	_ = cur.RecordAnswer(q, now) // quality validated above
	s.Answered++
	s.Counts[q]++

	out := Outcome{Card: cur, Status: cur.Status()}

	if s.mode == ModeSpaced {
		st := cur.EnsureState(now)
		wasMastered := st.Status == card.StatusMastered
		Transition(st, q, now, s.cfg)
		out.Status = st.Status
		out.Mastered = st.Status == card.StatusMastered && !wasMastered

		switch requeuePolicy(q, st.Status) {
		case reinsertSkipOne:
			if len(s.queue) >= 2 {
				s.queue = slices.Insert(s.queue, 1, cur)
			} else {
				s.queue = append(s.queue, cur)
			}
		case appendToEnd:
			s.queue = append(s.queue, cur)
		case dropForSession:
			// done with this card until its next review date
		}

		if out.Mastered {
			s.MasteredIDs = append(s.MasteredIDs, cur.ID)
		}
	}

	out.Next = s.Current()
	out.Done = s.Done()
	return out, nil
}

// Finish abandons the session and discards the queue. Always safe: state is
// written through after every answer by the caller, so a partial session
// leaves nothing inconsistent.
func (s *Session) Finish() {
	s.queue = nil
}
