package quiz

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"lernbox/internal/card"
	"lernbox/internal/router"
	"lernbox/internal/scheduler"
	"lernbox/internal/screen"
	"lernbox/internal/screens/summary"
	"lernbox/internal/store"
	"lernbox/internal/ui/layout"
)

// Persister writes one answered presentation through to storage.
type Persister interface {
	RecordAnswer(ctx context.Context, c *card.Card, entry card.HistoryEntry) error
}

var _ Persister = (*store.Store)(nil)

// QuizScreen presents one card at a time: question first, answer on reveal,
// then a quality judgment that drives the scheduler.
type QuizScreen struct {
	session  *scheduler.Session
	persist  Persister
	cfg      scheduler.Config
	setName  string
	allCards []*card.Card

	revealed    bool
	quitConfirm bool
	persistWarn string
	mastered    string // name of the card mastered by the last answer
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz screen over an already-built session. allCards is the
// full set, retired cards included, for the progress row.
func New(session *scheduler.Session, persist Persister, cfg scheduler.Config, setName string, allCards []*card.Card) *QuizScreen {
	return &QuizScreen{
		session:  session,
		persist:  persist,
		cfg:      cfg,
		setName:  setName,
		allCards: allCards,
	}
}

func (q *QuizScreen) Init() tea.Cmd {
	if q.session.Done() {
		return q.finish()
	}
	return nil
}

func (q *QuizScreen) Title() string {
	return q.setName
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	if q.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if q.revealed {
		return []layout.KeyHint{
			{Key: "1", Description: "Bad"},
			{Key: "2", Description: "OK"},
			{Key: "3", Description: "Good"},
			{Key: "4", Description: "Perfect"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Show answer"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answerPersistedMsg:
		if msg.Err != nil && q.persistWarn == "" {
			q.persistWarn = msg.Err.Error()
		}
		return q, nil

	case tea.KeyMsg:
		return q.handleKey(msg)
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if q.quitConfirm {
		switch key {
		case "y", "Y":
			q.session.Finish()
			return q, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			q.quitConfirm = false
		}
		return q, nil
	}

	if q.session.Done() {
		return q, q.finish()
	}

	switch key {
	case "esc":
		q.quitConfirm = true
		return q, nil
	case " ", "space", "enter":
		q.revealed = true
		return q, nil
	}

	if !q.revealed {
		return q, nil
	}

	var quality card.Quality
	switch key {
	case "1":
		quality = card.QualityBad
	case "2":
		quality = card.QualityOK
	case "3":
		quality = card.QualityGood
	case "4":
		quality = card.QualityPerfect
	default:
		return q, nil
	}

	return q.answer(quality)
}

// answer grades the current card and kicks off the write-through.
func (q *QuizScreen) answer(quality card.Quality) (screen.Screen, tea.Cmd) {
	out, err := q.session.Answer(quality)
	if err != nil {
		return q, nil
	}
	q.revealed = false
	q.mastered = ""
	if out.Mastered {
		q.mastered = out.Card.Name
	}

	persistCmd := q.persistAnswer(out.Card)
	if out.Done {
		return q, tea.Batch(persistCmd, q.finish())
	}
	return q, persistCmd
}

// persistAnswer writes the latest history entry and state to storage.
func (q *QuizScreen) persistAnswer(c *card.Card) tea.Cmd {
	if q.persist == nil || len(c.History) == 0 {
		return nil
	}
	entry := c.History[len(c.History)-1]
	return func() tea.Msg {
		err := q.persist.RecordAnswer(context.Background(), c, entry)
		return answerPersistedMsg{Err: err}
	}
}

// finish hands over to the summary screen. Replace keeps the stack depth so
// one pop from the summary returns past the quiz as well.
func (q *QuizScreen) finish() tea.Cmd {
	stats := summary.Stats{
		SetName:  q.setName,
		Answered: q.session.Answered,
		Counts:   q.session.Counts,
		Mastered: len(q.session.MasteredIDs),
		Duration: q.session.Duration(),
	}
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(stats)}
	}
}
