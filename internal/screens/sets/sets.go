package sets

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"lernbox/internal/card"
	"lernbox/internal/deck"
	"lernbox/internal/router"
	"lernbox/internal/scheduler"
	"lernbox/internal/screen"
	"lernbox/internal/screens/quiz"
	"lernbox/internal/store"
	"lernbox/internal/ui/components"
	"lernbox/internal/ui/layout"
	"lernbox/internal/ui/theme"
)

type stage int

const (
	stagePickSet stage = iota
	stagePickMode
	stagePickSize
)

// SetsScreen lists the sets of one subject and collects the study mode
// before handing over to the quiz.
type SetsScreen struct {
	subject *deck.Subject
	store   *store.Store
	cfg     scheduler.Config

	stage    stage
	setMenu  components.Menu
	modeMenu components.Menu
	sizeIn   components.TextInput
	chosen   *deck.Set
	errMsg   string
}

var _ screen.Screen = (*SetsScreen)(nil)
var _ screen.KeyHintProvider = (*SetsScreen)(nil)

// New creates a new SetsScreen for the given subject.
func New(subject *deck.Subject, st *store.Store, cfg scheduler.Config) *SetsScreen {
	s := &SetsScreen{
		subject: subject,
		store:   st,
		cfg:     cfg,
	}

	items := make([]components.MenuItem, 0, len(subject.Sets))
	for _, set := range subject.Sets {
		set := set
		items = append(items, components.MenuItem{
			Label:  set.Name,
			Detail: fmt.Sprintf("%d/%d learned", set.LearnedCount(), len(set.Cards)),
			Action: func() tea.Cmd {
				s.chosen = set
				s.stage = stagePickMode
				s.modeMenu = s.buildModeMenu()
				return nil
			},
			Disabled: len(set.Cards) == 0,
		})
	}
	s.setMenu = components.NewMenu(items)
	return s
}

func (s *SetsScreen) buildModeMenu() components.Menu {
	return components.NewMenu([]components.MenuItem{
		{
			Label:  "Spaced repetition",
			Detail: "cards due for review, most urgent first",
			Action: func() tea.Cmd {
				return s.startSession(scheduler.ModeSpaced)
			},
		},
		{
			Label:  "Spaced repetition, limited",
			Detail: "pick how many due cards",
			Action: func() tea.Cmd {
				s.stage = stagePickSize
				s.sizeIn = components.NewTextInput("e.g. 10", true, 3)
				return s.sizeIn.Init()
			},
		},
		{
			Label:  "Full pass",
			Detail: "every card once, progress untouched",
			Action: func() tea.Cmd {
				return s.startSession(scheduler.ModeSequential)
			},
		},
	})
}

// startSession builds the session and pushes the quiz screen.
func (s *SetsScreen) startSession(mode scheduler.Mode, limit ...int) tea.Cmd {
	set := s.chosen
	sess, err := scheduler.NewSession(set.Cards, mode, s.cfg, limit...)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""
	qs := quiz.New(sess, s.store, s.cfg, set.Name, set.Cards)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: qs}
	}
}

func (s *SetsScreen) Init() tea.Cmd {
	return nil
}

func (s *SetsScreen) Title() string {
	return s.subject.Name
}

func (s *SetsScreen) KeyHints() []layout.KeyHint {
	switch s.stage {
	case stagePickSize:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *SetsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, isKey := msg.(tea.KeyMsg)

	switch s.stage {
	case stagePickSet:
		if isKey && kmsg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		var cmd tea.Cmd
		s.setMenu, cmd = s.setMenu.Update(msg)
		return s, cmd

	case stagePickMode:
		if isKey && kmsg.String() == "esc" {
			s.stage = stagePickSet
			s.errMsg = ""
			return s, nil
		}
		var cmd tea.Cmd
		s.modeMenu, cmd = s.modeMenu.Update(msg)
		return s, cmd

	case stagePickSize:
		if isKey {
			switch kmsg.String() {
			case "esc":
				s.stage = stagePickMode
				s.errMsg = ""
				return s, nil
			case "enter":
				n, err := s.sizeIn.NumericValue()
				if err != nil || n <= 0 {
					s.errMsg = "Enter a number greater than zero"
					return s, nil
				}
				return s, s.startSession(scheduler.ModeSpaced, n)
			}
		}
		var cmd tea.Cmd
		s.sizeIn, cmd = s.sizeIn.Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *SetsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	switch s.stage {
	case stagePickSet:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Primary).
			Bold(true).
			Render("Pick a set"))
		b.WriteString("\n\n")
		b.WriteString(s.setMenu.View())

	case stagePickMode:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Primary).
			Bold(true).
			Render(s.chosen.Name))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(s.statusLine()))
		b.WriteString("\n\n")
		b.WriteString(s.modeMenu.View())

	case stagePickSize:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Primary).
			Bold(true).
			Render("How many cards?"))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.sizeIn.View()))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
	}

	return b.String()
}

// statusLine summarizes the chosen set's ladder distribution.
func (s *SetsScreen) statusLine() string {
	counts := s.chosen.StatusCounts()
	parts := make([]string, 0, len(counts))
	for _, st := range card.Statuses {
		if counts[st] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", st, counts[st]))
	}
	if len(parts) == 0 {
		return "no cards"
	}
	return strings.Join(parts, "  ·  ")
}
