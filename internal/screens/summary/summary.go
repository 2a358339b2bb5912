package summary

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"lernbox/internal/card"
	"lernbox/internal/router"
	"lernbox/internal/screen"
	"lernbox/internal/ui/layout"
	"lernbox/internal/ui/theme"
)

// Stats holds the tallies a finished study run hands over for display.
type Stats struct {
	SetName  string
	Answered int
	Counts   map[card.Quality]int
	Mastered int
	Duration time.Duration
}

// SummaryScreen displays the end-of-session summary.
type SummaryScreen struct {
	stats Stats
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(stats Stats) *SummaryScreen {
	return &SummaryScreen{stats: stats}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to sets"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			// The quiz screen replaced itself with this one, so a single
			// pop lands back on the set list.
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	st := s.stats

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete!"))
	b.WriteString("\n\n")

	if st.SetName != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(st.SetName))
		b.WriteString("\n\n")
	}

	mins := int(st.Duration.Minutes())
	secs := int(st.Duration.Seconds()) % 60
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Answers: %d        Mastered this session: %d",
		st.Answered, st.Mastered)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Answers by quality")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		q     card.Quality
		color color.Color
	}{
		{"Bad", card.QualityBad, theme.Error},
		{"OK", card.QualityOK, theme.Accent},
		{"Good", card.QualityGood, theme.Success},
		{"Perfect", card.QualityPerfect, theme.Secondary},
	}
	for _, r := range rows {
		line := fmt.Sprintf("  %-8s %d", r.label, st.Counts[r.q])
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(r.color).Render(line)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press Enter to continue..."))

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
