package quiz

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"lernbox/internal/card"
	"lernbox/internal/ui/components"
	"lernbox/internal/ui/theme"
)

func (q *QuizScreen) View(width, height int) string {
	if q.quitConfirm {
		return renderQuitConfirm(width)
	}

	cur := q.session.Current()
	if cur == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Nothing due right now.")
	}

	var b strings.Builder

	// Progress row: retired cards first, then the working queue.
	dots := components.StatusDots{
		Cards:     q.displayCards(),
		CurrentID: cur.ID,
		Config:    q.cfg,
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dots.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	// Card name and remaining count.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + cur.Name)
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d in queue", q.session.Remaining()))
	pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if pad < 1 {
		pad = 1
	}
	b.WriteString(infoLeft + strings.Repeat(" ", pad) + infoRight)
	b.WriteString("\n\n")

	// Question.
	questionBox := theme.Card.Width(min(width-8, 70)).Render(cur.Question)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, questionBox))
	b.WriteString("\n\n")

	if q.mastered != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Bold(true).
			Render(fmt.Sprintf("Mastered: %s", q.mastered)))
		b.WriteString("\n\n")
	}

	if q.revealed {
		answerBox := lipgloss.NewStyle().
			Background(theme.BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Secondary).
			Padding(1, 2).
			Width(min(width-8, 70)).
			Render(cur.Answer)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, answerBox))
		b.WriteString("\n\n")
		b.WriteString(renderQualityButtons(width))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Press Space to show the answer"))
	}

	if q.persistWarn != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("Warning: progress could not be saved: " + q.persistWarn))
	}

	return b.String()
}

// displayCards merges the full set with the current queue so retired cards
// keep their dot while answered-and-dropped cards show their new color.
func (q *QuizScreen) displayCards() []*card.Card {
	if len(q.allCards) > 0 {
		return q.allCards
	}
	return q.session.Queued()
}

func renderQualityButtons(width int) string {
	buttons := []struct {
		key   string
		label string
		color color.Color
	}{
		{"1", "Bad", theme.Error},
		{"2", "OK", theme.Accent},
		{"3", "Good", theme.Success},
		{"4", "Perfect", theme.Secondary},
	}

	parts := make([]string, 0, len(buttons))
	for _, btn := range buttons {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(btn.color).
			Bold(true).
			Render(fmt.Sprintf("[%s] %s", btn.key, btn.label)))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(parts, "    "))
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Every answer so far is already saved."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
