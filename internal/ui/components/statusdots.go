package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"lernbox/internal/card"
	"lernbox/internal/scheduler"
)

// StatusDots renders one colored dot per card: retired cards first, then
// the remaining queue with the current card highlighted.
type StatusDots struct {
	Cards     []*card.Card
	CurrentID string
	Config    scheduler.Config
}

// View renders the dot row.
func (d StatusDots) View() string {
	if len(d.Cards) == 0 {
		return ""
	}

	retired := make([]*card.Card, 0, len(d.Cards))
	learning := make([]*card.Card, 0, len(d.Cards))
	for _, c := range d.Cards {
		if c.Status().Retired() {
			retired = append(retired, c)
		} else {
			learning = append(learning, c)
		}
	}

	// The active card leads the learning group.
	for i, c := range learning {
		if c.ID == d.CurrentID {
			learning = append(learning[:i:i], learning[i+1:]...)
			learning = append([]*card.Card{c}, learning...)
			break
		}
	}

	var b strings.Builder
	ordered := append(retired, learning...)
	for i, c := range ordered {
		if i > 0 {
			b.WriteString(" ")
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(d.Config.Color(c.Status())))
		if c.ID == d.CurrentID {
			b.WriteString(style.Bold(true).Render("◉"))
		} else {
			b.WriteString(style.Render("●"))
		}
	}
	return b.String()
}
