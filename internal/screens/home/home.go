package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"lernbox/internal/deck"
	"lernbox/internal/router"
	"lernbox/internal/scheduler"
	"lernbox/internal/screen"
	"lernbox/internal/screens/sets"
	"lernbox/internal/store"
	"lernbox/internal/ui/components"
	"lernbox/internal/ui/layout"
	"lernbox/internal/ui/theme"
)

// HomeScreen is the subject overview, the root of the navigation stack.
type HomeScreen struct {
	menu  components.Menu
	empty bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen over the loaded collection.
func New(col *deck.Collection, st *store.Store, cfg scheduler.Config) *HomeScreen {
	if col == nil || len(col.Subjects) == 0 {
		return &HomeScreen{empty: true}
	}

	items := make([]components.MenuItem, 0, len(col.Subjects)+1)
	for _, subject := range col.Subjects {
		subject := subject
		cards := 0
		for _, set := range subject.Sets {
			cards += len(set.Cards)
		}
		items = append(items, components.MenuItem{
			Label:  subject.Name,
			Detail: fmt.Sprintf("%d sets, %d cards", len(subject.Sets), cards),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: sets.New(subject, st, cfg)}
				}
			},
		})
	}
	items = append(items, components.MenuItem{
		Label: "Exit",
		Action: func() tea.Cmd {
			return tea.Quit
		},
	})

	return &HomeScreen{menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Subjects"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.empty {
		return []layout.KeyHint{{Key: "Q", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if h.empty {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			if k := kmsg.String(); k == "q" || k == "enter" {
				return h, tea.Quit
			}
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	if h.empty {
		var b strings.Builder
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Bold(true).
			Render("No cards yet"))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Import a deck file to get started:"))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Secondary).
			Render("lernbox deck import <file.json>"))
		return b.String()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Pick a subject"))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())
	return b.String()
}
