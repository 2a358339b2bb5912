package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lernbox/internal/card"
	"lernbox/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning progress per set",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		col, err := st.LoadCollection(cmd.Context())
		if err != nil {
			return fmt.Errorf("load collection: %w", err)
		}

		if len(col.Subjects) == 0 {
			fmt.Println("No cards yet. Import a deck with: lernbox deck import <file.json>")
			return nil
		}

		for _, subject := range col.Subjects {
			fmt.Printf("%s\n", subject.Name)
			for _, set := range subject.Sets {
				counts := set.StatusCounts()
				acc, answers := setAccuracy(set.Cards)
				accStr := "-"
				if answers > 0 {
					accStr = fmt.Sprintf("%.0f%%", acc*100)
				}
				fmt.Printf("  %-30s %3d/%-3d learned   accuracy %s\n",
					set.Name, set.LearnedCount(), len(set.Cards), accStr)
				for _, status := range card.Statuses {
					if counts[status] == 0 {
						continue
					}
					fmt.Printf("    %-10s %d\n", status, counts[status])
				}
			}
			fmt.Println()
		}
		return nil
	},
}

// setAccuracy aggregates per-card accuracy over a whole set, weighted by
// how often each card was answered.
func setAccuracy(cards []*card.Card) (float64, int) {
	var correct float64
	var total int
	for _, c := range cards {
		acc, answers := c.Accuracy()
		correct += acc * float64(answers)
		total += answers
	}
	if total == 0 {
		return 0, 0
	}
	return correct / float64(total), total
}
