package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lernbox/internal/card"
	"lernbox/internal/scheduler"
	"lernbox/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learning progress",
	Long:  "Reset scheduling state and answer history. Scope the reset with --set or --card, or wipe everything with --all.",
	RunE: func(cmd *cobra.Command, args []string) error {
		setID, _ := cmd.Flags().GetString("set")
		cardID, _ := cmd.Flags().GetString("card")
		all, _ := cmd.Flags().GetBool("all")

		scopes := 0
		for _, set := range []bool{setID != "", cardID != "", all} {
			if set {
				scopes++
			}
		}
		if scopes != 1 {
			return errors.New("pass exactly one of --all, --set or --card")
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()
		col, err := st.LoadCollection(ctx)
		if err != nil {
			return fmt.Errorf("load collection: %w", err)
		}

		var targets []*card.Card
		switch {
		case all:
			targets = col.AllCards()
		case setID != "":
			_, set := col.FindSet(setID)
			if set == nil {
				return fmt.Errorf("no set with id %q", setID)
			}
			targets = set.Cards
		case cardID != "":
			_, c := col.FindCard(cardID)
			if c == nil {
				return fmt.Errorf("no card with id %q", cardID)
			}
			targets = []*card.Card{c}
		}

		if err := resetProgress(ctx, st, time.Now(), targets); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Printf("Reset progress of %d card(s).\n", len(targets))
		return nil
	},
}

// resetProgress resets the cards through the scheduler and persists the
// result, so command and session agree on what "reset" means.
func resetProgress(ctx context.Context, st *store.Store, now time.Time, cards []*card.Card) error {
	scheduler.ResetProgress(now, cards...)
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return st.ResetCards(ctx, now, ids...)
}

func init() {
	resetCmd.Flags().String("set", "", "Reset all cards of the set with this ID")
	resetCmd.Flags().String("card", "", "Reset the card with this ID")
	resetCmd.Flags().Bool("all", false, "Reset every card")
}
