package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lernbox/internal/deck"
	"lernbox/internal/store"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Import and export deck files",
}

var deckImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a deck file into the database",
	Long:  "Validate a deck file against the deck schema and upsert its subjects, sets and cards. Progress of already-known cards is kept unless the file carries its own scheduling state.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read deck file: %w", err)
		}

		col, err := deck.Decode(raw)
		if err != nil {
			return fmt.Errorf("decode deck file: %w", err)
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

		if err := st.ImportCollection(cmd.Context(), col); err != nil {
			return fmt.Errorf("import: %w", err)
		}

		cards := len(col.AllCards())
		fmt.Printf("Imported %d subject(s), %d card(s).\n", len(col.Subjects), cards)
		return nil
	},
}

var deckExportCmd = &cobra.Command{
	Use:   "export <file.json>",
	Short: "Export the database to a deck file",
	Args:  cobra.ExactArgs(1),
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

		raw, err := deck.Encode(col)
		if err != nil {
			return fmt.Errorf("encode deck: %w", err)
		}

		if err := os.WriteFile(args[0], raw, 0644); err != nil {
			return fmt.Errorf("write deck file: %w", err)
		}

		fmt.Printf("Exported %d subject(s) to %s.\n", len(col.Subjects), args[0])
		return nil
	},
}

func init() {
	deckCmd.AddCommand(deckImportCmd)
	deckCmd.AddCommand(deckExportCmd)
}
