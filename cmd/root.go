package cmd

import (
	"github.com/spf13/cobra"

	"lernbox/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lernbox",
	Short: "Terminal flashcard trainer with spaced repetition",
	Long:  "Lernbox — a terminal flashcard trainer that schedules reviews with a six-step spaced-repetition ladder.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LERNBOX_DB env var)")

	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LERNBOX_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
