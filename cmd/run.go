package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lernbox/internal/app"
	"lernbox/internal/scheduler"
	"lernbox/internal/store"
)

// runApp opens the store, loads the collection, and launches the TUI.
func runApp(cmd *cobra.Command) error {
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

	return app.Run(app.Options{
		Store:      st,
		Collection: col,
		Config:     scheduler.DefaultConfig(),
	})
}
