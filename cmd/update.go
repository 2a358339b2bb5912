package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lernbox/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update lernbox to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		targetTag, _ := cmd.Flags().GetString("tag")

		checker := selfupdate.NewChecker(selfupdate.WithTimeout(2 * time.Minute))

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		tag, err := checker.Update(ctx, version, targetTag, func(_ selfupdate.Stage, msg string) {
			fmt.Println(msg)
		})
		if err == nil {
			fmt.Printf("Updated to %s. Restart lernbox to use it.\n", tag)
			return nil
		}

		if errors.Is(err, selfupdate.ErrDevBuild) {
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Println("Already running the latest version.")
			return nil
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nTry running: sudo lernbox update", err)
		}

		return err
	},
}

func init() {
	updateCmd.Flags().String("tag", "", "Install this release instead of the latest")
}
