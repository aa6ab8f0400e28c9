package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rx-solvency-snapshot/internal/app"
)

var (
	showCIK   string
	showLimit int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display stored snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showCIK == "" && showLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		return getApp().Show(cmd.Context(), app.ShowOptions{
			CIK:   showCIK,
			Limit: showLimit,
		})
	},
}

func init() {
	showCmd.Flags().StringVar(&showCIK, "cik", "", "Show the full history for one CIK")
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of snapshots to display")
}
