package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rx-solvency-snapshot/internal/app"
)

var (
	snapshotCIK  string
	snapshotDate string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Compute one company's snapshot and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotCIK == "" {
			return fmt.Errorf("--cik is required")
		}
		if snapshotDate == "" {
			return fmt.Errorf("--date is required")
		}
		return getApp().Snapshot(cmd.Context(), app.SnapshotOptions{
			CIK:       snapshotCIK,
			EventDate: snapshotDate,
		})
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotCIK, "cik", "", "Company CIK")
	snapshotCmd.Flags().StringVar(&snapshotDate, "date", "", "Event date (YYYY-MM-DD)")
}
