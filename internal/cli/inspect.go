package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rx-solvency-snapshot/internal/app"
)

var (
	inspectCIK     string
	inspectConcept string
	inspectLimit   int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump the raw XBRL fact points behind a snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectCIK == "" {
			return fmt.Errorf("--cik is required")
		}
		return getApp().Inspect(cmd.Context(), app.InspectOptions{
			CIK:     inspectCIK,
			Concept: inspectConcept,
			Limit:   inspectLimit,
		})
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectCIK, "cik", "", "Company CIK")
	inspectCmd.Flags().StringVar(&inspectConcept, "concept", "", "Concept name to dump (omit to list concepts)")
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 25, "Maximum points to print (most recent last)")
}
