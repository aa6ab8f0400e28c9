package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rx-solvency-snapshot/internal/app"
)

var (
	exportCIK       string
	exportPNGPath   string
	exportCSVPath   string
	exportMaxPoints int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one company's ratio history as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportCIK == "" {
			return fmt.Errorf("--cik is required")
		}
		return getApp().Export(cmd.Context(), app.ExportOptions{
			CIK:       exportCIK,
			PNGPath:   exportPNGPath,
			CSVPath:   exportCSVPath,
			MaxPoints: exportMaxPoints,
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportCIK, "cik", "", "Company CIK")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum data points to export (defaults to config)")
}
