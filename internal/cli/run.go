package cli

import (
	"github.com/spf13/cobra"

	"rx-solvency-snapshot/internal/app"
)

var (
	runInput       string
	runSheet       string
	runOutput      string
	runConcurrency int
	runNoStore     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process the input sheet into a snapshot workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Run(cmd.Context(), app.RunOptions{
			InputPath:   runInput,
			Sheet:       runSheet,
			OutputPath:  runOutput,
			Concurrency: runConcurrency,
			NoStore:     runNoStore,
		})
	},
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "Path to the input .xlsx (defaults to config)")
	runCmd.Flags().StringVar(&runSheet, "sheet", "", "Input sheet name (defaults to the active sheet)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "Path to the output .xlsx (defaults to config)")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "Concurrent cases (defaults to config)")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "Skip database persistence")
}
