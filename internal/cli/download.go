package cli

import (
	"github.com/spf13/cobra"

	"rx-solvency-snapshot/internal/app"
)

var (
	downloadInput   string
	downloadSheet   string
	downloadWorkers int
	downloadForce   bool
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Prefetch companyfacts documents into the local cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Download(cmd.Context(), app.DownloadOptions{
			InputPath: downloadInput,
			Sheet:     downloadSheet,
			Workers:   downloadWorkers,
			Force:     downloadForce,
		})
	},
}

func init() {
	downloadCmd.Flags().StringVar(&downloadInput, "input", "", "Path to the input .xlsx (defaults to config)")
	downloadCmd.Flags().StringVar(&downloadSheet, "sheet", "", "Input sheet name (defaults to the active sheet)")
	downloadCmd.Flags().IntVar(&downloadWorkers, "workers", 0, "Concurrent downloads (defaults to config)")
	downloadCmd.Flags().BoolVar(&downloadForce, "force", false, "Re-download documents already in the cache")
}
