// Package main provides the sheetlive command: it polls a spreadsheet and
// serves the values to a browser overlay.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetlive",
		Short: "Drive a live overlay from a spreadsheet",
		Long: `sheetlive polls one range of a spreadsheet and applies each configured
cell to the overlay: text, images, counters and switches.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "sheetlive.toml", "Path to the TOML configuration")

	rootCmd.AddCommand(runCmd(), planCmd(), onceCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
