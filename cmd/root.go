// Package cmd provides the command-line interface of the plant simulator.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "thermal",
	Short: "Thermal power plant simulator.",
	Long: `Simulates the boiler, turbine and generator of a coal fired unit ` +
		`and streams its state and guided tour to a 3D renderer over websocket.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
