package main

import (
	"fmt"
	"os"

	"github.com/gridsense/internal/cli/commands"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gridsense",
	Short: "GridSense CLI - building power monitoring",
	Long: `GridSense CLI is a command-line tool for multi-zone building power
monitoring. It shows live zone snapshots, manages power limits and the
adjustment ledger, and works through the alert queue.`,
}

func init() {
	rootCmd.AddCommand(commands.NewZoneCommand())
	rootCmd.AddCommand(commands.NewAlertCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
