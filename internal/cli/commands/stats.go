package commands

import (
	"fmt"

	"github.com/gridsense/internal/api/client"
	"github.com/spf13/cobra"
)

func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Building-wide usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			stats, err := c.GetStats()
			if err != nil {
				return fmt.Errorf("failed to fetch stats: %v", err)
			}

			fmt.Printf("Zones:         %d\n", stats.ZoneCount)
			fmt.Printf("Total usage:   %.2f kWh\n", stats.TotalUsage)
			fmt.Printf("Average usage: %.2f kWh\n", stats.AverageUsage)
			fmt.Printf("Total limit:   %.2f kWh\n", stats.TotalLimit)
			if stats.PeakZone != "" {
				fmt.Printf("Peak zone:     %s (%.2f kWh)\n", stats.PeakZone, stats.PeakUsage)
			}
			return nil
		},
	}

	cmd.AddCommand(newStatsExportCommand())
	return cmd
}

func newStatsExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export daily per-zone usage as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			if err := c.ExportUsage(output); err != nil {
				return fmt.Errorf("failed to export usage: %v", err)
			}

			fmt.Printf("Usage history written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "gridsense-usage.csv", "Output file")
	return cmd
}
