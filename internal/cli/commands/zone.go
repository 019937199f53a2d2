package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/gridsense/internal/api/client"
	"github.com/gridsense/internal/models"
	"github.com/spf13/cobra"
)

func NewZoneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "zone",
		Short:   "Zone monitoring and limit management",
		Aliases: []string{"zones", "z"},
	}

	cmd.AddCommand(newZoneListCommand())
	cmd.AddCommand(newZoneLimitCommand())
	cmd.AddCommand(newZoneHistoryCommand())

	return cmd
}

func newZoneListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "Show the latest snapshot for every zone",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			snapshots, err := c.ListZones()
			if err != nil {
				return fmt.Errorf("failed to list zones: %v", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ZONE\tUSAGE (kWh)\tLIMIT (kWh)\tSTATUS\tCAPTURED")
			for _, s := range snapshots {
				status := "ok"
				if s.Exceeded() {
					status = "OVER LIMIT"
				} else if s.Limit == 0 {
					status = "no limit"
				}
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\t%s\n",
					s.Zone, s.Usage, s.Limit, status,
					s.CapturedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newZoneLimitCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "limit [zone] [kwh]",
		Short: "Set a zone's power limit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid limit: %v", err)
			}
			if limit < 0 {
				return fmt.Errorf("limit must be non-negative")
			}

			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			if err := c.SetZoneLimit(args[0], limit, reason); err != nil {
				return fmt.Errorf("failed to set limit: %v", err)
			}

			fmt.Printf("Limit for %s set to %.0f kWh\n", args[0], limit)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the adjustment ledger")
	return cmd
}

func newZoneHistoryCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "history [zone]",
		Short: "Show the adjustment ledger, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			var records []models.AdjustmentRecord
			if len(args) == 1 && !all {
				records, err = c.GetZoneHistory(args[0])
			} else {
				records, err = c.GetHistory(false)
			}
			if err != nil {
				return fmt.Errorf("failed to fetch history: %v", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TIME\tZONE\tOLD (kWh)\tNEW (kWh)\tREASON")
			for i := len(records) - 1; i >= 0; i-- {
				r := records[i]
				fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t%s\n",
					r.Timestamp.Format(time.RFC3339), r.Zone, r.OldLimit, r.NewLimit, r.Reason)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show the full ledger across zones")
	return cmd
}
