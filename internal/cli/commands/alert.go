package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gridsense/internal/api/client"
	"github.com/spf13/cobra"
)

func NewAlertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alert",
		Short:   "Alert management commands",
		Aliases: []string{"alerts", "a"},
	}

	cmd.AddCommand(newAlertListCommand())
	cmd.AddCommand(newAlertAcknowledgeCommand())
	cmd.AddCommand(newAlertResolveCommand())
	cmd.AddCommand(newAlertAnnotateCommand())
	cmd.AddCommand(newAlertDismissCommand())

	return cmd
}

func newAlertListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List alerts",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			alerts, err := c.ListAlerts(status)
			if err != nil {
				return fmt.Errorf("failed to list alerts: %v", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tZONE\tUSAGE\tLIMIT\tSTATUS\tDETECTED\tNOTES")
			for _, a := range alerts {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%s\t%s\t%s\n",
					a.AlertID, a.Zone, a.Usage, a.Limit, a.Status,
					a.DetectedAt.Format(time.RFC3339), a.Notes)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by alert status (ACTIVE/ACKNOWLEDGED/RESOLVED)")
	return cmd
}

func newAlertAcknowledgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "acknowledge [alert_id]",
		Short:   "Acknowledge an active alert",
		Aliases: []string{"ack"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			if err := c.AcknowledgeAlert(args[0]); err != nil {
				return fmt.Errorf("failed to acknowledge alert: %v", err)
			}

			fmt.Printf("Alert %s acknowledged\n", args[0])
			return nil
		},
	}
}

func newAlertResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [alert_id]",
		Short: "Resolve an acknowledged alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			if err := c.ResolveAlert(args[0]); err != nil {
				return fmt.Errorf("failed to resolve alert: %v", err)
			}

			fmt.Printf("Alert %s resolved\n", args[0])
			return nil
		},
	}
}

func newAlertAnnotateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "annotate [alert_id] [note]",
		Short: "Attach a note to an alert",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			if err := c.AnnotateAlert(args[0], args[1]); err != nil {
				return fmt.Errorf("failed to annotate alert: %v", err)
			}

			fmt.Printf("Alert %s annotated\n", args[0])
			return nil
		},
	}
}

func newAlertDismissCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss [alert_id]",
		Short: "Remove an alert from the live set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			if err := c.DismissAlert(args[0]); err != nil {
				return fmt.Errorf("failed to dismiss alert: %v", err)
			}

			fmt.Printf("Alert %s dismissed\n", args[0])
			return nil
		},
	}
}
