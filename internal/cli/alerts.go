package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AryanVadhadiya/Smooth-Operator/pkg/client"
)

func newAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Triage anomaly alerts",
	}

	cmd.AddCommand(newAlertsListCmd())
	cmd.AddCommand(newAlertsAckCmd())
	cmd.AddCommand(newAlertsResolveCmd())
	cmd.AddCommand(newAlertsStatsCmd())

	return cmd
}

func newAlertsListCmd() *cobra.Command {
	var severity, sector string
	var limit int
	var acked bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active alerts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var alerts []client.Alert
			var err error
			if acked {
				alerts, err = apiClient.Alerts().Acknowledged(ctx, limit)
			} else {
				alerts, err = apiClient.Alerts().List(ctx, &client.AlertListOptions{
					Severity: severity,
					Sector:   sector,
					Limit:    limit,
				})
			}
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(alerts)
			}

			t := NewTable("ID", "SEVERITY", "SECTOR", "ASSET", "STATUS", "DESCRIPTION")
			for _, a := range alerts {
				t.AddRow(
					a.ID,
					formatSeverity(a.Severity),
					a.Sector,
					a.AssetID,
					formatStatus(a.Status),
					truncate(a.Description, 50),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity (P0..P4)")
	cmd.Flags().StringVar(&sector, "sector", "", "filter by sector")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum alerts to return")
	cmd.Flags().BoolVar(&acked, "acknowledged", false, "list acknowledged alerts instead")

	return cmd
}

func newAlertsAckCmd() *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "ack <id>",
		Short: "Acknowledge an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if by == "" {
				return fmt.Errorf("--by is required")
			}

			ctx := context.Background()
			a, err := apiClient.Alerts().Acknowledge(ctx, args[0], by)
			if err != nil {
				return fmt.Errorf("failed to acknowledge alert: %w", err)
			}

			fmt.Printf("Alert %s acknowledged by %s\n", a.ID, a.AcknowledgedBy)
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "operator acknowledging the alert")

	return cmd
}

func newAlertsResolveCmd() *cobra.Command {
	var by, notes string

	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if by == "" {
				return fmt.Errorf("--by is required")
			}

			ctx := context.Background()
			a, err := apiClient.Alerts().Resolve(ctx, args[0], by, notes)
			if err != nil {
				return fmt.Errorf("failed to resolve alert: %w", err)
			}

			fmt.Printf("Alert %s resolved by %s\n", a.ID, a.ResolvedBy)
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "operator resolving the alert")
	cmd.Flags().StringVar(&notes, "notes", "", "resolution notes")

	return cmd
}

func newAlertsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the alert lifecycle rollup",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			stats, err := apiClient.Alerts().Statistics(ctx)
			if err != nil {
				return fmt.Errorf("failed to get alert statistics: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(stats)
			}

			fmt.Printf("Total:    %d\n", stats.Total)
			fmt.Printf("Active:   %d\n", stats.Active)
			fmt.Printf("Resolved: %d\n", stats.Resolved)
			if stats.MTTASeconds > 0 {
				fmt.Printf("MTTA:     %.1fs\n", stats.MTTASeconds)
			}
			if stats.MTTRSeconds > 0 {
				fmt.Printf("MTTR:     %.1fs\n", stats.MTTRSeconds)
			}

			if len(stats.SeverityCounts) > 0 {
				fmt.Println("\nBy severity:")
				t := NewTable("SEVERITY", "COUNT")
				for _, sev := range []string{"P0", "P1", "P2", "P3", "P4"} {
					if n, ok := stats.SeverityCounts[sev]; ok {
						t.AddRow(formatSeverity(sev), strconv.Itoa(n))
					}
				}
				t.Render()
			}
			return nil
		},
	}
}
