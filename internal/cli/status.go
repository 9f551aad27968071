package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the operational snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			status, err := apiClient.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get system status: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(status)
			}

			fmt.Println("Smooth Operator")
			fmt.Println(strings.Repeat("=", 40))
			fmt.Printf("  Status:      %s\n", formatStatus(status.Status))
			fmt.Printf("  Monitoring:  %v\n", status.System.MonitoringActive)

			total := 0
			for _, n := range status.Devices {
				total += n
			}
			fmt.Printf("  Devices:     %d across %d sectors\n", total, len(status.Devices))

			trained := 0
			for _, m := range status.Models {
				if m.Trained {
					trained++
				}
			}
			fmt.Printf("  Models:      %d/%d sectors trained\n", trained, len(status.Models))

			fmt.Printf("  Alerts:      %d active (%d total)\n", status.Alerts.Active, status.Alerts.Total)
			fmt.Printf("  Responses:   %d total", status.Responses.Total)
			if status.Responses.Pending > 0 {
				fmt.Printf(" (%d awaiting approval)", status.Responses.Pending)
			}
			fmt.Println()

			if len(status.Infrastructure) > 0 {
				fmt.Println("\n  Infrastructure:")
				for name, comp := range status.Infrastructure {
					state := "down"
					if comp.Connected {
						state = "up"
					}
					if comp.Detail != "" {
						fmt.Printf("    %-10s %s (%s)\n", name, state, comp.Detail)
					} else {
						fmt.Printf("    %-10s %s\n", name, state)
					}
				}
			}

			return nil
		},
	}
}
