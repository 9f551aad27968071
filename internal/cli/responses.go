package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newResponsesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "responses",
		Short: "Review and approve automated responses",
	}

	cmd.AddCommand(newResponsesListCmd())
	cmd.AddCommand(newResponsesPendingCmd())
	cmd.AddCommand(newResponsesApproveCmd())
	cmd.AddCommand(newResponsesRollbackCmd())
	cmd.AddCommand(newResponsesStatsCmd())

	return cmd
}

func newResponsesListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List executed actions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actions, err := apiClient.Responses().List(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to list responses: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(actions)
			}

			t := NewTable("ID", "ACTION", "TARGET", "STATUS", "REASON")
			for _, a := range actions {
				t.AddRow(
					a.ID,
					a.ActionType,
					a.Target,
					formatStatus(a.Status),
					truncate(a.Reason, 40),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum actions to return")

	return cmd
}

func newResponsesPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List actions parked for approval, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			actions, err := apiClient.Responses().Pending(ctx)
			if err != nil {
				return fmt.Errorf("failed to list pending approvals: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(actions)
			}

			if len(actions) == 0 {
				fmt.Println("No actions awaiting approval")
				return nil
			}

			t := NewTable("ID", "ACTION", "TARGET", "ALERT", "WAITING SINCE")
			for _, a := range actions {
				t.AddRow(
					a.ID,
					a.ActionType,
					a.Target,
					a.AlertID,
					a.CreatedAt.Format("2006-01-02 15:04:05"),
				)
			}
			t.Render()
			return nil
		},
	}
}

func newResponsesApproveCmd() *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Release a parked action and run it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if by == "" {
				return fmt.Errorf("--by is required")
			}

			ctx := context.Background()
			a, err := apiClient.Responses().Approve(ctx, args[0], by)
			if err != nil {
				return fmt.Errorf("failed to approve action: %w", err)
			}

			fmt.Printf("%s on %s: %s\n", a.ActionType, a.Target, a.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "operator approving the action")

	return cmd
}

func newResponsesRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback <id>",
		Short: "Reverse a completed action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := apiClient.Responses().Rollback(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to roll back action: %w", err)
			}

			fmt.Printf("%s on %s rolled back\n", a.ActionType, a.Target)
			return nil
		},
	}
}

func newResponsesStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the response execution rollup",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			stats, err := apiClient.Responses().Statistics(ctx)
			if err != nil {
				return fmt.Errorf("failed to get response statistics: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(stats)
			}

			fmt.Printf("Total:            %d\n", stats.Total)
			fmt.Printf("Completed:        %d\n", stats.Completed)
			fmt.Printf("Failed:           %d\n", stats.Failed)
			fmt.Printf("Pending approval: %d\n", stats.PendingApproval)
			fmt.Printf("Success rate:     %.1f%%\n", stats.SuccessRate*100)

			if len(stats.ActionCounts) > 0 {
				fmt.Println("\nBy action:")
				t := NewTable("ACTION", "COUNT")
				for action, n := range stats.ActionCounts {
					t.AddRow(action, strconv.Itoa(n))
				}
				t.Render()
			}
			return nil
		},
	}
}
