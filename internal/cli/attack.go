package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AryanVadhadiya/Smooth-Operator/pkg/client"
)

func newAttackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attack",
		Short: "Run red-team attack simulations",
	}

	cmd.AddCommand(newAttackSimulateCmd())
	cmd.AddCommand(newAttackScenariosCmd())
	cmd.AddCommand(newAttackRunCmd())
	cmd.AddCommand(newAttackReportCmd())

	return cmd
}

func newAttackSimulateCmd() *cobra.Command {
	var sector, attackType string
	var samples int

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Inject synthetic attack telemetry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sector == "" || attackType == "" {
				return fmt.Errorf("--sector and --type are required")
			}

			ctx := context.Background()
			result, err := apiClient.Attacks().Simulate(ctx, client.SimulateAttackRequest{
				Sector:     sector,
				AttackType: attackType,
				NumSamples: samples,
			})
			if err != nil {
				return fmt.Errorf("failed to simulate attack: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			fmt.Printf("Status:    %s\n", result.Status)
			if result.Message != "" {
				fmt.Printf("Message:   %s\n", result.Message)
			}
			fmt.Printf("Injected:  %d samples\n", result.SamplesGenerated)
			fmt.Printf("Detected:  %d anomalies\n", result.AnomaliesDetected)
			fmt.Printf("Alerts:    %d created\n", result.AlertsCreated)
			return nil
		},
	}

	cmd.Flags().StringVar(&sector, "sector", "", "target sector (healthcare, agriculture, urban)")
	cmd.Flags().StringVar(&attackType, "type", "", "attack type, see 'attack scenarios'")
	cmd.Flags().IntVar(&samples, "samples", 0, "attack samples to generate")

	return cmd
}

func newAttackScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the red-team scenario catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scenarios, err := apiClient.Attacks().Scenarios(ctx)
			if err != nil {
				return fmt.Errorf("failed to list scenarios: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(scenarios)
			}

			t := NewTable("SCENARIO", "SECTOR", "INTENSITY", "ATTACK TYPES")
			for _, s := range scenarios {
				t.AddRow(
					s.Key,
					s.Sector,
					s.Intensity,
					truncate(strings.Join(s.AttackTypes, ", "), 50),
				)
			}
			t.Render()
			return nil
		},
	}
}

func newAttackRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario>",
		Short: "Execute one cataloged scenario end to end",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			result, err := apiClient.Attacks().RunScenario(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to run scenario: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			fmt.Printf("Scenario:  %s\n", result.Scenario.Key)
			fmt.Printf("Injected:  %d samples\n", result.SamplesGenerated)
			fmt.Printf("Detected:  %v\n", result.Detected)
			fmt.Printf("Anomalies: %d\n", result.AnomaliesDetected)
			fmt.Printf("Alerts:    %d\n", result.AlertsCreated)
			fmt.Printf("Actions:   %d\n", result.ActionsTaken)
			return nil
		},
	}
}

func newAttackReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show MITRE coverage across executed scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			report, err := apiClient.Attacks().Report(ctx)
			if err != nil {
				return fmt.Errorf("failed to get red-team report: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(report)
			}

			if report.TotalScenariosExecuted == 0 {
				fmt.Println("No scenarios executed yet")
				return nil
			}

			fmt.Printf("Scenarios executed: %d\n", report.TotalScenariosExecuted)
			fmt.Printf("Attack samples:     %d\n", report.TotalAttackSamples)
			fmt.Printf("MITRE coverage:     %.1f%%\n", report.MitreCoveragePercentage)
			if len(report.MitreTacticsTested) > 0 {
				fmt.Printf("Tactics tested:     %s\n", strings.Join(report.MitreTacticsTested, ", "))
			}

			if len(report.ScenariosBySector) > 0 {
				fmt.Println("\nBy sector:")
				t := NewTable("SECTOR", "RUNS")
				for sector, n := range report.ScenariosBySector {
					t.AddRow(sector, strconv.Itoa(n))
				}
				t.Render()
			}
			return nil
		},
	}
}
