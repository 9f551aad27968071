package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/AryanVadhadiya/Smooth-Operator/pkg/client"
)

// Example demonstrates basic usage of the Smooth Operator client
func Example() {
	// Create a new client
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	// Check the API is up
	health, err := c.Health(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("API status: %s\n", health.Status)

	// List active alerts
	alerts, err := c.Alerts().List(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d active alerts\n", len(alerts))
}

// ExampleDetectionService_Train demonstrates training a sector's models
func ExampleDetectionService_Train() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	result, err := c.Detection().Train(context.Background(), "healthcare", 500)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Trained %d detectors on %d samples\n", len(result.Detectors), result.Samples)
}

// ExampleDetectionService_Detect demonstrates scoring pushed telemetry
func ExampleDetectionService_Detect() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	samples := []client.Sample{
		{
			AssetID:   "HC-0001",
			AssetType: "patient_monitor",
			Sector:    "healthcare",
			Features: map[string]float64{
				"cpu_usage":            97.5,
				"memory_usage":         91.2,
				"network_traffic_mbps": 840.0,
			},
		},
	}

	result, err := c.Detection().Detect(context.Background(), "healthcare", samples)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Anomalies: %d, alerts created: %d\n", result.Anomalies, result.AlertsCreated)
	for _, v := range result.Verdicts {
		fmt.Printf("  %s: score %.2f (%s)\n", v.AssetID, v.Score, v.Severity)
	}
}

// ExampleAlertService_List demonstrates listing critical alerts
func ExampleAlertService_List() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	alerts, err := c.Alerts().List(context.Background(), &client.AlertListOptions{
		Severity: "P0",
		Sector:   "healthcare",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d critical healthcare alerts\n", len(alerts))
	for _, a := range alerts {
		fmt.Printf("  - [%s] %s: %s\n", a.Severity, a.AssetID, a.Description)
	}
}

// ExampleAlertService_Acknowledge demonstrates the alert lifecycle
func ExampleAlertService_Acknowledge() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	acked, err := c.Alerts().Acknowledge(ctx, "alert-id", "soc-operator")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Alert %s is now %s\n", acked.ID, acked.Status)

	resolved, err := c.Alerts().Resolve(ctx, acked.ID, "soc-operator", "false positive")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Alert %s is now %s\n", resolved.ID, resolved.Status)
}

// ExampleResponseService_Approve demonstrates releasing a parked action
func ExampleResponseService_Approve() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	pending, err := c.Responses().Pending(ctx)
	if err != nil {
		log.Fatal(err)
	}

	for _, action := range pending {
		approved, err := c.Responses().Approve(ctx, action.ID, "soc-lead")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s on %s: %s\n", approved.ActionType, approved.Target, approved.Status)
	}
}

// ExampleAttackService_Simulate demonstrates injecting attack telemetry
func ExampleAttackService_Simulate() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	result, err := c.Attacks().Simulate(context.Background(), client.SimulateAttackRequest{
		Sector:     "healthcare",
		AttackType: "data_exfiltration",
		NumSamples: 20,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Injected %d samples, detected %d anomalies, raised %d alerts\n",
		result.SamplesGenerated, result.AnomaliesDetected, result.AlertsCreated)
}

// ExampleAttackService_RunScenario demonstrates running a cataloged
// red-team exercise
func ExampleAttackService_RunScenario() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	scenarios, err := c.Attacks().Scenarios(ctx)
	if err != nil {
		log.Fatal(err)
	}

	for _, s := range scenarios {
		fmt.Printf("%s (%s): %v\n", s.Key, s.Sector, s.AttackTypes)
	}

	result, err := c.Attacks().RunScenario(ctx, "healthcare_ransomware")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Detected: %v, alerts: %d, actions: %d\n",
		result.Detected, result.AlertsCreated, result.ActionsTaken)
}

// ExampleAssetService_Register demonstrates enrolling a physical device
func ExampleAssetService_Register() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	asset, err := c.Assets().Register(context.Background(), client.RegisterAssetRequest{
		AssetType: "infusion_pump",
		Sector:    "healthcare",
		Location:  "ward-3",
		IPAddress: "10.40.1.17",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Registered %s as %s\n", asset.Type, asset.ID)
}

// ExampleClient_Status demonstrates reading the operational snapshot
func ExampleClient_Status() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	status, err := c.Status(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("System: %s\n", status.Status)
	for _, m := range status.Models {
		fmt.Printf("  %s trained: %v\n", m.Sector, m.Trained)
	}
	fmt.Printf("Active alerts: %d\n", status.Alerts.Active)
	fmt.Printf("Pending approvals: %d\n", status.Responses.Pending)
}
