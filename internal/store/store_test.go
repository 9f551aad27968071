package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
)

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "fatal", Format: "console"})
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "mirror.db"),
	}, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testAlert(id string, createdAt time.Time) *alert.Alert {
	return &alert.Alert{
		ID:            id,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
		Severity:      detection.SeverityCritical,
		SeverityLabel: detection.SeverityCritical.Label(),
		AssetID:       "HC-0001",
		AssetType:     "infusion_pump",
		Sector:        "healthcare",
		Score:         0.97,
		DetectorVotes: map[string]int{"zscore": 1, "moving_avg": 1},
		Description:   "Anomalous telemetry from HC-0001",
		Status:        alert.StatusActive,
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"}, testLogger())
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Open already migrated; a second run must skip every file.
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	if err := s.Alerts().Save(ctx, testAlert("alert-1", testBase)); err != nil {
		t.Fatalf("Save after re-migrate: %v", err)
	}
}

func TestAlertRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := testAlert("alert-rt", testBase.Add(1500*time.Millisecond))
	in.ResponseActions = []string{"resp-1", "resp-2"}

	if err := s.Alerts().Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Alerts().GetByID(ctx, "alert-rt")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if out.ID != in.ID || out.AssetID != in.AssetID || out.AssetType != in.AssetType {
		t.Errorf("identity fields = %q/%q/%q", out.ID, out.AssetID, out.AssetType)
	}
	if out.Severity != detection.SeverityCritical || out.SeverityLabel != "Critical" {
		t.Errorf("severity = %q/%q", out.Severity, out.SeverityLabel)
	}
	if out.Sector != "healthcare" || out.Status != alert.StatusActive {
		t.Errorf("sector/status = %q/%q", out.Sector, out.Status)
	}
	if out.Score != in.Score {
		t.Errorf("score = %v, want %v", out.Score, in.Score)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || !out.UpdatedAt.Equal(in.UpdatedAt) {
		t.Errorf("timestamps = %v/%v, want %v", out.CreatedAt, out.UpdatedAt, in.CreatedAt)
	}
	if out.AcknowledgedAt != nil || out.ResolvedAt != nil {
		t.Errorf("expected nil lifecycle timestamps, got %v/%v", out.AcknowledgedAt, out.ResolvedAt)
	}
	if len(out.DetectorVotes) != 2 || out.DetectorVotes["zscore"] != 1 {
		t.Errorf("detector votes = %v", out.DetectorVotes)
	}
	if len(out.ResponseActions) != 2 || out.ResponseActions[0] != "resp-1" {
		t.Errorf("response actions = %v", out.ResponseActions)
	}
}

func TestAlertUpsertRefreshesLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testAlert("alert-up", testBase)
	if err := s.Alerts().Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ackAt := testBase.Add(2 * time.Minute)
	resolvedAt := testBase.Add(10 * time.Minute)
	a.Status = alert.StatusResolved
	a.UpdatedAt = resolvedAt
	a.AcknowledgedBy = "oncall"
	a.AcknowledgedAt = &ackAt
	a.ResolvedBy = "oncall"
	a.ResolvedAt = &resolvedAt
	a.ResolutionNotes = "false positive"
	if err := s.Alerts().Save(ctx, a); err != nil {
		t.Fatalf("re-Save: %v", err)
	}

	all, err := s.Alerts().List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("List returned %d alerts, want 1", len(all))
	}

	out := all[0]
	if out.Status != alert.StatusResolved {
		t.Errorf("status = %q, want resolved", out.Status)
	}
	if out.AcknowledgedAt == nil || !out.AcknowledgedAt.Equal(ackAt) {
		t.Errorf("acknowledged_at = %v, want %v", out.AcknowledgedAt, ackAt)
	}
	if out.ResolvedAt == nil || !out.ResolvedAt.Equal(resolvedAt) {
		t.Errorf("resolved_at = %v, want %v", out.ResolvedAt, resolvedAt)
	}
	if out.ResolutionNotes != "false positive" {
		t.Errorf("resolution notes = %q", out.ResolutionNotes)
	}
}

func TestAlertList_MostRecentFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"alert-a", "alert-b", "alert-c"} {
		a := testAlert(id, testBase.Add(time.Duration(i)*time.Minute))
		if err := s.Alerts().Save(ctx, a); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	all, err := s.Alerts().List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List returned %d alerts, want 3", len(all))
	}
	if all[0].ID != "alert-c" || all[2].ID != "alert-a" {
		t.Errorf("order = [%s %s %s], want newest first", all[0].ID, all[1].ID, all[2].ID)
	}

	limited, err := s.Alerts().List(ctx, 2)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "alert-c" || limited[1].ID != "alert-b" {
		t.Errorf("limited list wrong: got %d entries", len(limited))
	}
}

func TestAlertGetByID_Missing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Alerts().GetByID(context.Background(), "ghost")
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestActionLifecycleRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := &response.Action{
		ID:               "resp-1",
		AlertID:          "alert-1",
		ActionType:       response.ActionQuarantine,
		Target:           "HC-0001",
		Reason:           "Life-critical device isolation",
		Priority:         "P0",
		RequiresApproval: true,
		Status:           response.StatusPending,
		CreatedAt:        testBase,
	}
	if err := s.Actions().Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Actions().GetByID(ctx, "resp-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !out.RequiresApproval || out.Success {
		t.Errorf("flags = approval:%v success:%v", out.RequiresApproval, out.Success)
	}
	if out.ApprovedAt != nil || out.ExecutedAt != nil || out.CompletedAt != nil || out.RolledBackAt != nil {
		t.Error("expected nil lifecycle timestamps on pending action")
	}

	approvedAt := testBase.Add(time.Minute)
	executedAt := testBase.Add(2 * time.Minute)
	completedAt := testBase.Add(3 * time.Minute)
	in.Status = response.StatusCompleted
	in.ApprovedBy = "oncall"
	in.ApprovedAt = &approvedAt
	in.ExecutedAt = &executedAt
	in.CompletedAt = &completedAt
	in.Success = true
	in.Output = "device quarantined"
	if err := s.Actions().Save(ctx, in); err != nil {
		t.Fatalf("re-Save: %v", err)
	}

	out, err = s.Actions().GetByID(ctx, "resp-1")
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if out.Status != response.StatusCompleted || !out.Success {
		t.Errorf("status/success = %q/%v", out.Status, out.Success)
	}
	if out.ApprovedAt == nil || !out.ApprovedAt.Equal(approvedAt) {
		t.Errorf("approved_at = %v, want %v", out.ApprovedAt, approvedAt)
	}
	if out.CompletedAt == nil || !out.CompletedAt.Equal(completedAt) {
		t.Errorf("completed_at = %v, want %v", out.CompletedAt, completedAt)
	}
	if out.Output != "device quarantined" {
		t.Errorf("output = %q", out.Output)
	}

	_, err = s.Actions().GetByID(ctx, "ghost")
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestActionList_MostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"resp-a", "resp-b"} {
		a := &response.Action{
			ID:         id,
			AlertID:    "alert-1",
			ActionType: response.ActionSnapshotSystem,
			Target:     "HC-0001",
			Status:     response.StatusCompleted,
			CreatedAt:  testBase.Add(time.Duration(i) * time.Minute),
		}
		if err := s.Actions().Save(ctx, a); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	all, err := s.Actions().List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != "resp-b" {
		t.Fatalf("expected [resp-b resp-a], got %d entries starting %s", len(all), all[0].ID)
	}

	limited, err := s.Actions().List(ctx, 1)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "resp-b" {
		t.Errorf("limited list wrong")
	}
}

func TestAssetSaveListDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &asset.Asset{
		ID:           "HEA-REG-01",
		Type:         "infusion_pump",
		Sector:       "healthcare",
		Location:     "ward-3",
		IPAddress:    "10.1.2.3",
		Metadata:     map[string]string{"vendor": "acme"},
		Status:       asset.StatusActive,
		RegisteredAt: testBase,
	}
	second := &asset.Asset{
		ID:           "AGR-REG-02",
		Type:         "soil_sensor",
		Sector:       "agriculture",
		Status:       asset.StatusActive,
		RegisteredAt: testBase.Add(time.Minute),
	}

	if err := s.Assets().Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := s.Assets().Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	all, err := s.Assets().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != "HEA-REG-01" || all[1].ID != "AGR-REG-02" {
		t.Fatalf("expected registration order, got %d entries", len(all))
	}
	if all[0].Metadata["vendor"] != "acme" {
		t.Errorf("metadata = %v", all[0].Metadata)
	}
	if !all[0].RegisteredAt.Equal(testBase) {
		t.Errorf("registered_at = %v, want %v", all[0].RegisteredAt, testBase)
	}

	first.Location = "ward-7"
	if err := s.Assets().Save(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	all, err = s.Assets().List(ctx)
	if err != nil {
		t.Fatalf("List after upsert: %v", err)
	}
	if len(all) != 2 || all[0].Location != "ward-7" {
		t.Errorf("upsert did not refresh location: %v", all[0].Location)
	}

	if err := s.Assets().Delete(ctx, "HEA-REG-01"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Assets().Delete(ctx, "ghost"); err != nil {
		t.Fatalf("Delete unknown should be a no-op: %v", err)
	}

	all, err = s.Assets().List(ctx)
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(all) != 1 || all[0].ID != "AGR-REG-02" {
		t.Fatalf("expected only AGR-REG-02, got %d entries", len(all))
	}
}
