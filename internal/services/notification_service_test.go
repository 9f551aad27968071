package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/integrations"
)

type fakeHub struct {
	mu     sync.Mutex
	events []string
}

func (h *fakeHub) Broadcast(event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *fakeHub) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...)
}

func notificationAlert() *alert.Alert {
	return &alert.Alert{
		ID:            "alert-1",
		Severity:      detection.SeverityCritical,
		SeverityLabel: "Critical",
		AssetID:       "HC-0001",
		AssetType:     "infusion_pump",
		Sector:        "healthcare",
		Score:         0.98,
		Description:   "Anomalous telemetry detected on HC-0001",
	}
}

func TestNotifyAlert_FansOutToHubAndSlack(t *testing.T) {
	var mu sync.Mutex
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		body = b
		mu.Unlock()
	}))
	defer srv.Close()

	slack := integrations.NewSlackClient(config.IntegrationsConfig{
		SlackWebhookURL: srv.URL,
		SlackChannel:    "#security-ops",
	})
	hub := &fakeHub{}
	svc := NewNotificationService(slack, nil, nil, nil, hub, testLogger())

	svc.NotifyAlert(notificationAlert())
	svc.Close()

	if events := hub.seen(); len(events) != 1 || events[0] != "alert_created" {
		t.Errorf("hub events = %v, want [alert_created]", events)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(body) == 0 {
		t.Fatal("slack webhook never called")
	}
	var payload struct {
		Channel string `json:"channel"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal slack payload: %v", err)
	}
	if payload.Channel != "#security-ops" {
		t.Errorf("channel = %q", payload.Channel)
	}
	if !strings.Contains(string(body), `"[P0] Security Alert"`) {
		t.Error("payload missing severity title")
	}
}

func TestNotifyAlert_SlackFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	slack := integrations.NewSlackClient(config.IntegrationsConfig{SlackWebhookURL: srv.URL})
	hub := &fakeHub{}
	svc := NewNotificationService(slack, nil, nil, nil, hub, testLogger())

	svc.NotifyAlert(notificationAlert())
	svc.Close()

	// The broadcast must have gone out regardless of the Slack failure.
	if events := hub.seen(); len(events) != 1 {
		t.Errorf("hub events = %v", events)
	}
}

func TestNotifyAlert_AllSinksNil(t *testing.T) {
	svc := NewNotificationService(nil, nil, nil, nil, nil, testLogger())
	svc.NotifyAlert(notificationAlert())
	svc.Close()
}

func TestNotifyAlertUpdate_Broadcasts(t *testing.T) {
	hub := &fakeHub{}
	svc := NewNotificationService(nil, nil, nil, nil, hub, testLogger())

	a := notificationAlert()
	a.Status = alert.StatusAcknowledged
	svc.NotifyAlertUpdate(a)
	svc.Close()

	if events := hub.seen(); len(events) != 1 || events[0] != "alert_updated" {
		t.Errorf("hub events = %v, want [alert_updated]", events)
	}
}

func TestPublishResponse_Broadcasts(t *testing.T) {
	hub := &fakeHub{}
	svc := NewNotificationService(nil, nil, nil, nil, hub, testLogger())

	svc.PublishResponse(context.Background(), "response_completed", &response.Action{ID: "resp-1"})

	if events := hub.seen(); len(events) != 1 || events[0] != "response_completed" {
		t.Errorf("hub events = %v, want [response_completed]", events)
	}
}

func TestPublishAssetState_Broadcasts(t *testing.T) {
	hub := &fakeHub{}
	svc := NewNotificationService(nil, nil, nil, nil, hub, testLogger())

	svc.PublishAssetState(context.Background(), &asset.Asset{ID: "HC-0100", Status: asset.StatusActive})

	if events := hub.seen(); len(events) != 1 || events[0] != "device_updated" {
		t.Errorf("hub events = %v, want [device_updated]", events)
	}
}

func TestNotifyOperators_Broadcasts(t *testing.T) {
	hub := &fakeHub{}
	svc := NewNotificationService(nil, nil, nil, nil, hub, testLogger())

	svc.NotifyOperators(context.Background(), "settings_changed", map[string]interface{}{"quiet_period_seconds": 300})

	if events := hub.seen(); len(events) != 1 || events[0] != "settings_changed" {
		t.Errorf("hub events = %v, want [settings_changed]", events)
	}
}

func TestResponseService_EmitsLifecycleEvents(t *testing.T) {
	ctx := context.Background()
	hub := &fakeHub{}
	notifications := NewNotificationService(nil, nil, nil, nil, hub, testLogger())

	rs := NewResponseService(nil, testLogger())
	rs.SetEventSink(notifications)

	if _, err := rs.Execute(ctx, response.Spec{
		ActionType: response.ActionSnapshotSystem,
		Target:     "HC-0001",
		Reason:     "Pre-response system snapshot",
	}, "alert-1"); err != nil {
		t.Fatalf("Execute snapshot: %v", err)
	}

	parked, err := rs.Execute(ctx, response.Spec{
		ActionType:       response.ActionQuarantine,
		Target:           "HC-0001",
		Reason:           "Containment",
		RequiresApproval: true,
	}, "alert-1")
	if err != nil {
		t.Fatalf("Execute quarantine: %v", err)
	}
	if _, err := rs.Approve(ctx, parked.ID, "oncall"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := rs.Rollback(ctx, parked.ID); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	want := []string{"response_completed", "response_pending", "response_completed", "response_rolled_back"}
	got := hub.seen()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
