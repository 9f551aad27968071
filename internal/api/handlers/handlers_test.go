package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/engine"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/validator"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/policy"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/services"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/simulator"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "fatal", Format: "console"})
}

// apiStack wires the in-memory service graph the handlers sit on.
// No store, cache or queue, so tests exercise pure pipeline state.
type apiStack struct {
	pipeline  *services.PipelineService
	fleet     *services.FleetService
	alerts    *services.AlertService
	responses *services.ResponseService
	attacks   *services.AttackService
	settings  *services.SettingsService
	validator *validator.Validator
	logger    *logger.Logger
}

func newAPIStack(t *testing.T) *apiStack {
	t.Helper()
	log := testLogger()

	sims := simulator.NewAll(3, 77)
	engines := make(map[telemetry.Sector]*engine.Engine, len(sims))
	for sector := range sims {
		engines[sector] = engine.New(sector, config.DetectionConfig{}, log)
	}

	alerts := services.NewAlertService(config.AlertingConfig{QuietPeriod: time.Minute}, nil, nil, log)
	responses := services.NewResponseService(nil, log)
	pol, err := policy.New(config.ResponseConfig{AutoResponseEnabled: true}, log)
	if err != nil {
		t.Fatalf("policy.New: %v", err)
	}
	pipe := services.NewPipelineService(engines, sims, alerts, responses, pol, true, 150, log)
	fleet := services.NewFleetService(sims, pipe, 20, nil, log)
	attacks := services.NewAttackService(sims, pipe, log)
	settings := services.NewSettingsService(alerts, pipe, pol, nil, nil, log)

	return &apiStack{
		pipeline:  pipe,
		fleet:     fleet,
		alerts:    alerts,
		responses: responses,
		attacks:   attacks,
		settings:  settings,
		validator: validator.New(),
		logger:    log,
	}
}

// train fits one sector so detection endpoints have a model to score
// against.
func (s *apiStack) train(t *testing.T, sector telemetry.Sector) {
	t.Helper()
	if _, err := s.pipeline.Train(context.Background(), sector, 150, "manual"); err != nil {
		t.Fatalf("Train(%s): %v", sector, err)
	}
}

// extremeSample is telemetry no trained model could mistake for
// normal: orders of magnitude outside every baseline feature range.
func extremeSample(sector telemetry.Sector, assetID string) telemetry.Sample {
	return telemetry.Sample{
		AssetID:   assetID,
		AssetType: "test_device",
		Sector:    sector,
		Features: map[string]float64{
			"cpu_usage":            1_000_000,
			"memory_usage":         1_000_000,
			"network_traffic_mbps": 1_000_000,
			"disk_io_ops":          1_000_000,
		},
		Timestamp: time.Now().UTC(),
	}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	return bytes.NewBuffer(body)
}

// withURLParams injects chi route parameters the way the router would.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// envelope mirrors the standard response wrapper for assertions.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode response envelope: %v (body %q)", err, rr.Body.String())
	}
	return env
}

func wantStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("handler returned wrong status code: got %v want %v, body: %s", rr.Code, want, rr.Body.String())
	}
}

func wantErrorCode(t *testing.T, rr *httptest.ResponseRecorder, code string) {
	t.Helper()
	env := decodeEnvelope(t, rr)
	if env.Success {
		t.Fatalf("expected error envelope, got success: %s", rr.Body.String())
	}
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("expected error code %s, got %s", code, rr.Body.String())
	}
}
