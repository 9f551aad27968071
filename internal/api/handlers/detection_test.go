package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/dto"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
)

func TestDetectionHandler_Train(t *testing.T) {
	stack := newAPIStack(t)
	handler := NewDetectionHandler(stack.pipeline, stack.logger, stack.validator)

	tests := []struct {
		name           string
		sector         string
		query          string
		expectedStatus int
	}{
		{
			name:           "train healthcare",
			sector:         "healthcare",
			query:          "?num_samples=150",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown sector",
			sector:         "maritime",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/train/"+tt.sector+tt.query, nil)
			req = withURLParams(req, map[string]string{"sector": tt.sector})
			rr := httptest.NewRecorder()

			handler.Train(rr, req)

			wantStatus(t, rr, tt.expectedStatus)
		})
	}
}

func TestDetectionHandler_TrainReportsFittedDetectors(t *testing.T) {
	stack := newAPIStack(t)
	handler := NewDetectionHandler(stack.pipeline, stack.logger, stack.validator)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/train/agriculture?num_samples=150", nil)
	req = withURLParams(req, map[string]string{"sector": "agriculture"})
	rr := httptest.NewRecorder()

	handler.Train(rr, req)
	wantStatus(t, rr, http.StatusOK)

	env := decodeEnvelope(t, rr)
	var result struct {
		Sector    string   `json:"sector"`
		Samples   int      `json:"samples"`
		Detectors []string `json:"detectors"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode training result: %v", err)
	}
	if result.Sector != "agriculture" {
		t.Errorf("sector = %q, want agriculture", result.Sector)
	}
	if result.Samples != 150 {
		t.Errorf("samples = %d, want 150", result.Samples)
	}
	if len(result.Detectors) == 0 {
		t.Error("expected at least one fitted detector")
	}
}

func TestDetectionHandler_Detect(t *testing.T) {
	stack := newAPIStack(t)
	stack.train(t, telemetry.SectorHealthcare)
	handler := NewDetectionHandler(stack.pipeline, stack.logger, stack.validator)

	tests := []struct {
		name           string
		sector         string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "anomalous batch raises alert",
			sector: "healthcare",
			body: dto.DetectRequest{Samples: []telemetry.Sample{
				extremeSample(telemetry.SectorHealthcare, "HC-0001"),
			}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown sector",
			sector:         "maritime",
			body:           dto.DetectRequest{Samples: []telemetry.Sample{extremeSample("maritime", "X-1")}},
			expectedStatus: http.StatusNotFound,
			expectedCode:   errors.ErrCodeNotFound,
		},
		{
			name:           "empty batch fails validation",
			sector:         "healthcare",
			body:           dto.DetectRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   errors.ErrCodeValidation,
		},
		{
			name:           "untrained sector",
			sector:         "urban",
			body:           dto.DetectRequest{Samples: []telemetry.Sample{extremeSample(telemetry.SectorUrban, "UW-0001")}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   errors.ErrCodeNotTrained,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/detect/"+tt.sector, jsonBody(t, tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = withURLParams(req, map[string]string{"sector": tt.sector})
			rr := httptest.NewRecorder()

			handler.Detect(rr, req)

			wantStatus(t, rr, tt.expectedStatus)
			if tt.expectedCode != "" {
				wantErrorCode(t, rr, tt.expectedCode)
			}
		})
	}
}

func TestDetectionHandler_DetectFillsSectorFromPath(t *testing.T) {
	stack := newAPIStack(t)
	stack.train(t, telemetry.SectorHealthcare)
	handler := NewDetectionHandler(stack.pipeline, stack.logger, stack.validator)

	sample := extremeSample(telemetry.SectorHealthcare, "HC-0002")
	sample.Sector = ""
	body := dto.DetectRequest{Samples: []telemetry.Sample{sample}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/detect/healthcare", jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParams(req, map[string]string{"sector": "healthcare"})
	rr := httptest.NewRecorder()

	handler.Detect(rr, req)
	wantStatus(t, rr, http.StatusOK)

	env := decodeEnvelope(t, rr)
	var result struct {
		Anomalies int `json:"anomalies_detected"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode detect result: %v", err)
	}
	if result.Anomalies != 1 {
		t.Errorf("anomalies_detected = %d, want 1", result.Anomalies)
	}
}
