package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/api/dto"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
)

func TestAssetHandler_Register(t *testing.T) {
	stack := newAPIStack(t)
	handler := NewAssetHandler(stack.fleet, stack.logger, stack.validator)

	tests := []struct {
		name           string
		body           dto.RegisterAssetRequest
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "register infusion pump",
			body: dto.RegisterAssetRequest{
				AssetType: "infusion_pump",
				Sector:    "healthcare",
				Location:  "ward 4",
				IPAddress: "10.0.0.5",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unknown sector",
			body: dto.RegisterAssetRequest{
				AssetType: "buoy",
				Sector:    "maritime",
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   errors.ErrCodeValidation,
		},
		{
			name: "malformed ip",
			body: dto.RegisterAssetRequest{
				AssetType: "soil_sensor",
				Sector:    "agriculture",
				IPAddress: "not-an-ip",
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   errors.ErrCodeValidation,
		},
		{
			name: "missing type",
			body: dto.RegisterAssetRequest{
				Sector: "urban",
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   errors.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", jsonBody(t, tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.Register(rr, req)

			wantStatus(t, rr, tt.expectedStatus)
			if tt.expectedCode != "" {
				wantErrorCode(t, rr, tt.expectedCode)
				return
			}
			env := decodeEnvelope(t, rr)
			var a asset.Asset
			if err := json.Unmarshal(env.Data, &a); err != nil {
				t.Fatalf("decode registered asset: %v", err)
			}
			if a.ID == "" {
				t.Error("expected a generated asset_id")
			}
			if a.Status != asset.StatusActive {
				t.Errorf("status = %q, want %q", a.Status, asset.StatusActive)
			}
			if a.IsSimulated {
				t.Error("registered device must not be flagged simulated")
			}
		})
	}
}

func TestAssetHandler_RegisterDuplicate(t *testing.T) {
	stack := newAPIStack(t)
	handler := NewAssetHandler(stack.fleet, stack.logger, stack.validator)

	body := dto.RegisterAssetRequest{
		AssetID:   "HEA-REG-77",
		AssetType: "mri_scanner",
		Sector:    "healthcare",
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	wantStatus(t, rr, http.StatusCreated)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/assets", jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	handler.Register(rr, req)
	wantStatus(t, rr, http.StatusConflict)
	wantErrorCode(t, rr, errors.ErrCodeConflict)
}

func TestAssetHandler_Listings(t *testing.T) {
	stack := newAPIStack(t)
	handler := NewAssetHandler(stack.fleet, stack.logger, stack.validator)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", jsonBody(t, dto.RegisterAssetRequest{
		AssetType: "traffic_light",
		Sector:    "urban",
	}))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	wantStatus(t, rr, http.StatusCreated)

	// Registered listing carries only the external device.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/assets", nil)
	rr = httptest.NewRecorder()
	handler.List(rr, req)
	wantStatus(t, rr, http.StatusOK)

	env := decodeEnvelope(t, rr)
	var registered []asset.Asset
	if err := json.Unmarshal(env.Data, &registered); err != nil {
		t.Fatalf("decode registered list: %v", err)
	}
	if len(registered) != 1 {
		t.Fatalf("got %d registered assets, want 1", len(registered))
	}

	// The full listing adds 3 simulated devices per sector.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/assets/all", nil)
	rr = httptest.NewRecorder()
	handler.ListAll(rr, req)
	wantStatus(t, rr, http.StatusOK)

	env = decodeEnvelope(t, rr)
	var all []asset.Asset
	if err := json.Unmarshal(env.Data, &all); err != nil {
		t.Fatalf("decode full list: %v", err)
	}
	if want := 3*len(telemetry.Sectors()) + 1; len(all) != want {
		t.Fatalf("got %d assets, want %d", len(all), want)
	}
}

func TestAssetHandler_SectorAssets(t *testing.T) {
	stack := newAPIStack(t)
	handler := NewAssetHandler(stack.fleet, stack.logger, stack.validator)

	tests := []struct {
		name           string
		sector         string
		expectedStatus int
		expectedCount  int
	}{
		{
			name:           "healthcare fleet",
			sector:         "healthcare",
			expectedStatus: http.StatusOK,
			expectedCount:  3,
		},
		{
			name:           "unknown sector",
			sector:         "maritime",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/sectors/"+tt.sector+"/assets", nil)
			req = withURLParams(req, map[string]string{"sector": tt.sector})
			rr := httptest.NewRecorder()

			handler.SectorAssets(rr, req)

			wantStatus(t, rr, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			env := decodeEnvelope(t, rr)
			var assets []asset.Asset
			if err := json.Unmarshal(env.Data, &assets); err != nil {
				t.Fatalf("decode sector assets: %v", err)
			}
			if len(assets) != tt.expectedCount {
				t.Errorf("got %d assets, want %d", len(assets), tt.expectedCount)
			}
			for _, a := range assets {
				if a.Sector != telemetry.Sector(tt.sector) {
					t.Errorf("asset %s has sector %q, want %q", a.ID, a.Sector, tt.sector)
				}
			}
		})
	}
}

func TestAssetHandler_SectorMetrics(t *testing.T) {
	stack := newAPIStack(t)
	handler := NewAssetHandler(stack.fleet, stack.logger, stack.validator)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sectors/agriculture/metrics?samples=5", nil)
	req = withURLParams(req, map[string]string{"sector": "agriculture"})
	rr := httptest.NewRecorder()

	handler.SectorMetrics(rr, req)
	wantStatus(t, rr, http.StatusOK)

	env := decodeEnvelope(t, rr)
	var samples []telemetry.Sample
	if err := json.Unmarshal(env.Data, &samples); err != nil {
		t.Fatalf("decode samples: %v", err)
	}
	if len(samples) != 5 {
		t.Fatalf("got %d samples, want 5", len(samples))
	}
	for _, s := range samples {
		if s.Sector != telemetry.SectorAgriculture {
			t.Errorf("sample sector = %q, want agriculture", s.Sector)
		}
		if !strings.HasPrefix(s.AssetID, "AG-") {
			t.Errorf("asset id %q does not carry the sector prefix", s.AssetID)
		}
	}
}

func TestAssetHandler_IngestMetrics(t *testing.T) {
	stack := newAPIStack(t)
	stack.train(t, telemetry.SectorHealthcare)
	handler := NewAssetHandler(stack.fleet, stack.logger, stack.validator)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "anomalous push raises alert",
			body: dto.IngestMetricsRequest{Samples: []telemetry.Sample{
				extremeSample(telemetry.SectorHealthcare, "HEA-REG-90"),
			}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty batch",
			body:           dto.IngestMetricsRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   errors.ErrCodeValidation,
		},
		{
			name: "unknown sector in sample",
			body: dto.IngestMetricsRequest{Samples: []telemetry.Sample{
				extremeSample("maritime", "M-1"),
			}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   errors.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/assets/metrics", jsonBody(t, tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.IngestMetrics(rr, req)

			wantStatus(t, rr, tt.expectedStatus)
			if tt.expectedCode != "" {
				wantErrorCode(t, rr, tt.expectedCode)
			}
		})
	}
}

func TestAssetHandler_HistoryAfterIngest(t *testing.T) {
	stack := newAPIStack(t)
	stack.train(t, telemetry.SectorHealthcare)
	handler := NewAssetHandler(stack.fleet, stack.logger, stack.validator)

	body := dto.IngestMetricsRequest{Samples: []telemetry.Sample{
		extremeSample(telemetry.SectorHealthcare, "HEA-REG-91"),
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets/metrics", jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.IngestMetrics(rr, req)
	wantStatus(t, rr, http.StatusOK)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/assets/HEA-REG-91/history", nil)
	req = withURLParams(req, map[string]string{"id": "HEA-REG-91"})
	rr = httptest.NewRecorder()
	handler.History(rr, req)
	wantStatus(t, rr, http.StatusOK)

	env := decodeEnvelope(t, rr)
	var samples []telemetry.Sample
	if err := json.Unmarshal(env.Data, &samples); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/assets/ghost/history", nil)
	req = withURLParams(req, map[string]string{"id": "ghost"})
	rr = httptest.NewRecorder()
	handler.History(rr, req)
	wantStatus(t, rr, http.StatusNotFound)
}

func TestAssetHandler_Deregister(t *testing.T) {
	stack := newAPIStack(t)
	handler := NewAssetHandler(stack.fleet, stack.logger, stack.validator)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", jsonBody(t, dto.RegisterAssetRequest{
		AssetID:   "AGR-REG-03",
		AssetType: "irrigation_controller",
		Sector:    "agriculture",
	}))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	wantStatus(t, rr, http.StatusCreated)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/assets/AGR-REG-03", nil)
	req = withURLParams(req, map[string]string{"id": "AGR-REG-03"})
	rr = httptest.NewRecorder()
	handler.Deregister(rr, req)
	wantStatus(t, rr, http.StatusOK)

	// Deleting again reports the device gone.
	rr = httptest.NewRecorder()
	handler.Deregister(rr, req)
	wantStatus(t, rr, http.StatusNotFound)
	wantErrorCode(t, rr, errors.ErrCodeNotFound)
}
