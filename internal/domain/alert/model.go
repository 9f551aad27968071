package alert

import (
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
)

// Alert is a deduplicated incident raised from anomalous verdicts.
// One asset holds at most one open (unresolved) alert at a time;
// repeat anomalies fold into it instead of creating siblings.
type Alert struct {
	ID              string             `json:"alert_id"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Severity        detection.Severity `json:"severity"`
	SeverityLabel   string             `json:"severity_name"`
	AssetID         string             `json:"asset_id"`
	AssetType       string             `json:"asset_type"`
	Sector          telemetry.Sector   `json:"sector"`
	Score           float64            `json:"anomaly_score"`
	DetectorVotes   map[string]int     `json:"detector_votes"`
	Description     string             `json:"description"`
	Status          string             `json:"status"`
	AcknowledgedBy  string             `json:"acknowledged_by,omitempty"`
	AcknowledgedAt  *time.Time         `json:"acknowledged_at,omitempty"`
	ResolvedBy      string             `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time         `json:"resolved_at,omitempty"`
	ResolutionNotes string             `json:"resolution_notes,omitempty"`
	ResponseActions []string           `json:"response_actions"`
}

// Alert status
const (
	StatusActive       = "active"
	StatusAcknowledged = "acknowledged"
	StatusResolved     = "resolved"
)

// Open reports whether the alert can still absorb new verdicts.
// Resolved alerts are terminal.
func (a *Alert) Open() bool {
	return a.Status != StatusResolved
}

// Clone returns a deep copy. The lifecycle manager hands clones to
// callers so reads never race with in-place updates under its lock.
func (a *Alert) Clone() *Alert {
	out := *a
	if a.DetectorVotes != nil {
		out.DetectorVotes = make(map[string]int, len(a.DetectorVotes))
		for k, v := range a.DetectorVotes {
			out.DetectorVotes[k] = v
		}
	}
	if a.ResponseActions != nil {
		out.ResponseActions = append([]string(nil), a.ResponseActions...)
	}
	if a.AcknowledgedAt != nil {
		t := *a.AcknowledgedAt
		out.AcknowledgedAt = &t
	}
	if a.ResolvedAt != nil {
		t := *a.ResolvedAt
		out.ResolvedAt = &t
	}
	return &out
}

// Filter contains alert listing options
type Filter struct {
	Severity detection.Severity
	Sector   telemetry.Sector
	Limit    int
}

// Stats is the alert lifecycle rollup.
type Stats struct {
	Total          int            `json:"total_alerts"`
	Active         int            `json:"active_alerts"`
	Resolved       int            `json:"resolved_alerts"`
	SeverityCounts map[string]int `json:"severity_counts"`
	SectorCounts   map[string]int `json:"sector_counts"`
	MTTASeconds    float64        `json:"mtta_seconds"`
	MTTRSeconds    float64        `json:"mttr_seconds"`
}
