package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/metrics"
)

// AlertService implements alert.Service. The in-memory indexes are the
// source of truth; the repository is a durable mirror written after the
// lock is released, and the notifier fans new alerts out without ever
// blocking the detection path.
type AlertService struct {
	mu      sync.Mutex
	alerts  map[string]*alert.Alert
	byAsset map[string]string // asset ID -> open alert ID
	order   []string          // creation order, oldest first

	quiet          time.Duration
	allowDowngrade bool

	repo     alert.Repository
	notifier Notifier
	logger   *logger.Logger
	now      func() time.Time
}

var _ alert.Service = (*AlertService)(nil)

// NewAlertService creates a new alert lifecycle service. repo and
// notifier may be nil, disabling the mirror and fan-out respectively.
func NewAlertService(cfg config.AlertingConfig, repo alert.Repository, notifier Notifier, log *logger.Logger) *AlertService {
	return &AlertService{
		alerts:         make(map[string]*alert.Alert),
		byAsset:        make(map[string]string),
		quiet:          cfg.QuietPeriod,
		allowDowngrade: cfg.AllowSeverityDowngrade,
		repo:           repo,
		notifier:       notifier,
		logger:         log.Component("alerts"),
		now:            time.Now,
	}
}

// CreateFromVerdict raises a new alert for an anomalous verdict, or
// folds the verdict into the asset's open alert if one exists. Folding
// updates score, votes and description; severity only ever rises unless
// downgrades are enabled. An acknowledged alert that sees a recurrence
// after the quiet period re-activates.
func (s *AlertService) CreateFromVerdict(ctx context.Context, v detection.Verdict) (*alert.Alert, bool) {
	if !v.IsAnomaly {
		return nil, false
	}

	s.mu.Lock()
	now := s.now()

	if id, ok := s.byAsset[v.AssetID]; ok {
		if a, ok := s.alerts[id]; ok && a.Open() {
			a.Score = v.Score
			a.DetectorVotes = copyVotes(v.DetectorVotes)
			a.Description = describeVerdict(v)
			if v.Severity != a.Severity && (v.Severity.MoreSevereThan(a.Severity) || s.allowDowngrade) {
				a.Severity = v.Severity
				a.SeverityLabel = v.Severity.Label()
			}
			reactivated := false
			if a.Status == alert.StatusAcknowledged && now.Sub(a.UpdatedAt) > s.quiet {
				a.Status = alert.StatusActive
				a.AcknowledgedBy = ""
				a.AcknowledgedAt = nil
				reactivated = true
			}
			a.UpdatedAt = now
			s.updateActiveGaugeLocked()
			out := a.Clone()
			s.mu.Unlock()

			metrics.RecordAlertDeduplicated(string(out.Sector))
			if reactivated {
				metrics.RecordAlertReactivated()
				s.logger.WithFields(map[string]interface{}{
					"alert_id": out.ID,
					"asset_id": out.AssetID,
				}).Info("Acknowledged alert re-activated by recurring anomaly")
				if s.notifier != nil {
					s.notifier.NotifyAlertUpdate(out.Clone())
				}
			}
			s.mirror(ctx, out)
			return out, false
		}
	}

	a := &alert.Alert{
		ID:              uuid.NewString(),
		CreatedAt:       now,
		UpdatedAt:       now,
		Severity:        v.Severity,
		SeverityLabel:   v.Severity.Label(),
		AssetID:         v.AssetID,
		AssetType:       v.AssetType,
		Sector:          v.Sector,
		Score:           v.Score,
		DetectorVotes:   copyVotes(v.DetectorVotes),
		Description:     describeVerdict(v),
		Status:          alert.StatusActive,
		ResponseActions: []string{},
	}
	s.alerts[a.ID] = a
	s.byAsset[a.AssetID] = a.ID
	s.order = append(s.order, a.ID)
	s.updateActiveGaugeLocked()
	out := a.Clone()
	s.mu.Unlock()

	metrics.RecordAlertCreated(string(out.Sector), string(out.Severity))
	s.logger.WithFields(map[string]interface{}{
		"alert_id": out.ID,
		"asset_id": out.AssetID,
		"sector":   string(out.Sector),
		"severity": string(out.Severity),
	}).Info("Alert created")
	s.mirror(ctx, out)
	if s.notifier != nil {
		s.notifier.NotifyAlert(out.Clone())
	}
	return out, true
}

// GetByID retrieves an alert by ID
func (s *AlertService) GetByID(ctx context.Context, id string) (*alert.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return nil, apperrors.NotFound("alert")
	}
	return a.Clone(), nil
}

// Acknowledge marks an alert as seen. Acknowledging an already
// acknowledged or resolved alert is a no-op, not an error.
func (s *AlertService) Acknowledge(ctx context.Context, id, user string) (*alert.Alert, error) {
	s.mu.Lock()
	a, ok := s.alerts[id]
	if !ok {
		s.mu.Unlock()
		return nil, apperrors.NotFound("alert")
	}
	if a.Status != alert.StatusActive {
		out := a.Clone()
		s.mu.Unlock()
		return out, nil
	}

	now := s.now()
	a.Status = alert.StatusAcknowledged
	a.AcknowledgedBy = user
	a.AcknowledgedAt = &now
	a.UpdatedAt = now
	s.updateActiveGaugeLocked()
	out := a.Clone()
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"alert_id": out.ID,
		"user":     user,
	}).Info("Alert acknowledged")
	s.mirror(ctx, out)
	if s.notifier != nil {
		s.notifier.NotifyAlertUpdate(out.Clone())
	}
	return out, nil
}

// Resolve closes an alert permanently. Resolving twice is a no-op; the
// asset becomes eligible for a fresh alert immediately.
func (s *AlertService) Resolve(ctx context.Context, id, user, notes string) (*alert.Alert, error) {
	s.mu.Lock()
	a, ok := s.alerts[id]
	if !ok {
		s.mu.Unlock()
		return nil, apperrors.NotFound("alert")
	}
	if a.Status == alert.StatusResolved {
		out := a.Clone()
		s.mu.Unlock()
		return out, nil
	}

	now := s.now()
	a.Status = alert.StatusResolved
	a.ResolvedBy = user
	a.ResolvedAt = &now
	a.ResolutionNotes = notes
	a.UpdatedAt = now
	if s.byAsset[a.AssetID] == a.ID {
		delete(s.byAsset, a.AssetID)
	}
	s.updateActiveGaugeLocked()
	out := a.Clone()
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"alert_id": out.ID,
		"user":     user,
	}).Info("Alert resolved")
	s.mirror(ctx, out)
	if s.notifier != nil {
		s.notifier.NotifyAlertUpdate(out.Clone())
	}
	return out, nil
}

// AttachResponse links an executed response action to an alert.
func (s *AlertService) AttachResponse(ctx context.Context, alertID, actionID string) error {
	s.mu.Lock()
	a, ok := s.alerts[alertID]
	if !ok {
		s.mu.Unlock()
		return apperrors.NotFound("alert")
	}
	a.ResponseActions = append(a.ResponseActions, actionID)
	out := a.Clone()
	s.mu.Unlock()

	s.mirror(ctx, out)
	if s.notifier != nil {
		s.notifier.NotifyAlertUpdate(out.Clone())
	}
	return nil
}

// ListActive lists active alerts newest first. Acknowledged and
// resolved alerts are excluded; operators pull those separately.
func (s *AlertService) ListActive(ctx context.Context, filter alert.Filter) []*alert.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*alert.Alert, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		a := s.alerts[s.order[i]]
		if a.Status != alert.StatusActive {
			continue
		}
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		if filter.Sector != "" && a.Sector != filter.Sector {
			continue
		}
		out = append(out, a.Clone())
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}

// ListAcknowledged lists acknowledged alerts, most recently
// acknowledged first.
func (s *AlertService) ListAcknowledged(ctx context.Context, limit int) []*alert.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*alert.Alert, 0)
	for _, id := range s.order {
		a := s.alerts[id]
		if a.Status == alert.StatusAcknowledged {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AcknowledgedAt.After(*out[j].AcknowledgedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Statistics returns the lifecycle rollup. Severity and sector maps
// always carry every key so dashboards never see missing series.
func (s *AlertService) Statistics(ctx context.Context) alert.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := alert.Stats{
		Total:          len(s.alerts),
		SeverityCounts: make(map[string]int, 5),
		SectorCounts:   make(map[string]int, 3),
	}
	for _, sev := range detection.Severities() {
		stats.SeverityCounts[string(sev)] = 0
	}
	for _, sector := range telemetry.Sectors() {
		stats.SectorCounts[string(sector)] = 0
	}

	var ackTotal, resolveTotal float64
	var ackN, resolveN int
	for _, a := range s.alerts {
		stats.SeverityCounts[string(a.Severity)]++
		stats.SectorCounts[string(a.Sector)]++
		switch a.Status {
		case alert.StatusActive:
			stats.Active++
		case alert.StatusResolved:
			stats.Resolved++
		}
		if a.AcknowledgedAt != nil {
			ackTotal += a.AcknowledgedAt.Sub(a.CreatedAt).Seconds()
			ackN++
		}
		if a.ResolvedAt != nil {
			resolveTotal += a.ResolvedAt.Sub(a.CreatedAt).Seconds()
			resolveN++
		}
	}
	if ackN > 0 {
		stats.MTTASeconds = ackTotal / float64(ackN)
	}
	if resolveN > 0 {
		stats.MTTRSeconds = resolveTotal / float64(resolveN)
	}
	return stats
}

// QuietPeriod returns the recurrence window currently in force.
func (s *AlertService) QuietPeriod() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiet
}

// SetQuietPeriod changes the recurrence window for subsequent verdicts.
func (s *AlertService) SetQuietPeriod(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiet = d
}

// mirror writes an alert snapshot to the durable trail. Failures are
// logged and swallowed; the in-memory index stays authoritative.
func (s *AlertService) mirror(ctx context.Context, a *alert.Alert) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, a); err != nil {
		s.logger.ErrorWithErr(err, "Failed to mirror alert")
	}
}

func (s *AlertService) updateActiveGaugeLocked() {
	counts := make(map[detection.Severity]int, 5)
	for _, a := range s.alerts {
		if a.Status == alert.StatusActive {
			counts[a.Severity]++
		}
	}
	for _, sev := range detection.Severities() {
		metrics.SetActiveAlerts(string(sev), float64(counts[sev]))
	}
}

func copyVotes(votes map[string]int) map[string]int {
	out := make(map[string]int, len(votes))
	for k, v := range votes {
		out[k] = v
	}
	return out
}

func describeVerdict(v detection.Verdict) string {
	voters := make([]string, 0, len(v.DetectorVotes))
	for name, vote := range v.DetectorVotes {
		if vote == 1 {
			voters = append(voters, name)
		}
	}
	sort.Strings(voters)
	return fmt.Sprintf("Anomaly detected on %s device %s (%s). Anomaly score: %.2f. Detected by: %s",
		v.Sector, v.AssetID, v.AssetType, v.Score, strings.Join(voters, ", "))
}
