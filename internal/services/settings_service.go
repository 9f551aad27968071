package services

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/errors"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/policy"
)

// PollControl adjusts a running poll loop.
type PollControl interface {
	Interval() time.Duration
	SetInterval(d time.Duration)
}

// TrainControl adjusts scheduled retraining.
type TrainControl interface {
	Samples() int
	SetSamples(n int)
}

// Settings are the operator-tunable values that take effect without a
// restart. Retrain samples apply on the next scheduled run.
type Settings struct {
	QuietPeriodSeconds     int  `json:"quiet_period_seconds"`
	AutoResponseEnabled    bool `json:"auto_response_enabled"`
	RequireApprovalP0      bool `json:"require_approval_p0"`
	RequireApprovalP1      bool `json:"require_approval_p1"`
	MonitorIntervalSeconds int  `json:"monitor_interval_seconds,omitempty"`
	RetrainSamples         int  `json:"retrain_samples,omitempty"`
}

// SettingsUpdate carries a partial settings change; nil fields keep
// their current value.
type SettingsUpdate struct {
	QuietPeriodSeconds     *int  `json:"quiet_period_seconds"`
	AutoResponseEnabled    *bool `json:"auto_response_enabled"`
	RequireApprovalP0      *bool `json:"require_approval_p0"`
	RequireApprovalP1      *bool `json:"require_approval_p1"`
	MonitorIntervalSeconds *int  `json:"monitor_interval_seconds"`
	RetrainSamples         *int  `json:"retrain_samples"`
}

// SettingsService reads and applies operating settings across the
// running services. Updates are validated up front and applied as a
// unit, so a rejected field leaves everything untouched.
type SettingsService struct {
	mu        sync.Mutex
	alerts    *AlertService
	pipeline  *PipelineService
	policy    *policy.Engine
	monitor   PollControl
	retrainer TrainControl
	events    OperatorEvents
	logger    *logger.Logger
}

// NewSettingsService wires the tunable services together. monitor and
// retrainer may be nil when those workers are disabled; policy may be
// nil when automated response is not configured.
func NewSettingsService(
	alerts *AlertService,
	pipeline *PipelineService,
	pol *policy.Engine,
	monitor PollControl,
	retrainer TrainControl,
	log *logger.Logger,
) *SettingsService {
	return &SettingsService{
		alerts:    alerts,
		pipeline:  pipeline,
		policy:    pol,
		monitor:   monitor,
		retrainer: retrainer,
		logger:    log.Component("settings"),
	}
}

// SetEventSink attaches the audit fan-out for applied changes. Attach
// before serving traffic; the field is read without the service lock.
func (s *SettingsService) SetEventSink(sink OperatorEvents) {
	s.events = sink
}

// Get returns the values currently in force.
func (s *SettingsService) Get(ctx context.Context) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Update applies a partial settings change and returns the resulting
// snapshot.
func (s *SettingsService) Update(ctx context.Context, u SettingsUpdate) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.QuietPeriodSeconds != nil && *u.QuietPeriodSeconds < 0 {
		return Settings{}, apperrors.ValidationError("quiet period must not be negative", nil)
	}
	if u.MonitorIntervalSeconds != nil {
		if s.monitor == nil {
			return Settings{}, apperrors.BadRequest("fleet monitor is not running")
		}
		if *u.MonitorIntervalSeconds < 1 {
			return Settings{}, apperrors.ValidationError("monitor interval must be at least 1 second", nil)
		}
	}
	if u.RetrainSamples != nil {
		if s.retrainer == nil {
			return Settings{}, apperrors.BadRequest("retraining scheduler is not running")
		}
		if *u.RetrainSamples < 1 {
			return Settings{}, apperrors.ValidationError("retrain samples must be positive", nil)
		}
	}
	if (u.RequireApprovalP0 != nil || u.RequireApprovalP1 != nil) && s.policy == nil {
		return Settings{}, apperrors.BadRequest("automated response policy is not configured")
	}

	changed := make(map[string]interface{})
	if u.QuietPeriodSeconds != nil {
		s.alerts.SetQuietPeriod(time.Duration(*u.QuietPeriodSeconds) * time.Second)
		changed["quiet_period_seconds"] = *u.QuietPeriodSeconds
	}
	if u.AutoResponseEnabled != nil {
		s.pipeline.SetAutoRespond(*u.AutoResponseEnabled)
		changed["auto_response_enabled"] = *u.AutoResponseEnabled
	}
	if u.RequireApprovalP0 != nil || u.RequireApprovalP1 != nil {
		p0, p1 := s.policy.ApprovalRequirements()
		if u.RequireApprovalP0 != nil {
			p0 = *u.RequireApprovalP0
			changed["require_approval_p0"] = p0
		}
		if u.RequireApprovalP1 != nil {
			p1 = *u.RequireApprovalP1
			changed["require_approval_p1"] = p1
		}
		s.policy.SetApprovalRequirements(p0, p1)
	}
	if u.MonitorIntervalSeconds != nil {
		s.monitor.SetInterval(time.Duration(*u.MonitorIntervalSeconds) * time.Second)
		changed["monitor_interval_seconds"] = *u.MonitorIntervalSeconds
	}
	if u.RetrainSamples != nil {
		s.retrainer.SetSamples(*u.RetrainSamples)
		changed["retrain_samples"] = *u.RetrainSamples
	}

	if len(changed) > 0 {
		s.logger.WithFields(changed).Info("Operating settings updated")
		if s.events != nil {
			s.events.NotifyOperators(ctx, "settings_changed", changed)
		}
	}
	return s.snapshotLocked(), nil
}

func (s *SettingsService) snapshotLocked() Settings {
	out := Settings{
		QuietPeriodSeconds:  int(s.alerts.QuietPeriod().Seconds()),
		AutoResponseEnabled: s.pipeline.AutoRespond(),
	}
	if s.policy != nil {
		out.RequireApprovalP0, out.RequireApprovalP1 = s.policy.ApprovalRequirements()
	}
	if s.monitor != nil {
		out.MonitorIntervalSeconds = int(s.monitor.Interval().Seconds())
	}
	if s.retrainer != nil {
		out.RetrainSamples = s.retrainer.Samples()
	}
	return out
}
