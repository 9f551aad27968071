package services

import (
	"context"
	"sync"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/cache"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/detection"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/integrations"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/queue"
)

// Broadcaster pushes events to connected live dashboards.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// NotificationService fans alert, response and device events out to
// Slack, the event bus, the read-model cache and websocket clients. Alert sends
// run on their own goroutine with their own timeout; no failure ever
// reaches the detection path.
type NotificationService struct {
	slack      *integrations.SlackClient
	summarizer *integrations.Summarizer
	publisher  *queue.Publisher
	cache      *cache.Valkey
	hub        Broadcaster
	logger     *logger.Logger
	timeout    time.Duration
	wg         sync.WaitGroup
}

var (
	_ Notifier       = (*NotificationService)(nil)
	_ ResponseEvents = (*NotificationService)(nil)
	_ FleetEvents    = (*NotificationService)(nil)
	_ OperatorEvents = (*NotificationService)(nil)
)

// NewNotificationService wires the outbound channels. Any of slack,
// summarizer, publisher, cache and hub may be nil; missing channels
// are skipped.
func NewNotificationService(
	slack *integrations.SlackClient,
	summarizer *integrations.Summarizer,
	publisher *queue.Publisher,
	ca *cache.Valkey,
	hub Broadcaster,
	log *logger.Logger,
) *NotificationService {
	return &NotificationService{
		slack:      slack,
		summarizer: summarizer,
		publisher:  publisher,
		cache:      ca,
		hub:        hub,
		logger:     log.Component("notifications"),
		timeout:    10 * time.Second,
	}
}

// NotifyAlert fans one new alert out to every configured channel and
// returns immediately.
func (s *NotificationService) NotifyAlert(a *alert.Alert) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.deliver(ctx, a)
	}()
}

func (s *NotificationService) deliver(ctx context.Context, a *alert.Alert) {
	if s.hub != nil {
		s.hub.Broadcast("alert_created", a)
	}
	s.publisher.PublishAlert(ctx, "alert_created", a)
	if err := s.cache.StoreAlert(ctx, a); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"alert_id": a.ID,
		}).ErrorWithErr(err, "Failed to cache alert snapshot")
	}

	summary := s.summarize(ctx, a)
	if err := s.slack.SendAlert(ctx, a, summary); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"alert_id": a.ID,
			"severity": string(a.Severity),
		}).ErrorWithErr(err, "Failed to send Slack notification")
	}
}

// NotifyAlertUpdate fans an alert lifecycle change (acknowledge,
// resolve, linked responses) out to the event bus, dashboards and the
// read-model cache, and returns immediately. Resolved alerts are
// evicted from the cache rather than refreshed. No Slack message is
// sent; operators are only paged for new alerts.
func (s *NotificationService) NotifyAlertUpdate(a *alert.Alert) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if s.hub != nil {
			s.hub.Broadcast("alert_updated", a)
		}
		s.publisher.PublishAlert(ctx, "alert_updated", a)

		var err error
		if a.Status == alert.StatusResolved {
			err = s.cache.DropAlert(ctx, a.ID)
		} else {
			err = s.cache.StoreAlert(ctx, a)
		}
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"alert_id": a.ID,
			}).ErrorWithErr(err, "Failed to refresh cached alert snapshot")
		}
	}()
}

// summarize asks for an AI incident summary on critical and high
// alerts; lower tiers keep the template description.
func (s *NotificationService) summarize(ctx context.Context, a *alert.Alert) string {
	if s.summarizer == nil {
		return ""
	}
	if a.Severity != detection.SeverityCritical && a.Severity != detection.SeverityHigh {
		return ""
	}
	summary, err := s.summarizer.SummarizeAlert(ctx, a)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"alert_id": a.ID,
		}).ErrorWithErr(err, "Incident summary failed, falling back to template description")
		return ""
	}
	return summary
}

// PublishResponse forwards a response lifecycle event to the event bus
// and live dashboards and refreshes the cached action snapshot.
func (s *NotificationService) PublishResponse(ctx context.Context, event string, act *response.Action) {
	if s.hub != nil {
		s.hub.Broadcast(event, act)
	}
	s.publisher.PublishResponse(ctx, event, act)
	if err := s.cache.StoreAction(ctx, act); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"response_id": act.ID,
		}).ErrorWithErr(err, "Failed to cache response snapshot")
	}
}

// PublishAssetState forwards a registry change to live dashboards and
// refreshes the cached device snapshot.
func (s *NotificationService) PublishAssetState(ctx context.Context, a *asset.Asset) {
	if s.hub != nil {
		s.hub.Broadcast("device_updated", a)
	}
	if err := s.cache.StoreAssetState(ctx, a); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"asset_id": a.ID,
		}).ErrorWithErr(err, "Failed to cache device snapshot")
	}
}

// PublishTelemetry streams an accepted telemetry batch to the event
// bus for downstream consumers.
func (s *NotificationService) PublishTelemetry(ctx context.Context, sector telemetry.Sector, samples []telemetry.Sample) {
	s.publisher.PublishMetrics(ctx, sector, samples)
}

// NotifyOperators pushes an operational event to the event bus and
// live dashboards.
func (s *NotificationService) NotifyOperators(ctx context.Context, event string, payload interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(event, payload)
	}
	s.publisher.PublishNotification(ctx, event, payload)
}

// Close waits for in-flight alert sends to finish.
func (s *NotificationService) Close() {
	s.wg.Wait()
}
