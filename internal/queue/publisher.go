// Package queue publishes pipeline events to a Kafka-compatible bus.
// Publishing is fire-and-forget: the bus being down degrades event
// fan-out, never the pipeline itself.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/metrics"
)

// Topics carrying pipeline events.
const (
	TopicAlerts        = "cyberops.alerts"
	TopicResponses     = "cyberops.responses"
	TopicMetrics       = "cyberops.metrics"
	TopicNotifications = "cyberops.notifications"
)

// Publisher writes pipeline events to the bus. A nil Publisher is a
// valid no-op, returned when the queue is disabled.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

// NewPublisher builds a Kafka publisher from config. Returns nil when
// the queue is disabled or no brokers are configured.
func NewPublisher(cfg config.QueueConfig, log *logger.Logger) *Publisher {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		return nil
	}
	qlog := log.Component("queue")
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           2 * time.Second,
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
	}
	w.Completion = func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, m := range msgs {
			metrics.RecordQueuePublish(m.Topic, "error")
		}
		qlog.ErrorWithErr(err, "Queue publish failed")
	}
	qlog.WithFields(map[string]interface{}{"brokers": cfg.Brokers}).Info("Queue publisher connected")
	return &Publisher{writer: w, logger: qlog}
}

// Enabled reports whether events are being published.
func (p *Publisher) Enabled() bool {
	return p != nil
}

// Brokers describes the connected brokers, for status reporting.
func (p *Publisher) Brokers() string {
	if p == nil {
		return ""
	}
	return p.writer.Addr.String()
}

// PublishAlert emits an alert lifecycle event keyed
// alert.<severity>.<sector> so consumers can subscribe by tier.
func (p *Publisher) PublishAlert(ctx context.Context, event string, a *alert.Alert) {
	if p == nil || a == nil {
		return
	}
	key := fmt.Sprintf("alert.%s.%s", a.Severity, a.Sector)
	p.publish(ctx, TopicAlerts, key, envelope{Event: event, Payload: a})
}

// PublishResponse emits a response action lifecycle event.
func (p *Publisher) PublishResponse(ctx context.Context, event string, act *response.Action) {
	if p == nil || act == nil {
		return
	}
	key := fmt.Sprintf("response.%s.%s", act.ActionType, act.Status)
	p.publish(ctx, TopicResponses, key, envelope{Event: event, Payload: act})
}

// PublishMetrics streams a telemetry batch, keyed by sector.
func (p *Publisher) PublishMetrics(ctx context.Context, sector telemetry.Sector, samples []telemetry.Sample) {
	if p == nil || len(samples) == 0 {
		return
	}
	key := fmt.Sprintf("metrics.%s", sector)
	p.publish(ctx, TopicMetrics, key, envelope{Event: "telemetry_batch", Payload: samples})
}

// PublishNotification emits free-form operator notifications.
func (p *Publisher) PublishNotification(ctx context.Context, event string, payload interface{}) {
	if p == nil {
		return
	}
	p.publish(ctx, TopicNotifications, event, envelope{Event: event, Payload: payload})
}

// Close flushes buffered messages and tears the producer down.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}

type envelope struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func (p *Publisher) publish(ctx context.Context, topic, key string, env envelope) {
	env.Timestamp = time.Now().UTC()
	value, err := json.Marshal(env)
	if err != nil {
		metrics.RecordQueuePublish(topic, "error")
		p.logger.ErrorWithErr(err, "Failed to encode queue event")
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		metrics.RecordQueuePublish(topic, "error")
		p.logger.ErrorWithErr(err, "Queue publish failed")
		return
	}
	metrics.RecordQueuePublish(topic, "ok")
}
