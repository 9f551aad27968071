// Package integrations holds outbound clients for third-party
// services. All clients treat a nil receiver as "not configured" so
// callers can wire them unconditionally.
package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
)

// severityColors maps alert severity to the attachment color bar.
var severityColors = map[string]string{
	"P0": "#ff0000",
	"P1": "#ff6600",
	"P2": "#ffcc00",
	"P3": "#3399ff",
	"P4": "#999999",
}

// SlackClient posts alert notifications to a Slack incoming webhook.
type SlackClient struct {
	webhookURL string
	channel    string
	httpClient *http.Client
	now        func() time.Time
}

// NewSlackClient returns nil when no webhook URL is configured; a nil
// client drops every send.
func NewSlackClient(cfg config.IntegrationsConfig) *SlackClient {
	if cfg.SlackWebhookURL == "" {
		return nil
	}
	return &SlackClient{
		webhookURL: cfg.SlackWebhookURL,
		channel:    cfg.SlackChannel,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		now:        time.Now,
	}
}

// Configured reports whether sends will actually reach Slack.
func (c *SlackClient) Configured() bool { return c != nil }

type slackPayload struct {
	Channel     string            `json:"channel,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer"`
	TS     int64        `json:"ts"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// SendAlert posts one alert as a color-coded attachment. summary, when
// non-empty, is appended below the alert description.
func (c *SlackClient) SendAlert(ctx context.Context, a *alert.Alert, summary string) error {
	if c == nil {
		return nil
	}

	color, ok := severityColors[string(a.Severity)]
	if !ok {
		color = severityColors["P4"]
	}

	text := a.Description
	if summary != "" {
		text += "\n\n" + summary
	}

	payload := slackPayload{
		Channel: c.channel,
		Attachments: []slackAttachment{{
			Color: color,
			Title: fmt.Sprintf("[%s] Security Alert", a.Severity),
			Text:  text,
			Fields: []slackField{
				{Title: "Device ID", Value: a.AssetID, Short: true},
				{Title: "Device Type", Value: a.AssetType, Short: true},
				{Title: "Sector", Value: string(a.Sector), Short: true},
				{Title: "Anomaly Score", Value: fmt.Sprintf("%.3f", a.Score), Short: true},
			},
			Footer: "Smooth Operator",
			TS:     c.now().Unix(),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}
