package integrations

import (
	"context"
	"fmt"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
)

// Summarizer produces short incident summaries for high-severity
// alerts.
type Summarizer struct {
	client *openai.Client
	model  string
}

// NewSummarizer returns nil when no API key is configured; a nil
// summarizer answers every call with an empty summary.
func NewSummarizer(cfg config.IntegrationsConfig) *Summarizer {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}
	model := cfg.OpenAIModel
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Summarizer{
		client: openai.NewClient(cfg.OpenAIAPIKey),
		model:  model,
	}
}

// SummarizeAlert asks the model for a two-sentence incident summary an
// on-call responder can act on. Returns "" without error when not
// configured so callers fall back to the template description.
func (s *Summarizer) SummarizeAlert(ctx context.Context, a *alert.Alert) (string, error) {
	if s == nil {
		return "", nil
	}

	var votes []string
	for name, n := range a.DetectorVotes {
		if n > 0 {
			votes = append(votes, name)
		}
	}
	sort.Strings(votes)

	prompt := fmt.Sprintf(
		"Summarize this industrial IoT security incident in two sentences for an on-call responder. "+
			"Severity %s, device %s (%s) in the %s sector, ensemble anomaly score %.3f, flagged by: %s. "+
			"Description: %s",
		a.Severity, a.AssetID, a.AssetType, a.Sector, a.Score,
		strings.Join(votes, ", "), a.Description,
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens: 150,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
