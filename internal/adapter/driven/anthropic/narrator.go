// Package anthropic implements the Narrator port on the Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/domain/port/driven"
	"github.com/ericfisherdev/dailytracker/internal/retry"
	"github.com/ericfisherdev/dailytracker/internal/telemetry"
)

// ErrMalformedNarrative is returned when the model answer is not a JSON
// object with non-empty "summary" and "actions" fields.
var ErrMalformedNarrative = errors.New("malformed narrative")

// Compile-time interface satisfaction check.
var _ driven.Narrator = (*Narrator)(nil)

// Narrator asks a Claude model for a status summary and action proposals.
type Narrator struct {
	client    sdk.Client
	model     sdk.Model
	maxTokens int64
}

// NewNarrator creates a Narrator. The SDK's own retries are disabled: retries
// belong to the retry.Narrator decorator so every external call shares one policy.
// Extra options (such as option.WithBaseURL in tests) are appended.
func NewNarrator(apiKey, modelName string, maxTokens int64, opts ...option.RequestOption) *Narrator {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}

	aiMetricsOnce.Do(initAIMetrics)

	return &Narrator{
		client:    sdk.NewClient(append(base, opts...)...),
		model:     sdk.Model(modelName),
		maxTokens: maxTokens,
	}
}

// aiMetrics holds lazily-initialized OTel instruments for Anthropic API calls.
var aiMetrics struct {
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
	duration     metric.Float64Histogram
}

var aiMetricsOnce sync.Once

func initAIMetrics() {
	m := telemetry.Meter("github.com/ericfisherdev/dailytracker/ai")
	aiMetrics.inputTokens, _ = m.Int64Counter("dailytracker.ai.input_tokens",
		metric.WithDescription("Anthropic API input tokens consumed"),
		metric.WithUnit("{token}"),
	)
	aiMetrics.outputTokens, _ = m.Int64Counter("dailytracker.ai.output_tokens",
		metric.WithDescription("Anthropic API output tokens generated"),
		metric.WithUnit("{token}"),
	)
	aiMetrics.duration, _ = m.Float64Histogram("dailytracker.ai.request.duration",
		metric.WithDescription("Anthropic API request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
}

// Generate sends payload to the model and validates the answer.
func (n *Narrator) Generate(ctx context.Context, payload model.StatusPayload) (model.Narrative, error) {
	prompt, err := renderPrompt(payload)
	if err != nil {
		return model.Narrative{}, retry.Permanent(fmt.Errorf("rendering prompt: %w", err))
	}

	t0 := time.Now()
	message, err := n.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     n.model,
		MaxTokens: n.maxTokens,
		System:    []sdk.TextBlockParam{{Text: systemPrompt}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		if !isRetryable(err) {
			return model.Narrative{}, retry.Permanent(fmt.Errorf("anthropic request: %w", err))
		}
		return model.Narrative{}, fmt.Errorf("anthropic request: %w", err)
	}

	modelAttr := metric.WithAttributes(attribute.String("dailytracker.ai.model", string(n.model)))
	if aiMetrics.inputTokens != nil {
		aiMetrics.inputTokens.Add(ctx, message.Usage.InputTokens, modelAttr)
		aiMetrics.outputTokens.Add(ctx, message.Usage.OutputTokens, modelAttr)
		aiMetrics.duration.Record(ctx, float64(time.Since(t0).Milliseconds()), modelAttr)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	narrative, err := parseNarrative(text.String())
	if err != nil {
		slog.Warn("narrative rejected", "model", string(n.model), "stop_reason", string(message.StopReason), "error", err)
		return model.Narrative{}, err
	}

	slog.Info("narrative generated",
		"model", string(n.model),
		"input_tokens", message.Usage.InputTokens,
		"output_tokens", message.Usage.OutputTokens,
	)
	return narrative, nil
}

// narrativeJSON is the shape the model is asked to answer with. Actions may
// come back as a single markdown string or as a list of strings.
type narrativeJSON struct {
	Summary string          `json:"summary"`
	Actions json.RawMessage `json:"actions"`
}

// parseNarrative extracts and validates the JSON object in text. Code fences
// and prose around the object are tolerated.
func parseNarrative(text string) (model.Narrative, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return model.Narrative{}, fmt.Errorf("%w: no JSON object in answer", ErrMalformedNarrative)
	}

	var raw narrativeJSON
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return model.Narrative{}, fmt.Errorf("%w: %v", ErrMalformedNarrative, err)
	}

	summary := strings.TrimSpace(raw.Summary)
	if summary == "" {
		return model.Narrative{}, fmt.Errorf("%w: summary is missing", ErrMalformedNarrative)
	}

	actions, err := decodeActions(raw.Actions)
	if err != nil {
		return model.Narrative{}, err
	}

	return model.Narrative{Summary: summary, Actions: actions}, nil
}

func decodeActions(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("%w: actions are missing", ErrMalformedNarrative)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return "", fmt.Errorf("%w: actions are empty", ErrMalformedNarrative)
		}
		return s, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", fmt.Errorf("%w: actions must be a string or a list of strings", ErrMalformedNarrative)
	}

	var b strings.Builder
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: actions are empty", ErrMalformedNarrative)
	}
	return b.String(), nil
}

// isRetryable reports whether err is worth another attempt: timeouts,
// rate limiting, and server errors.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		statusCode := apiErr.StatusCode
		return statusCode == 429 || statusCode >= 500
	}

	return true
}
