// Package llm calls the Gemini generateContent REST endpoint with a
// per-attempt timeout, one bounded retry and a circuit breaker.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/pkg/metrics"
)

var (
	// ErrNotConfigured is returned when no API key is available
	ErrNotConfigured = errors.New("language model credential is not configured")
	// ErrTimeout is returned when an attempt exceeds the configured timeout
	ErrTimeout = errors.New("language model request timed out")
	// ErrUnavailable is returned for transport, status and breaker failures
	ErrUnavailable = errors.New("language model unavailable")
	// ErrMalformedResponse is returned when the response cannot be used
	ErrMalformedResponse = errors.New("language model returned a malformed response")
)

const (
	defaultModel   = "gemini-1.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	maxErrorBody   = 512
)

// errBreakerOpen marks attempts rejected by the circuit breaker
var errBreakerOpen = errors.New("circuit breaker open")

var fencePattern = regexp.MustCompile("(?i)```(?:json)?\\n?")

// Config holds client configuration
type Config struct {
	APIKey          string
	Model           string
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      int
	RetryWait       time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// Client implements ports.TextGenerator against Gemini
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Statically assert that *Client implements the TextGenerator interface.
var _ ports.TextGenerator = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// NewClient creates a Gemini client. m may be nil.
func NewClient(cfg Config, m *metrics.Metrics, logger *slog.Logger, opts ...Option) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		metrics:    m,
		logger:     logger.With(slog.String("component", "llm"), slog.String("model", cfg.Model)),
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			c.metrics.SetCircuitBreakerState(name, int(to))
		},
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// GenerateText returns the model output for prompt
func (c *Client) GenerateText(ctx context.Context, operation, prompt string) (string, error) {
	start := time.Now()
	text, err := c.generate(ctx, operation, prompt)
	c.metrics.RecordLLMRequest(operation, outcome(err), time.Since(start))
	return text, err
}

// GenerateJSON strips Markdown fences from the output and decodes it into dest
func (c *Client) GenerateJSON(ctx context.Context, operation, prompt string, dest interface{}) error {
	start := time.Now()
	err := c.generateJSON(ctx, operation, prompt, dest)
	c.metrics.RecordLLMRequest(operation, outcome(err), time.Since(start))
	return err
}

func (c *Client) generateJSON(ctx context.Context, operation, prompt string, dest interface{}) error {
	text, err := c.generate(ctx, operation, prompt)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(StripCodeFences(text)), dest); err != nil {
		c.logger.WarnContext(ctx, "model output is not valid JSON",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) generate(ctx context.Context, operation, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	var (
		text    string
		attempt int
	)
	op := func() error {
		attempt++
		out, err := c.breaker.Execute(func() (interface{}, error) {
			return c.call(ctx, prompt)
		})
		if err != nil {
			err = classify(ctx, err)
			c.logger.WarnContext(ctx, "language model attempt failed",
				slog.String("operation", operation),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		text = out.(string)
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.cfg.RetryWait), uint64(c.cfg.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}

	c.logger.DebugContext(ctx, "language model call succeeded",
		slog.String("operation", operation),
		slog.Int("attempts", attempt))
	return text, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// statusError carries a non-200 response
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(c.cfg.Model))
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if attemptCtx.Err() != nil && ctx.Err() == nil {
			return "", ErrTimeout
		}
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if attemptCtx.Err() != nil && ctx.Err() == nil {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(data)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return "", &statusError{code: resp.StatusCode, body: strings.TrimSpace(msg)}
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", ErrMalformedResponse, parsed.PromptFeedback.BlockReason)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: empty text", ErrMalformedResponse)
	}
	return sb.String(), nil
}

// classify maps an attempt error onto the package sentinels
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrMalformedResponse):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrUnavailable, errBreakerOpen)
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func retryable(err error) bool {
	if errors.Is(err, ErrTimeout) {
		return true
	}
	if !errors.Is(err, ErrUnavailable) {
		return false
	}
	if errors.Is(err, errBreakerOpen) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "unavailable"
	}
}

// StripCodeFences removes Markdown code fences (```json and ```) from s
func StripCodeFences(s string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(s, ""))
}
