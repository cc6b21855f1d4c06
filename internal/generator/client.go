// Package generator talks to the external handwriting-generation service,
// which turns text plus a style into an SVG document.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// EmptyTextMessage is the status shown when a request has no text.
const EmptyTextMessage = "Please enter some text"

// ErrEmptyText is returned before any network call when the text is blank.
var ErrEmptyText = errors.New("generator: empty text")

// Option ranges accepted by the service.
const (
	MinStyle       = 0
	MaxStyle       = 12
	DefaultStyle   = 9
	MinBias        = 0.1
	MaxBias        = 1.0
	DefaultBias    = 0.75
	MinLineSpacing = 0.5
	MaxLineSpacing = 2.0
	MinFontScale   = 0.5
	MaxFontScale   = 2.0
)

// Default client settings.
const (
	defaultTimeout     = 60 * time.Second
	defaultRate        = 1.0
	defaultBurst       = 2
	defaultMaxFailures = 5
	defaultOpenTimeout = 30 * time.Second
	defaultInterval    = 60 * time.Second
	maxResponseBytes   = 16 << 20
)

// Request is the JSON body of POST /generate.
type Request struct {
	Text        string   `json:"text"`
	Style       int      `json:"style"`
	Bias        float64  `json:"bias"`
	LineSpacing *float64 `json:"line_spacing,omitempty"`
	TextAlign   string   `json:"text_align,omitempty"`
	FontSize    *float64 `json:"font_size,omitempty"`
}

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// ValidationError reports an option outside its accepted range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks r without touching the network.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if r.Style < MinStyle || r.Style > MaxStyle {
		return &ValidationError{Field: "style", Reason: fmt.Sprintf("must be between %d and %d", MinStyle, MaxStyle)}
	}
	if r.Bias < MinBias || r.Bias > MaxBias {
		return &ValidationError{Field: "bias", Reason: fmt.Sprintf("must be between %.1f and %.1f", MinBias, MaxBias)}
	}
	if r.LineSpacing != nil && (*r.LineSpacing < MinLineSpacing || *r.LineSpacing > MaxLineSpacing) {
		return &ValidationError{Field: "line_spacing", Reason: fmt.Sprintf("must be between %.1f and %.1f", MinLineSpacing, MaxLineSpacing)}
	}
	if r.FontSize != nil && (*r.FontSize < MinFontScale || *r.FontSize > MaxFontScale) {
		return &ValidationError{Field: "font_size", Reason: fmt.Sprintf("must be between %.1f and %.1f", MinFontScale, MaxFontScale)}
	}
	switch r.TextAlign {
	case "", "left", "center", "right":
	default:
		return &ValidationError{Field: "text_align", Reason: "must be left, center or right"}
	}
	return nil
}

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	Endpoint    string
	Timeout     time.Duration
	Rate        float64 // requests per second
	Burst       int
	MaxFailures uint32
	OpenTimeout time.Duration
	Interval    time.Duration
}

// Client posts generation requests. Calls are rate limited and go through a
// circuit breaker that trips on transport errors and 5xx answers.
type Client struct {
	mu       sync.RWMutex
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]byte]
	logger   *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	r := cfg.Rate
	if r <= 0 {
		r = defaultRate
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultMaxFailures
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout == 0 {
		openTimeout = defaultOpenTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultInterval
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "generator",
		MaxRequests: 1,
		Interval:    interval,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.Code < 500
			}
			return err == nil
		},
	})

	return &Client{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(r), burst),
		breaker:  cb,
		logger:   logger,
	}
}

// Endpoint returns the service base URL, or "" when none is set.
func (c *Client) Endpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpoint
}

// SetEndpoint replaces the base URL once discovery finds a service. It is
// safe to call while requests are in flight.
func (c *Client) SetEndpoint(endpoint string) {
	c.mu.Lock()
	c.endpoint = strings.TrimSuffix(endpoint, "/")
	c.mu.Unlock()
}

// State reports the breaker state for display.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Generate validates req, posts it and returns the SVG document text.
func (c *Client) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	endpoint := c.Endpoint()
	if endpoint == "" {
		return nil, errors.New("generator: no endpoint configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	svg, err := c.breaker.Execute(func() ([]byte, error) {
		return c.post(ctx, endpoint, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("generation service unavailable: %w", err)
		}
		return nil, err
	}
	return svg, nil
}

func (c *Client) post(ctx context.Context, endpoint string, req Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Error("generation request failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("generation service error", "status", resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	svg, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Info("handwriting generated",
		"chars", len(req.Text),
		"bytes", len(svg),
		"took", time.Since(start),
	)
	return svg, nil
}
