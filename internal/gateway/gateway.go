// Package gateway funnels all remote inference calls through one rate-limited,
// retrying chokepoint.
package gateway

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/config"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/gemini"
)

// rateLimitJitterMax bounds the extra random delay added before retrying a
// call the remote side rate-limited
const rateLimitJitterMax = 500 * time.Millisecond

// StreamReceiver is a lazy, finite, non-restartable sequence of text
// fragments. Recv returns io.EOF after the final fragment.
type StreamReceiver interface {
	Recv() (string, error)
	Close() error
}

// InferenceClient is the remote text-inference surface the gateway wraps
type InferenceClient interface {
	Generate(ctx context.Context, req gemini.GenerateRequest) (string, error)
	GenerateStream(ctx context.Context, req gemini.GenerateRequest) (StreamReceiver, error)
}

// Gateway throttles and retries calls to the inference client. All remote
// calls in the process flow through one Gateway so its rate-limit window
// covers them collectively.
type Gateway struct {
	client  InferenceClient
	limiter *windowLimiter
	retry   config.RetryConfig
	logger  *slog.Logger
}

// New creates a Gateway around an inference client
func New(client InferenceClient, rl config.RateLimitConfig, retry config.RetryConfig, logger *slog.Logger) *Gateway {
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 3
	}
	if retry.InitialDelay <= 0 {
		retry.InitialDelay = time.Second
	}
	if retry.MaxDelay <= 0 {
		retry.MaxDelay = 30 * time.Second
	}
	return &Gateway{
		client:  client,
		limiter: newWindowLimiter(rl.Requests, rl.Window),
		retry:   retry,
		logger:  logger,
	}
}

// NewForGemini wraps a concrete Gemini client
func NewForGemini(client *gemini.Client, rl config.RateLimitConfig, retry config.RetryConfig, logger *slog.Logger) *Gateway {
	return New(geminiAdapter{client}, rl, retry, logger)
}

// Generate performs a single-shot call with rate limiting and retry.
// Transient failures are retried with exponential backoff; when retries are
// exhausted the last error is logged and the empty string is returned with a
// nil error: absence, not failure. Permanent (client-side) errors propagate
// immediately without retry.
func (g *Gateway) Generate(ctx context.Context, req gemini.GenerateRequest) (string, error) {
	var lastErr error
	delay := g.retry.InitialDelay

	for attempt := 0; attempt < g.retry.MaxAttempts; attempt++ {
		if err := g.limiter.acquire(ctx); err != nil {
			return "", err
		}

		start := time.Now()
		text, err := g.client.Generate(ctx, req)
		if err == nil {
			return text, nil
		}

		if !gemini.IsRetryable(err) {
			return "", err
		}

		lastErr = err
		g.logger.Warn("inference call failed",
			"attempt", attempt+1,
			"max_attempts", g.retry.MaxAttempts,
			"elapsed", time.Since(start),
			"error", err)

		if attempt < g.retry.MaxAttempts-1 {
			if err := sleepCtx(ctx, g.backoff(delay, err)); err != nil {
				return "", err
			}
			delay = g.nextDelay(delay)
		}
	}

	g.logger.Error("inference call exhausted retries",
		"attempts", g.retry.MaxAttempts,
		"error", lastErr)
	return "", nil
}

// GenerateStream establishes a streaming call under the same rate-limit and
// retry policy. Exhausting retries on a transient failure returns a stream
// that yields nothing; permanent errors propagate.
func (g *Gateway) GenerateStream(ctx context.Context, req gemini.GenerateRequest) (StreamReceiver, error) {
	var lastErr error
	delay := g.retry.InitialDelay

	for attempt := 0; attempt < g.retry.MaxAttempts; attempt++ {
		if err := g.limiter.acquire(ctx); err != nil {
			return nil, err
		}

		stream, err := g.client.GenerateStream(ctx, req)
		if err == nil {
			return stream, nil
		}

		if !gemini.IsRetryable(err) {
			return nil, err
		}

		lastErr = err
		g.logger.Warn("streaming inference call failed",
			"attempt", attempt+1,
			"max_attempts", g.retry.MaxAttempts,
			"error", err)

		if attempt < g.retry.MaxAttempts-1 {
			if err := sleepCtx(ctx, g.backoff(delay, err)); err != nil {
				return nil, err
			}
			delay = g.nextDelay(delay)
		}
	}

	g.logger.Error("streaming inference call exhausted retries",
		"attempts", g.retry.MaxAttempts,
		"error", lastErr)
	return emptyStream{}, nil
}

// backoff returns the delay before the next attempt, adding jitter when the
// remote side signaled rate limiting
func (g *Gateway) backoff(delay time.Duration, err error) time.Duration {
	if gemini.IsRateLimited(err) {
		delay += time.Duration(rand.Int63n(int64(rateLimitJitterMax)))
	}
	return delay
}

func (g *Gateway) nextDelay(delay time.Duration) time.Duration {
	delay *= 2
	if delay > g.retry.MaxDelay {
		delay = g.retry.MaxDelay
	}
	return delay
}

// geminiAdapter narrows *gemini.Client to the InferenceClient interface
type geminiAdapter struct {
	c *gemini.Client
}

func (a geminiAdapter) Generate(ctx context.Context, req gemini.GenerateRequest) (string, error) {
	return a.c.Generate(ctx, req)
}

func (a geminiAdapter) GenerateStream(ctx context.Context, req gemini.GenerateRequest) (StreamReceiver, error) {
	stream, err := a.c.GenerateStream(ctx, req)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// emptyStream yields nothing; used when stream establishment exhausted retries
type emptyStream struct{}

func (emptyStream) Recv() (string, error) { return "", io.EOF }
func (emptyStream) Close() error          { return nil }
