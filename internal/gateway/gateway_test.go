package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/config"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/gemini"
)

// fakeClient scripts per-call outcomes for the gateway under test
type fakeClient struct {
	mu      sync.Mutex
	calls   int
	outcome func(call int) (string, error)
}

func (f *fakeClient) Generate(ctx context.Context, req gemini.GenerateRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.outcome(call)
}

func (f *fakeClient) GenerateStream(ctx context.Context, req gemini.GenerateRequest) (StreamReceiver, error) {
	_, err := f.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return emptyStream{}, nil
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastRetry(attempts int) config.RetryConfig {
	return config.RetryConfig{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func looseLimit() config.RateLimitConfig {
	return config.RateLimitConfig{Requests: 1000, Window: time.Minute}
}

func TestGenerateSuccess(t *testing.T) {
	client := &fakeClient{outcome: func(int) (string, error) { return "answer", nil }}
	gw := New(client, looseLimit(), fastRetry(3), testLogger())

	text, err := gw.Generate(context.Background(), gemini.GenerateRequest{Prompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
	assert.Equal(t, 1, client.callCount())
}

func TestGenerateRetriesTransientThenSucceeds(t *testing.T) {
	client := &fakeClient{outcome: func(call int) (string, error) {
		if call < 3 {
			return "", &gemini.APIError{StatusCode: 503, Message: "overloaded"}
		}
		return "recovered", nil
	}}
	gw := New(client, looseLimit(), fastRetry(5), testLogger())

	text, err := gw.Generate(context.Background(), gemini.GenerateRequest{Prompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 3, client.callCount())
}

func TestGenerateExhaustedRetriesDegradesToAbsence(t *testing.T) {
	client := &fakeClient{outcome: func(int) (string, error) {
		return "", &gemini.APIError{StatusCode: 500, Message: "boom"}
	}}
	gw := New(client, looseLimit(), fastRetry(3), testLogger())

	text, err := gw.Generate(context.Background(), gemini.GenerateRequest{Prompt: "q"})
	require.NoError(t, err, "exhausted transient retries must not surface an error")
	assert.Empty(t, text)
	assert.Equal(t, 3, client.callCount())
}

func TestGeneratePermanentErrorNoRetry(t *testing.T) {
	permanent := &gemini.APIError{StatusCode: 400, Message: "bad request"}
	client := &fakeClient{outcome: func(int) (string, error) { return "", permanent }}
	gw := New(client, looseLimit(), fastRetry(3), testLogger())

	_, err := gw.Generate(context.Background(), gemini.GenerateRequest{Prompt: "q"})
	require.Error(t, err)
	var apiErr *gemini.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, 1, client.callCount(), "permanent errors must not be retried")
}

func TestGenerateContextCancellation(t *testing.T) {
	client := &fakeClient{outcome: func(int) (string, error) {
		return "", &gemini.APIError{StatusCode: 503, Message: "overloaded"}
	}}
	gw := New(client, looseLimit(), config.RetryConfig{
		MaxAttempts:  5,
		InitialDelay: time.Hour, // would block without cancellation
		MaxDelay:     time.Hour,
	}, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := gw.Generate(ctx, gemini.GenerateRequest{Prompt: "q"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerateStreamExhaustedYieldsEmptyStream(t *testing.T) {
	client := &fakeClient{outcome: func(int) (string, error) {
		return "", &gemini.APIError{StatusCode: 503, Message: "overloaded"}
	}}
	gw := New(client, looseLimit(), fastRetry(2), testLogger())

	stream, err := gw.GenerateStream(context.Background(), gemini.GenerateRequest{Prompt: "q"})
	require.NoError(t, err)
	_, err = stream.Recv()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, stream.Close())
}

func TestLimiterEnforcesWindow(t *testing.T) {
	l := newWindowLimiter(2, 80*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.acquire(ctx))
	}
	elapsed := time.Since(start)

	// The third acquire must wait for the window to reset
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestLimiterConcurrentCallersNeverExceedLimit(t *testing.T) {
	const limit = 5
	l := newWindowLimiter(limit, 50*time.Millisecond)

	var inWindow atomic.Int32
	var maxSeen atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, l.acquire(context.Background()))
			n := inWindow.Add(1)
			for {
				seen := maxSeen.Load()
				if n <= seen || maxSeen.CompareAndSwap(seen, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inWindow.Add(-1)
		}()
	}
	wg.Wait()

	// At most `limit` callers are ever admitted within one window; the
	// concurrent high-water mark can never exceed it
	assert.LessOrEqual(t, maxSeen.Load(), int32(limit))
}

func TestLimiterCancellation(t *testing.T) {
	l := newWindowLimiter(1, time.Hour)
	require.NoError(t, l.acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := l.acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNextDelayCapped(t *testing.T) {
	gw := New(&fakeClient{outcome: func(int) (string, error) { return "", nil }},
		looseLimit(), config.RetryConfig{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 3 * time.Second}, testLogger())

	d := gw.nextDelay(time.Second)
	assert.Equal(t, 2*time.Second, d)
	d = gw.nextDelay(d)
	assert.Equal(t, 3*time.Second, d)
	d = gw.nextDelay(d)
	assert.Equal(t, 3*time.Second, d)
}

func TestBackoffAddsJitterWhenRateLimited(t *testing.T) {
	gw := New(&fakeClient{outcome: func(int) (string, error) { return "", nil }},
		looseLimit(), fastRetry(3), testLogger())

	base := 10 * time.Millisecond
	rateLimited := &gemini.APIError{StatusCode: 429, Message: "slow down"}
	plain := errors.New("timeout")

	assert.Equal(t, base, gw.backoff(base, plain))
	jittered := gw.backoff(base, rateLimited)
	assert.GreaterOrEqual(t, jittered, base)
	assert.Less(t, jittered, base+rateLimitJitterMax)
}
