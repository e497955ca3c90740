package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockandplay/explorer/internal/testutil"
	"github.com/blockandplay/explorer/pkg/model"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryWithBackoff_Success(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(3), zerolog.Nop(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_SuccessAfterRetry(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(3), zerolog.Nop(), func() error {
		calls++
		if calls < 3 {
			return &Error{Class: ErrorClassTransport}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(3), zerolog.Nop(), func() error {
		calls++
		return &Error{Class: ErrorClassUpstream, StatusCode: 503}
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, ErrorClassUpstream, ClassOf(err))
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_NonRetryable(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(3), zerolog.Nop(), func() error {
		calls++
		return &Error{Class: ErrorClassUpstream, StatusCode: 404}
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_NoRetryByDefault(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), NoRetry(), zerolog.Nop(), func() error {
		calls++
		return &Error{Class: ErrorClassTransport}
	})
	assert.Equal(t, ErrorClassTransport, ClassOf(err))
	assert.NotErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxAttempts: 5, InitialBackoff: time.Hour, BackoffMultiplier: 2}

	err := retryWithBackoff(ctx, cfg, zerolog.Nop(), func() error {
		cancel()
		return &Error{Class: ErrorClassTransport}
	})
	assert.True(t, errors.Is(err, ErrContextCancelled))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	mock := testutil.NewMockExplorer()
	defer mock.Close()

	calls := 0
	mock.SetHandler("/api/network", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"network":"testnet","chainId":1}`))
	})

	c := newTestClient(t, mock, func(cfg *Config) { cfg.Retry = fastRetry(3) })
	info, err := c.Network(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "testnet", info.Network)
	assert.Equal(t, 2, calls)
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	mock := testutil.NewMockExplorer()
	defer mock.Close()

	mock.SetResponse("/api/history", testutil.NewErrorResponse(http.StatusBadRequest, model.CodeInvalidParameter, "assetId is required"))

	c := newTestClient(t, mock, func(cfg *Config) { cfg.Retry = fastRetry(3) })
	_, err := c.History(context.Background(), "")
	assert.True(t, IsInvalidParameter(err))
	assert.Equal(t, 1, mock.PathCount("/api/history"))
}
