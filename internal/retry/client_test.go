package retry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient()

	assert.Equal(t, defaultMaxRetries, client.maxRetries)
	assert.Equal(t, defaultInitialRetryDelay, client.initialRetryDelay)
	assert.Equal(t, defaultMaxRetryDelay, client.maxRetryDelay)
	assert.InDelta(t, defaultRetryDelayMultiple, client.retryDelayMultiple, 0.0001)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.logger)
}

func TestNewClient_WithOptions(t *testing.T) {
	httpClient := &http.Client{Timeout: 5 * time.Second}

	client := NewClient(
		WithMaxRetries(5),
		WithInitialRetryDelay(2*time.Second),
		WithMaxRetryDelay(20*time.Second),
		WithRetryDelayMultiple(3.0),
		WithHTTPClient(httpClient),
		WithRetryableChecker(func(error, *http.Response) bool { return false }),
	)

	assert.Equal(t, 5, client.maxRetries)
	assert.Equal(t, 2*time.Second, client.initialRetryDelay)
	assert.Equal(t, 20*time.Second, client.maxRetryDelay)
	assert.InDelta(t, 3.0, client.retryDelayMultiple, 0.0001)
	assert.Same(t, httpClient, client.httpClient)
}

func TestNewClient_InvalidOptionsIgnored(t *testing.T) {
	client := NewClient(
		WithMaxRetries(-1),
		WithInitialRetryDelay(-1),
		WithMaxRetryDelay(-1),
		WithRetryDelayMultiple(0.5),
		WithHTTPClient(nil),
		WithLogger(nil),
	)

	assert.Equal(t, defaultMaxRetries, client.maxRetries)
	assert.Equal(t, defaultInitialRetryDelay, client.initialRetryDelay)
	assert.Equal(t, defaultMaxRetryDelay, client.maxRetryDelay)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.logger)
}

func TestDefaultRetryableChecker(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		resp     *http.Response
		expected bool
	}{
		{"network error", errors.New("connection refused"), nil, true},
		{"200 OK", nil, &http.Response{StatusCode: http.StatusOK}, false},
		{"400 Bad Request", nil, &http.Response{StatusCode: http.StatusBadRequest}, false},
		{"429 Too Many Requests", nil, &http.Response{StatusCode: http.StatusTooManyRequests}, true},
		{"500 Internal Server Error", nil, &http.Response{StatusCode: http.StatusInternalServerError}, true},
		{"503 Service Unavailable", nil, &http.Response{StatusCode: http.StatusServiceUnavailable}, true},
		{"nil response", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultRetryableChecker(tt.err, tt.resp))
		})
	}
}

func TestClient_Do_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("success"))
	}))
	defer server.Close()

	client := NewClient(WithInitialRetryDelay(10 * time.Millisecond))

	ctx := context.Background()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(ctx, req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_Do_RetryReplaysBody(t *testing.T) {
	var attempts atomic.Int32
	var lastBody atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastBody.Store(string(body))
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(
		WithInitialRetryDelay(10*time.Millisecond),
		WithMaxRetries(3),
	)

	ctx := context.Background()
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		server.URL,
		strings.NewReader("<wc-request:request/>"),
	)
	require.NoError(t, err)

	resp, err := client.Do(ctx, req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, "<wc-request:request/>", lastBody.Load(), "retried attempts must resend the body")
}

func TestClient_Do_ExhaustedRetriesReturnsLastResponse(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("still broken"))
	}))
	defer server.Close()

	client := NewClient(
		WithInitialRetryDelay(10*time.Millisecond),
		WithMaxRetries(2),
	)

	ctx := context.Background()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(ctx, req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load(), "1 initial attempt + 2 retries")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "still broken", string(body))
}

func TestClient_Do_NoRetryOn4xx(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(WithInitialRetryDelay(10 * time.Millisecond))

	ctx := context.Background()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(ctx, req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_Do_ContextCancellation(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(
		WithInitialRetryDelay(200*time.Millisecond),
		WithMaxRetries(5),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(ctx, req)
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_Do_NetworkErrorWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(
		WithInitialRetryDelay(time.Millisecond),
		WithMaxRetries(1),
	)

	ctx := context.Background()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := client.Do(ctx, req)
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed after 1 retries")
}
