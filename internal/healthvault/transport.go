package healthvault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-authgate/hvgate/internal/retry"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// transport carries platform calls. It is shared by every Conn a Factory
// creates so the breaker sees all traffic.
type transport struct {
	client    *retry.Client
	breaker   *gobreaker.CircuitBreaker
	logger    *zap.Logger
	userAgent string
	now       func() time.Time
}

func newTransport(
	httpClient *http.Client,
	maxRetries int,
	retryDelay time.Duration,
	breakerFailures int,
	breakerTimeout time.Duration,
	logger *zap.Logger,
	userAgent string,
) *transport {
	if breakerFailures <= 0 {
		breakerFailures = 5
	}
	if breakerTimeout <= 0 {
		breakerTimeout = time.Minute
	}

	t := &transport{
		client: retry.NewClient(
			retry.WithHTTPClient(httpClient),
			retry.WithMaxRetries(maxRetries),
			retry.WithInitialRetryDelay(retryDelay),
			retry.WithLogger(logger),
		),
		logger:    logger,
		userAgent: userAgent,
		now:       time.Now,
	}

	t.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "healthvault-platform",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(breakerFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return t
}

// post sends body to url and returns the raw response body. Transport
// failures, non-2xx statuses and an open breaker all wrap ErrUpstream.
func (t *transport) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	out, err := t.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "text/xml; charset=utf-8")
		req.Header.Set("User-Agent", t.userAgent)

		resp, err := t.client.Do(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read response: %v", ErrUpstream, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: platform returned HTTP %d", ErrUpstream, resp.StatusCode)
		}
		return raw, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func (t *transport) state() gobreaker.State {
	return t.breaker.State()
}
