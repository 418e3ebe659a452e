package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusError(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "3")

	tests := []struct {
		status     int
		kind       Kind
		retryAfter time.Duration
	}{
		{http.StatusTooManyRequests, KindRateLimited, 3 * time.Second},
		{http.StatusServiceUnavailable, KindUnavailable, 0},
		{529, KindUnavailable, 0},
		{http.StatusBadRequest, KindUnavailable, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			e := statusError("anthropic", tt.status, h, errors.New("boom"))
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.retryAfter, e.RetryAfter)
			assert.Contains(t, e.Error(), fmt.Sprintf("HTTP %d", tt.status))
		})
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"missing", "", 0},
		{"seconds", "12", 12 * time.Second},
		{"negative", "-4", 0},
		{"date", now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{"past date", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", "soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.value != "" {
				h.Set("Retry-After", tt.value)
			}
			assert.Equal(t, tt.want, retryAfter(h, now))
		})
	}
	assert.Zero(t, retryAfter(nil, now))
}

func TestClassify(t *testing.T) {
	limited := &Error{Kind: KindRateLimited, Provider: "gemini", Status: 429}
	down := &Error{Kind: KindUnavailable, Provider: "openai", Status: 502}

	assert.NoError(t, Classify(context.Background(), nil))

	err := Classify(context.Background(), limited)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorIs(t, err, limited)
	assert.NotErrorIs(t, err, ErrGenerationFailed)

	err = Classify(context.Background(), down)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.NotErrorIs(t, err, ErrRateLimited)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Classify(ctx, fmt.Errorf("waiting for rate limiter: %w", context.Canceled))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrGenerationFailed)
}

func TestIsRateLimit(t *testing.T) {
	assert.False(t, IsRateLimit(errors.New("x")))
	assert.True(t, IsRateLimit(&Error{Kind: KindRateLimited}))
	assert.True(t, IsRateLimit(fmt.Errorf("wrapped: %w", &Error{Kind: KindRateLimited})))
	assert.False(t, IsRateLimit(&Error{Kind: KindRateLimited, Err: context.DeadlineExceeded}))
	assert.False(t, IsRateLimit(&Error{Kind: KindTruncated}))
}
