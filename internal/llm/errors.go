package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies a failed model call.
type Kind int

const (
	KindUnavailable Kind = iota
	KindRateLimited
	KindInvalidResponse
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalidResponse:
		return "invalid response"
	case KindTruncated:
		return "response truncated"
	default:
		return "unavailable"
	}
}

// Error is a failed model call.
type Error struct {
	Kind     Kind
	Provider string

	// Status is the HTTP status, when the provider reported one.
	Status int

	// RetryAfter is the wait the provider asked for on a rate limit.
	RetryAfter time.Duration

	// Content is the rejected reply for invalid or truncated responses.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// What the student sees. Every failure of Generate or Explain wraps exactly
// one of these.
var (
	ErrRateLimited      = errors.New("question service is busy, try again later")
	ErrGenerationFailed = errors.New("could not generate a question")
)

// IsRateLimit reports whether err is a provider rate limit. Context errors
// never count, even when wrapped in one.
func IsRateLimit(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var e *Error
	return errors.As(err, &e) && e.Kind == KindRateLimited
}

// Classify maps a failed call onto ErrRateLimited or ErrGenerationFailed,
// keeping err in the chain. A call abandoned because ctx ended is returned
// unchanged.
func Classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	if IsRateLimit(err) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}

// statusError builds the Error for an HTTP failure. Only 429 is a rate
// limit; overload and server errors are plain unavailability.
func statusError(provider string, status int, header http.Header, err error) *Error {
	e := &Error{Kind: KindUnavailable, Provider: provider, Status: status, Err: err}
	if status == http.StatusTooManyRequests {
		e.Kind = KindRateLimited
		e.RetryAfter = retryAfter(header, time.Now())
	}
	return e
}

// retryAfter reads a Retry-After header in either seconds or HTTP-date form.
func retryAfter(h http.Header, now time.Time) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(t.Sub(now), 0)
	}
	return 0
}
