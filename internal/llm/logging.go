package llm

import (
	"context"
	"time"

	"github.com/abhisek/mathquest/internal/logging"
)

// LoggingProvider logs every request with its purpose, latency, token usage
// and estimated cost.
type LoggingProvider struct {
	inner Provider
	log   *logging.Logger
}

// WithLogging wraps p with request logging. A nil logger discards output.
func WithLogging(p Provider, log *logging.Logger) Provider {
	return &LoggingProvider{
		inner: p,
		log:   logging.OrNop(log).With("component", "llm"),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	model := l.inner.ModelID()
	if resp != nil && resp.Model != "" {
		model = resp.Model
	}
	kv := []any{
		"purpose", string(req.Purpose),
		"model", model,
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if req.Schema != nil {
		kv = append(kv, "schema", req.Schema.Name)
	}

	if err != nil {
		kv = append(kv, "rate_limited", IsRateLimit(err), "error", err)
		l.log.Warn("llm request failed", kv...)
		return nil, err
	}

	kv = append(kv,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", string(resp.Stop),
	)
	if cost, ok := EstimateCost(model, resp.Usage); ok {
		kv = append(kv, "cost_usd", cost)
	}
	l.log.Debug("llm request", kv...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
