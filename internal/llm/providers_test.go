package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// answerSchema is a cut-down SM025 problem shape.
var answerSchema = &Schema{
	Name: "sm025-answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":     map[string]any{"type": "string"},
			"options":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 4, "maxItems": 4},
			"correctIndex": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
		},
		"required":             []any{"question", "options", "correctIndex"},
		"additionalProperties": false,
	},
}

const (
	goodAnswer  = `{"question":"Find \\(|2\\mathbf{i} - \\mathbf{j} + 2\\mathbf{k}|\\).","options":["3","9","5","1"],"correctIndex":0}`
	shortAnswer = `{"question":"Find the magnitude.","options":["3","9"],"correctIndex":0}`
)

func questionRequest() Request {
	return Request{
		Purpose:   PurposeQuestion,
		System:    "You write SM025 questions.",
		Prompt:    "Topic: Vector\nDifficulty: Basic",
		Schema:    answerSchema,
		MaxTokens: 512,
	}
}

// reply describes one canned server answer, in a provider-neutral form.
type reply struct {
	status     int
	retryAfter string
	text       string
	truncated  bool
}

type providerCase struct {
	name  string
	build func(t *testing.T, url string) Provider
	body  func(r reply) any
	// capture pulls the prompt text out of a request body.
	capture func(t *testing.T, body []byte) string
}

func providerCases() []providerCase {
	return []providerCase{
		{
			name: "anthropic",
			build: func(t *testing.T, url string) Provider {
				p, err := NewAnthropicProvider(ProviderConfig{APIKey: "k", Model: "claude-haiku", BaseURL: url})
				require.NoError(t, err)
				return p
			},
			body: func(r reply) any {
				if r.status != http.StatusOK {
					return map[string]any{"type": "error", "error": map[string]any{"type": "rate_limit_error", "message": "slow down"}}
				}
				stop := "end_turn"
				if r.truncated {
					stop = "max_tokens"
				}
				return map[string]any{
					"id": "msg_1", "type": "message", "role": "assistant",
					"model":       "claude-haiku-4-5-20251001",
					"content":     []map[string]any{{"type": "text", "text": r.text}},
					"stop_reason": stop,
					"usage":       map[string]any{"input_tokens": 120, "output_tokens": 40},
				}
			},
			capture: func(t *testing.T, body []byte) string {
				var req struct {
					Messages []struct {
						Content []struct{ Text string } `json:"content"`
					} `json:"messages"`
				}
				require.NoError(t, json.Unmarshal(body, &req))
				require.Len(t, req.Messages, 1)
				return req.Messages[0].Content[0].Text
			},
		},
		{
			name: "openai",
			build: func(t *testing.T, url string) Provider {
				p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
				require.NoError(t, err)
				return p
			},
			body: openAIBody,
			capture: func(t *testing.T, body []byte) string {
				var req struct {
					Messages []struct{ Role, Content string } `json:"messages"`
				}
				require.NoError(t, json.Unmarshal(body, &req))
				require.Len(t, req.Messages, 2)
				assert.Equal(t, "system", req.Messages[0].Role)
				return req.Messages[1].Content
			},
		},
		{
			name: "openrouter",
			build: func(t *testing.T, url string) Provider {
				p, err := NewOpenRouterProvider(ProviderConfig{APIKey: "k", Model: "google/gemini-2.0-flash-001", BaseURL: url})
				require.NoError(t, err)
				return p
			},
			body: openAIBody,
			capture: func(t *testing.T, body []byte) string {
				var req struct {
					Messages []struct{ Content string } `json:"messages"`
				}
				require.NoError(t, json.Unmarshal(body, &req))
				return req.Messages[len(req.Messages)-1].Content
			},
		},
		{
			name: "gemini",
			build: func(t *testing.T, url string) Provider {
				p, err := NewGeminiProvider(context.Background(), ProviderConfig{APIKey: "k", Model: "gemini-flash", BaseURL: url})
				require.NoError(t, err)
				return p
			},
			body: func(r reply) any {
				if r.status != http.StatusOK {
					return map[string]any{"error": map[string]any{"code": r.status, "message": "quota", "status": "RESOURCE_EXHAUSTED"}}
				}
				finish := "STOP"
				if r.truncated {
					finish = "MAX_TOKENS"
				}
				return map[string]any{
					"candidates": []map[string]any{{
						"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": r.text}}},
						"finishReason": finish,
					}},
					"usageMetadata": map[string]any{"promptTokenCount": 120, "candidatesTokenCount": 40},
					"modelVersion":  "gemini-2.5-flash",
				}
			},
			capture: func(t *testing.T, body []byte) string {
				var req struct {
					Contents []struct {
						Parts []struct{ Text string } `json:"parts"`
					} `json:"contents"`
				}
				require.NoError(t, json.Unmarshal(body, &req))
				require.Len(t, req.Contents, 1)
				return req.Contents[0].Parts[0].Text
			},
		},
	}
}

func openAIBody(r reply) any {
	if r.status != http.StatusOK {
		return map[string]any{"error": map[string]any{"message": "slow down", "type": "rate_limit_exceeded"}}
	}
	finish := "stop"
	if r.truncated {
		finish = "length"
	}
	return map[string]any{
		"id": "chatcmpl-1", "object": "chat.completion", "model": "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": r.text},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 40, "total_tokens": 160},
	}
}

// serve starts a server that answers every request with r and records the
// last request body.
func serve(t *testing.T, pc providerCase, r reply) (string, *[]byte) {
	t.Helper()
	var last []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		last, _ = io.ReadAll(req.Body)
		w.Header().Set("Content-Type", "application/json")
		if r.retryAfter != "" {
			w.Header().Set("Retry-After", r.retryAfter)
		}
		w.WriteHeader(r.status)
		_ = json.NewEncoder(w).Encode(pc.body(r))
	}))
	t.Cleanup(srv.Close)
	return srv.URL, &last
}

func TestProviders_StructuredAnswer(t *testing.T) {
	for _, pc := range providerCases() {
		t.Run(pc.name, func(t *testing.T) {
			url, last := serve(t, pc, reply{status: http.StatusOK, text: goodAnswer})
			p := pc.build(t, url)

			resp, err := p.Generate(context.Background(), questionRequest())
			require.NoError(t, err)
			assert.JSONEq(t, goodAnswer, string(resp.Content))
			assert.Equal(t, StopEnd, resp.Stop)
			assert.Equal(t, Usage{InputTokens: 120, OutputTokens: 40}, resp.Usage)
			assert.NotEmpty(t, resp.Model)
			assert.Equal(t, "Topic: Vector\nDifficulty: Basic", pc.capture(t, *last))
		})
	}
}

func TestProviders_SchemaMismatch(t *testing.T) {
	for _, pc := range providerCases() {
		t.Run(pc.name, func(t *testing.T) {
			url, _ := serve(t, pc, reply{status: http.StatusOK, text: shortAnswer})
			_, err := pc.build(t, url).Generate(context.Background(), questionRequest())

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, KindInvalidResponse, e.Kind)
			assert.JSONEq(t, shortAnswer, string(e.Content))
			assert.ErrorIs(t, Classify(context.Background(), err), ErrGenerationFailed)
		})
	}
}

func TestProviders_TruncatedAnswer(t *testing.T) {
	for _, pc := range providerCases() {
		t.Run(pc.name, func(t *testing.T) {
			url, _ := serve(t, pc, reply{status: http.StatusOK, text: `{"question":"Find`, truncated: true})
			_, err := pc.build(t, url).Generate(context.Background(), questionRequest())

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, KindTruncated, e.Kind)
			assert.False(t, IsRateLimit(err))
		})
	}
}

func TestProviders_RateLimited(t *testing.T) {
	for _, pc := range providerCases() {
		t.Run(pc.name, func(t *testing.T) {
			url, _ := serve(t, pc, reply{status: http.StatusTooManyRequests, retryAfter: "2"})
			_, err := pc.build(t, url).Generate(context.Background(), questionRequest())

			require.True(t, IsRateLimit(err), "got %v", err)
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, http.StatusTooManyRequests, e.Status)
			assert.Equal(t, pc.name, e.Provider)
			assert.ErrorIs(t, Classify(context.Background(), err), ErrRateLimited)
		})
	}
}

func TestAnthropic_HonoursRetryAfter(t *testing.T) {
	pc := providerCases()[0]
	url, _ := serve(t, pc, reply{status: http.StatusTooManyRequests, retryAfter: "7"})
	_, err := pc.build(t, url).Generate(context.Background(), questionRequest())

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 7*time.Second, e.RetryAfter)
}

func TestProviders_ServerErrorIsUnavailable(t *testing.T) {
	for _, pc := range providerCases() {
		t.Run(pc.name, func(t *testing.T) {
			url, _ := serve(t, pc, reply{status: http.StatusServiceUnavailable})
			_, err := pc.build(t, url).Generate(context.Background(), questionRequest())

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, KindUnavailable, e.Kind)
			assert.False(t, IsRateLimit(err))
		})
	}
}

func TestProviders_RequireKey(t *testing.T) {
	_, err := NewAnthropicProvider(ProviderConfig{})
	assert.Error(t, err)
	_, err = NewOpenAIProvider(ProviderConfig{})
	assert.Error(t, err)
	_, err = NewOpenRouterProvider(ProviderConfig{})
	assert.Error(t, err)
	_, err = NewGeminiProvider(context.Background(), ProviderConfig{})
	assert.Error(t, err)
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name   string
		models map[string]string
		want   string
	}{
		{"claude-haiku", anthropicModels, "claude-haiku-4-5-20251001"},
		{"gemini-flash", geminiModels, "gemini-2.5-flash"},
		{"gemini-2.0-flash", geminiModels, "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveModel(tt.name, tt.models), tt.name)
	}
}

func TestFinish_FreeTextSkipsValidation(t *testing.T) {
	resp, err := finish("x", Request{Purpose: PurposeExplain}, "  Step 1. Let \\(u = x^2\\).\n", StopMaxTokens, Usage{}, "m")
	require.NoError(t, err)
	assert.Equal(t, `Step 1. Let \(u = x^2\).`, resp.Text())
	assert.Equal(t, StopMaxTokens, resp.Stop)
}

func TestValidateResponse_NotJSON(t *testing.T) {
	err := validateResponse(answerSchema, json.RawMessage("The answer is 3."))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))
}
