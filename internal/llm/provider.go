// Package llm talks to the hosted language models that write SM025 questions
// and worked solutions.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider sends a single prompt to a model.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider is configured with. The model that
	// served a request is reported in Response.Model.
	ModelID() string
}

// Purpose labels a request in logs and cost accounting.
type Purpose string

const (
	PurposeQuestion Purpose = "question"
	PurposeExplain  Purpose = "explain"
)

// Request is a single-turn prompt. Every call the app makes is one system
// prompt plus one user message.
type Request struct {
	Purpose Purpose
	System  string
	Prompt  string

	// Schema, when set, asks the model for JSON and the reply is validated
	// against it before Generate returns.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Schema is a named JSON Schema for structured replies.
type Schema struct {
	// Name is kebab-case, e.g. "sm025-problem". OpenAI uses it as the
	// response format name and the validator caches on it.
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason says why the model stopped writing.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a model reply.
type Response struct {
	// Content is validated JSON when the request had a Schema, otherwise
	// the raw reply text.
	Content json.RawMessage
	Usage   Usage
	Model   string
	Stop    StopReason
}

// Text returns the reply as trimmed text.
func (r *Response) Text() string {
	return strings.TrimSpace(string(r.Content))
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// finish turns a provider reply into a Response. A structured reply cut off
// by the token limit cannot be valid JSON, so it is reported as truncated
// instead of as a schema failure.
func finish(provider string, req Request, content string, stop StopReason, usage Usage, model string) (*Response, error) {
	raw := json.RawMessage(content)
	if req.Schema != nil {
		if stop == StopMaxTokens {
			return nil, &Error{Kind: KindTruncated, Provider: provider, Content: raw}
		}
		if err := validateResponse(req.Schema, raw); err != nil {
			return nil, &Error{Kind: KindInvalidResponse, Provider: provider, Content: raw, Err: err}
		}
	}
	return &Response{Content: raw, Usage: usage, Model: model, Stop: stop}, nil
}
