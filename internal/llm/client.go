package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInference covers any failure of the hosted model API (auth, rate
	// limit, timeout). Callers surface it to the user without retrying.
	ErrInference = errors.New("inference failed")
	// ErrQuotaExceeded is the provider's monthly usage limit (HTTP 402).
	ErrQuotaExceeded = fmt.Errorf("%w: monthly usage limit reached", ErrInference)
)

// GenerateRequest is a single prompt sent to the hosted model.
type GenerateRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Client sends one prompt to a hosted language model and returns the
// generated text. No retry, batching or streaming.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
