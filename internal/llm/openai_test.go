package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func newStubServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateReturnsCompletion(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  The sky scatters blue light.  "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 8, "total_tokens": 18}
		}`))
	})

	client := NewOpenAI("test-token", srv.URL+"/v1", "test-model")
	out, err := client.Generate(context.Background(), GenerateRequest{
		System:      "You are a summarizer.",
		Prompt:      "Summarize: the sky is blue.",
		MaxTokens:   128,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "The sky scatters blue light." {
		t.Fatalf("unexpected output: %q", out)
	}

	if gotReq.Model != "test-model" {
		t.Fatalf("unexpected model: %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("first message role: %q", gotReq.Messages[0].Role)
	}
	if gotReq.MaxTokens != 128 {
		t.Fatalf("max tokens not forwarded: %d", gotReq.MaxTokens)
	}
}

func TestGenerateQuotaExceeded(t *testing.T) {
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error": {"message": "monthly quota reached", "type": "payment_required"}}`))
	})

	client := NewOpenAI("test-token", srv.URL+"/v1", "test-model")
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if !errors.Is(err, ErrInference) {
		t.Fatal("quota error must also match ErrInference")
	}
}

func TestGenerateAPIFailure(t *testing.T) {
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	})

	client := NewOpenAI("test-token", srv.URL+"/v1", "test-model")
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected ErrInference, got %v", err)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cmpl-2", "object": "chat.completion", "created": 1, "model": "test-model", "choices": []}`))
	})

	client := NewOpenAI("test-token", srv.URL+"/v1", "test-model")
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected ErrInference, got %v", err)
	}
}
