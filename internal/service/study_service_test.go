package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"study-buddy/internal/domain"
	"study-buddy/internal/llm"
	"study-buddy/internal/repository"
)

type fakeLLM struct {
	output  string
	err     error
	lastReq llm.GenerateRequest
}

func (f *fakeLLM) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

type memInteractionRepo struct {
	items     []domain.Interaction
	appendErr error
	listErr   error
}

func (m *memInteractionRepo) Init(ctx context.Context) error { return nil }

func (m *memInteractionRepo) Append(ctx context.Context, interaction *domain.Interaction) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.items = append(m.items, *interaction)
	return nil
}

func (m *memInteractionRepo) ListByUsername(ctx context.Context, username string) ([]domain.Interaction, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Interaction
	for _, it := range m.items {
		if it.Username == username {
			out = append(out, it)
		}
	}
	return out, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newStudyFixture(client llm.Client, repo repository.InteractionRepository) StudyService {
	return NewStudyService(client, NewHistoryService(repo), 256, 0.7, quietLogger())
}

func TestSummarizeRecordsHistory(t *testing.T) {
	repo := &memInteractionRepo{}
	client := &fakeLLM{output: "The sky appears blue due to light scattering."}
	svc := newStudyFixture(client, repo)

	result, err := svc.Summarize(context.Background(), "alice", "The sky is blue.", "")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if result.Interaction.Output == "" {
		t.Fatal("empty output")
	}
	if !result.HistorySaved {
		t.Fatal("history should be saved")
	}
	if result.Interaction.Tool != domain.ToolSummarize {
		t.Fatalf("unexpected tool: %q", result.Interaction.Tool)
	}

	if len(repo.items) != 1 {
		t.Fatalf("expected 1 stored interaction, got %d", len(repo.items))
	}
	stored := repo.items[0]
	if stored.Username != "alice" || stored.Input != "The sky is blue." {
		t.Fatalf("unexpected stored interaction: %+v", stored)
	}
	if stored.ID == "" || stored.CreatedAt.IsZero() {
		t.Fatal("interaction id/timestamp not assigned")
	}

	if !strings.Contains(client.lastReq.Prompt, "A short paragraph") {
		t.Fatalf("default summary length not applied: %q", client.lastReq.Prompt)
	}
	if client.lastReq.System == "" {
		t.Fatal("system prompt missing")
	}
	if client.lastReq.MaxTokens != 256 {
		t.Fatalf("unexpected max tokens: %d", client.lastReq.MaxTokens)
	}
}

func TestExplainUsesTemplate(t *testing.T) {
	client := &fakeLLM{output: "ok"}
	svc := newStudyFixture(client, &memInteractionRepo{})

	if _, err := svc.Explain(context.Background(), "alice", "Photosynthesis", "Like I'm 10 years old"); err != nil {
		t.Fatalf("explain: %v", err)
	}
	want := "Explain the topic: 'Photosynthesis' in the style of 'Like I'm 10 years old'."
	if client.lastReq.Prompt != want {
		t.Fatalf("unexpected prompt: %q", client.lastReq.Prompt)
	}

	if _, err := svc.Explain(context.Background(), "alice", "", ""); err == nil {
		t.Fatal("expected error for empty topic")
	}
}

func TestQuizQuestionCountClamped(t *testing.T) {
	client := &fakeLLM{output: "ok"}
	svc := newStudyFixture(client, &memInteractionRepo{})
	ctx := context.Background()

	cases := []struct {
		in   int
		want string
	}{
		{0, "quiz with 5 multiple-choice"},
		{1, "quiz with 3 multiple-choice"},
		{99, "quiz with 10 multiple-choice"},
		{7, "quiz with 7 multiple-choice"},
	}
	for _, tc := range cases {
		if _, err := svc.Quiz(ctx, "alice", "The Solar System", tc.in); err != nil {
			t.Fatalf("quiz(%d): %v", tc.in, err)
		}
		if !strings.Contains(client.lastReq.Prompt, tc.want) {
			t.Fatalf("quiz(%d): prompt %q does not contain %q", tc.in, client.lastReq.Prompt, tc.want)
		}
	}
}

func TestFlashcardsTemplate(t *testing.T) {
	client := &fakeLLM{output: "Term: X --- Definition: Y"}
	repo := &memInteractionRepo{}
	svc := newStudyFixture(client, repo)

	result, err := svc.Flashcards(context.Background(), "alice", "Cell biology notes", 4)
	if err != nil {
		t.Fatalf("flashcards: %v", err)
	}
	if result.Interaction.Tool != domain.ToolFlashcards {
		t.Fatalf("unexpected tool: %q", result.Interaction.Tool)
	}
	if !strings.Contains(client.lastReq.Prompt, "Generate 4 flashcards") {
		t.Fatalf("unexpected prompt: %q", client.lastReq.Prompt)
	}
}

func TestHistoryWriteFailureKeepsOutput(t *testing.T) {
	repo := &memInteractionRepo{appendErr: fmt.Errorf("%w: connection refused", repository.ErrStorage)}
	client := &fakeLLM{output: "generated text"}
	svc := newStudyFixture(client, repo)

	result, err := svc.Explain(context.Background(), "alice", "Photosynthesis", "")
	if err != nil {
		t.Fatalf("tool execution must not fail on history error: %v", err)
	}
	if result.Interaction.Output != "generated text" {
		t.Fatalf("output lost: %q", result.Interaction.Output)
	}
	if result.HistorySaved {
		t.Fatal("HistorySaved should be false when the append fails")
	}
}

func TestInferenceErrorPropagates(t *testing.T) {
	repo := &memInteractionRepo{}
	client := &fakeLLM{err: fmt.Errorf("%w: rate limited", llm.ErrInference)}
	svc := newStudyFixture(client, repo)

	_, err := svc.Summarize(context.Background(), "alice", "notes", "")
	if !errors.Is(err, llm.ErrInference) {
		t.Fatalf("expected inference error, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatal("failed generation must not be recorded")
	}
}

func TestHistoryServiceListOrder(t *testing.T) {
	repo := &memInteractionRepo{}
	history := NewHistoryService(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		interaction := &domain.Interaction{
			Username: "alice",
			Tool:     domain.ToolExplain,
			Input:    fmt.Sprintf("topic-%d", i),
			Output:   "out",
		}
		if err := history.Record(ctx, interaction); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if err := history.Record(ctx, &domain.Interaction{Username: "bob", Tool: domain.ToolQuiz}); err != nil {
		t.Fatalf("record bob: %v", err)
	}

	got, err := history.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 interactions, got %d", len(got))
	}
	for i, it := range got {
		if it.Input != fmt.Sprintf("topic-%d", i) {
			t.Fatalf("records out of call order at %d: %+v", i, it)
		}
	}

	empty, err := history.ListForUser(ctx, "carol")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}
