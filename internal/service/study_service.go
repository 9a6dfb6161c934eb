package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"study-buddy/internal/domain"
	"study-buddy/internal/llm"
)

const (
	defaultExplainStyle   = "In a simple paragraph"
	defaultSummaryLength  = "A short paragraph"
	defaultQuizQuestions  = 5
	defaultFlashcardCount = 5
	minQuizQuestions      = 3
	maxQuizQuestions      = 10
	minFlashcardCount     = 3
	maxFlashcardCount     = 15
)

// systemPrompts steer the model per tool.
var systemPrompts = map[domain.Tool]string{
	domain.ToolExplain:    "You are an expert educator and study assistant. Your goal is to explain complex topics to students in a clear, simple, and engaging way. Use analogies and simple language. Format your response using Markdown.",
	domain.ToolSummarize:  "You are an expert summarizer. Your goal is to condense study notes or long texts into key points for students. You must be concise and accurate. Format your response using Markdown.",
	domain.ToolQuiz:       "You are an expert quiz master. Your goal is to create quizzes for students based on a topic or their notes. Create multiple-choice questions with a clear answer key at the end. Format your response using Markdown.",
	domain.ToolFlashcards: "You are an expert flashcard creator. Your goal is to generate flashcards from a given topic or notes. Each flashcard should have a 'Term' and a 'Definition'. Format the output clearly using Markdown, with each flashcard separated by a horizontal rule (---).",
}

// ToolResult is one completed tool invocation. HistorySaved is false when the
// history write failed; the generated output is still returned to the caller.
type ToolResult struct {
	Interaction  domain.Interaction
	HistorySaved bool
}

// StudyService formats prompt templates per tool, delegates to the inference
// client, and logs each interaction to per-user history.
type StudyService interface {
	Explain(ctx context.Context, username, topic, style string) (*ToolResult, error)
	Summarize(ctx context.Context, username, notes, length string) (*ToolResult, error)
	Quiz(ctx context.Context, username, material string, questions int) (*ToolResult, error)
	Flashcards(ctx context.Context, username, material string, count int) (*ToolResult, error)
}

type studyService struct {
	llm         llm.Client
	history     HistoryService
	maxTokens   int
	temperature float32
	logger      *logrus.Logger
}

func NewStudyService(client llm.Client, history HistoryService, maxTokens int, temperature float32, logger *logrus.Logger) StudyService {
	return &studyService{
		llm:         client,
		history:     history,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (s *studyService) Explain(ctx context.Context, username, topic, style string) (*ToolResult, error) {
	if topic == "" {
		return nil, errors.New("topic is required")
	}
	if style == "" {
		style = defaultExplainStyle
	}
	prompt := fmt.Sprintf("Explain the topic: '%s' in the style of '%s'.", topic, style)
	return s.run(ctx, username, domain.ToolExplain, topic, prompt)
}

func (s *studyService) Summarize(ctx context.Context, username, notes, length string) (*ToolResult, error) {
	if notes == "" {
		return nil, errors.New("notes are required")
	}
	if length == "" {
		length = defaultSummaryLength
	}
	prompt := fmt.Sprintf("Summarize the following text into '%s':\n\n%s", length, notes)
	return s.run(ctx, username, domain.ToolSummarize, notes, prompt)
}

func (s *studyService) Quiz(ctx context.Context, username, material string, questions int) (*ToolResult, error) {
	if material == "" {
		return nil, errors.New("quiz topic or notes are required")
	}
	questions = clamp(questions, minQuizQuestions, maxQuizQuestions, defaultQuizQuestions)
	prompt := fmt.Sprintf("Generate a quiz with %d multiple-choice questions based on the following information:\n\n%s\n\nProvide an answer key at the very end, clearly separated from the questions.", questions, material)
	return s.run(ctx, username, domain.ToolQuiz, material, prompt)
}

func (s *studyService) Flashcards(ctx context.Context, username, material string, count int) (*ToolResult, error) {
	if material == "" {
		return nil, errors.New("flashcard topic or notes are required")
	}
	count = clamp(count, minFlashcardCount, maxFlashcardCount, defaultFlashcardCount)
	prompt := fmt.Sprintf("Generate %d flashcards from the following information. For each flashcard, provide a 'Term' and a 'Definition'.\n\nInformation:\n%s", count, material)
	return s.run(ctx, username, domain.ToolFlashcards, material, prompt)
}

func (s *studyService) run(ctx context.Context, username string, tool domain.Tool, input, prompt string) (*ToolResult, error) {
	output, err := s.llm.Generate(ctx, llm.GenerateRequest{
		System:      systemPrompts[tool],
		Prompt:      prompt,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return nil, err
	}

	interaction := domain.Interaction{
		ID:        uuid.NewString(),
		Username:  username,
		Tool:      tool,
		Input:     input,
		Output:    output,
		CreatedAt: time.Now().UTC(),
	}

	result := &ToolResult{Interaction: interaction, HistorySaved: true}

	// A failed history write must not lose the generated output.
	if err := s.history.Record(ctx, &interaction); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"username": username,
			"tool":     tool,
		}).Warn("failed to record interaction")
		result.HistorySaved = false
	}

	return result, nil
}

func clamp(n, min, max, def int) int {
	if n == 0 {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
