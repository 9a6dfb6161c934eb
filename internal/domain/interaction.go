package domain

import "time"

// Tool identifies which study tool produced an interaction.
type Tool string

const (
	ToolExplain    Tool = "explain"
	ToolSummarize  Tool = "summarize"
	ToolQuiz       Tool = "quiz"
	ToolFlashcards Tool = "flashcards"
)

// Interaction is one logged use of a study tool. Records are append-only and
// immutable; they are read in bulk per username for the history view.
type Interaction struct {
	ID        string
	Username  string
	Tool      Tool
	Input     string
	Output    string
	CreatedAt time.Time
}
