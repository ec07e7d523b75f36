package models

// Chunk represents a parsed chunk with metadata
type Chunk struct {
	Content     string
	SourceFile  string
	PageNumber  int
	StartOffset int
	ChunkID     int
}

// SearchResult pairs a retrieved chunk with its relevance score
type SearchResult struct {
	Chunk Chunk
	Score float32
}

type PromptResponse struct {
	Query   string
	Content string
	Sources []SearchResult
}

// TaskList is the structured output of the task-generation prompt
type TaskList struct {
	Tasks []string `json:"tasks"`
}

// PromptType classifies a question as a conversational request or a
// request for actionable tasks
type PromptType string

const (
	PromptNormal PromptType = "normal"
	PromptTask   PromptType = "task"
)
