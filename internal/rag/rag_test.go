package rag

import (
	"strings"
	"testing"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/models"
)

func TestBuildContext(t *testing.T) {
	results := []models.SearchResult{
		{Chunk: models.Chunk{Content: "first chunk", SourceFile: "report.pdf", PageNumber: 3}, Score: 0.9},
		{Chunk: models.Chunk{Content: "second chunk", SourceFile: "guide.pdf", PageNumber: 12}, Score: 0.7},
	}

	got := BuildContext(results)

	if !strings.Contains(got, "Source: report.pdf, Page: 3\nfirst chunk") {
		t.Errorf("missing labeled first block:\n%s", got)
	}
	if !strings.Contains(got, "Source: guide.pdf, Page: 12\nsecond chunk") {
		t.Errorf("missing labeled second block:\n%s", got)
	}
	if !strings.Contains(got, models.ContextSeparator) {
		t.Errorf("blocks not joined by separator:\n%s", got)
	}
	if strings.Index(got, "first chunk") > strings.Index(got, "second chunk") {
		t.Error("context blocks out of relevance order")
	}
}

func TestBuildContext_Empty(t *testing.T) {
	if got := BuildContext(nil); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
}

func TestParseTaskList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain json",
			input: `{"tasks": ["review data", "schedule meeting"]}`,
			want:  []string{"review data", "schedule meeting"},
		},
		{
			name:  "fenced json",
			input: "```json\n{\"tasks\": [\"review data\"]}\n```",
			want:  []string{"review data"},
		},
		{
			name:  "think tag prefix",
			input: "<think>some reasoning here</think>{\"tasks\": [\"one task\"]}",
			want:  []string{"one task"},
		},
		{
			name:  "surrounding prose",
			input: "Here are the tasks:\n{\"tasks\": [\"a\", \"b\"]}\nHope this helps!",
			want:  []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTaskList(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got.Tasks) != len(tt.want) {
				t.Fatalf("expected %d tasks, got %d", len(tt.want), len(got.Tasks))
			}
			for i := range tt.want {
				if got.Tasks[i] != tt.want[i] {
					t.Errorf("task %d: expected %q, got %q", i, tt.want[i], got.Tasks[i])
				}
			}
		})
	}
}

func TestParseTaskList_Invalid(t *testing.T) {
	if _, err := ParseTaskList("no json here at all"); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
}

func TestParsePromptType(t *testing.T) {
	tests := []struct {
		input string
		want  models.PromptType
	}{
		{"task", models.PromptTask},
		{"Task\n", models.PromptTask},
		{"normal", models.PromptNormal},
		{"NORMAL", models.PromptNormal},
		{"<think>hmm</think>task", models.PromptTask},
		{"task.", models.PromptTask},
		{"this is not a task, it is normal", models.PromptNormal},
		{"the query asks for an action plan, so: task", models.PromptTask},
		{"something unexpected", models.PromptNormal},
		{"", models.PromptNormal},
	}
	for _, tt := range tests {
		if got := ParsePromptType(tt.input); got != tt.want {
			t.Errorf("ParsePromptType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCleanModelOutput(t *testing.T) {
	input := "<think>\nreasoning\n</think>\n```json\n{\"tasks\": []}\n```"
	got := CleanModelOutput(input)
	if got != `{"tasks": []}` {
		t.Errorf("expected cleaned JSON, got %q", got)
	}
}
