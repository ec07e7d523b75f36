package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/llmservice"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/models"
)

var (
	thinkTagRe  = regexp.MustCompile(models.ThinkTag)
	codeFenceRe = regexp.MustCompile(models.CodeFence)
)

// ClassifyPrompt decides whether the question asks for a conversational
// answer or an actionable task list. Classification failures default to
// normal.
func (r *RAG) ClassifyPrompt(ctx context.Context, query string) models.PromptType {
	prompt := fmt.Sprintf(models.ClassifyPromptTemplate, query)
	content, err := llmservice.GenerateContent(ctx, r.llm, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Prompt classification failed, defaulting to normal")
		return models.PromptNormal
	}
	return ParsePromptType(content)
}

// GenerateTasks produces a structured task list from the question and its
// retrieved context
func (r *RAG) GenerateTasks(ctx context.Context, query string) (*models.TaskList, []models.SearchResult, error) {
	results, err := r.Search(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	// no retrieved context means nothing to ground tasks in; skip the LLM call
	if len(results) == 0 {
		return &models.TaskList{}, nil, nil
	}

	prompt := fmt.Sprintf(models.TasksPromptTemplate, BuildContext(results), query)
	content, err := llmservice.GenerateContent(ctx, r.llm, prompt, withLowTemperature()...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tasks: %v", err)
	}

	tasks, err := ParseTaskList(content)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse task list: %v", err)
	}
	return tasks, results, nil
}

// lower temperature keeps the structured output consistent
func withLowTemperature() []llms.CallOption {
	return []llms.CallOption{llms.WithTemperature(0.3)}
}

// ParsePromptType normalizes the classification output. The prompt asks for
// a single word, so the first token decides; verbose replies fall back to
// keyword matching, where an explicit "normal" wins over a mentioned "task".
func ParsePromptType(content string) models.PromptType {
	cleaned := strings.ToLower(strings.TrimSpace(CleanModelOutput(content)))
	if fields := strings.Fields(cleaned); len(fields) > 0 {
		switch strings.Trim(fields[0], `.,:;"'`) {
		case string(models.PromptTask):
			return models.PromptTask
		case string(models.PromptNormal):
			return models.PromptNormal
		}
	}
	if strings.Contains(cleaned, string(models.PromptNormal)) {
		return models.PromptNormal
	}
	if strings.Contains(cleaned, string(models.PromptTask)) {
		return models.PromptTask
	}
	return models.PromptNormal
}

// ParseTaskList extracts the JSON task list from raw model output
func ParseTaskList(content string) (*models.TaskList, error) {
	cleaned := CleanModelOutput(content)
	var tasks models.TaskList
	if err := json.Unmarshal([]byte(cleaned), &tasks); err != nil {
		// some models wrap the object in prose; retry on the outermost braces
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, err
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &tasks); err != nil {
			return nil, err
		}
	}
	return &tasks, nil
}

// CleanModelOutput strips reasoning tags and markdown code fences
func CleanModelOutput(content string) string {
	cleaned := thinkTagRe.ReplaceAllString(content, "")
	cleaned = strings.TrimSpace(cleaned)
	if m := codeFenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}
	return strings.TrimSpace(cleaned)
}
