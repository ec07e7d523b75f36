package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/chromemdb"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/config"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/embedding"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/llmservice"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/models"
)

// NoResultsMessage is returned when retrieval comes back empty; no LLM call
// is made in that case
const NoResultsMessage = "I couldn't find relevant information in the documents to answer your question. Could you try rephrasing it or asking about a different topic?"

type RAG struct {
	store    *chromemdb.VectorDBManager
	embedder *embeddings.EmbedderImpl
	llm      llms.Model
	cfg      *config.Config
}

func NewRAG(store *chromemdb.VectorDBManager, embedder *embeddings.EmbedderImpl, llm llms.Model, cfg *config.Config) *RAG {
	return &RAG{store: store, embedder: embedder, llm: llm, cfg: cfg}
}

// Search embeds the question and retrieves the top-k nearest chunks,
// relevance-descending
func (r *RAG) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	queryEmbedding, err := embedding.EmbedQuery(ctx, r.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %v", err)
	}
	results, err := r.store.Search(ctx, queryEmbedding, r.cfg.RAG.TopK, r.cfg.RAG.MinScore)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("results", len(results)).Msg("Retrieved chunks")
	return results, nil
}

// Answer runs the full pipeline: retrieve, assemble context, generate
func (r *RAG) Answer(ctx context.Context, query string) (*models.PromptResponse, error) {
	return r.answer(ctx, query, nil)
}

// AnswerStream is Answer with the generated text forwarded to fn as it arrives
func (r *RAG) AnswerStream(ctx context.Context, query string, fn func(chunk []byte)) (*models.PromptResponse, error) {
	return r.answer(ctx, query, fn)
}

func (r *RAG) answer(ctx context.Context, query string, fn func(chunk []byte)) (*models.PromptResponse, error) {
	results, err := r.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		if fn != nil {
			fn([]byte(NoResultsMessage))
		}
		return &models.PromptResponse{Query: query, Content: NoResultsMessage}, nil
	}

	prompt := fmt.Sprintf(models.AnswerPromptTemplate, BuildContext(results), query)

	var content string
	if fn != nil {
		content, err = llmservice.GenerateContentStream(ctx, r.llm, prompt, fn)
	} else {
		content, err = llmservice.GenerateContent(ctx, r.llm, prompt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %v", err)
	}

	return &models.PromptResponse{
		Query:   query,
		Content: strings.TrimSpace(content),
		Sources: results,
	}, nil
}

// BuildContext formats retrieved chunks into the prompt context block. Every
// chunk is preceded by its source file and page so the model can cite them.
func BuildContext(results []models.SearchResult) string {
	parts := make([]string, 0, len(results))
	for _, res := range results {
		sourceInfo := fmt.Sprintf("Source: %s, Page: %d", res.Chunk.SourceFile, res.Chunk.PageNumber)
		parts = append(parts, sourceInfo+"\n"+res.Chunk.Content)
	}
	return strings.Join(parts, models.ContextSeparator)
}
