package embedding

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/models"
)

const embedRetries = 3

// NewEmbedder wraps an embedding-capable LLM client, typically the Google
// client from llmservice
func NewEmbedder(client embeddings.EmbedderClient) (*embeddings.EmbedderImpl, error) {
	return embeddings.NewEmbedder(client)
}

// GenerateEmbeddings embeds all chunks in order, retrying transient API
// failures with exponential backoff. The returned slice is index-aligned
// with chunks.
func GenerateEmbeddings(ctx context.Context, embedder *embeddings.EmbedderImpl, chunks []models.Chunk) ([][]float32, error) {
	if len(chunks) == 0 {
		log.Info().Msg("No chunks generated from content")
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	var vectors [][]float32
	op := func() error {
		var err error
		vectors, err = embedder.EmbedDocuments(ctx, texts)
		return err
	}
	if err := backoff.Retry(op, retryPolicy(ctx)); err != nil {
		return nil, err
	}
	return vectors, nil
}

// EmbedQuery embeds a single question for retrieval, with the same retry policy
func EmbedQuery(ctx context.Context, embedder *embeddings.EmbedderImpl, query string) ([]float32, error) {
	var vector []float32
	op := func() error {
		var err error
		vector, err = embedder.EmbedQuery(ctx, query)
		return err
	}
	if err := backoff.Retry(op, retryPolicy(ctx)); err != nil {
		return nil, err
	}
	return vector, nil
}

func retryPolicy(ctx context.Context) backoff.BackOffContext {
	return backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), embedRetries), ctx)
}
