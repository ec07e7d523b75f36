package llmservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/config"
)

// NewGoogleClient builds the Gemini client used for both chat completion
// and embedding generation
func NewGoogleClient(ctx context.Context, cfg *config.GoogleConfig) (*googleai.GoogleAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("google api key is required, set GOOGLE_API_KEY")
	}

	log.Debug().
		Str("chat_model", cfg.ChatModel).
		Str("embedding_model", cfg.EmbeddingModel).
		Msg("Initializing Google client")

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.ChatModel),
		googleai.WithDefaultEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize google client: %v", err)
	}
	return llm, nil
}

// GenerateContent runs a single-prompt completion
func GenerateContent(ctx context.Context, llm llms.Model, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, llm, prompt, opts...)
}

// GenerateContentStream runs a completion, forwarding chunks to fn as they
// arrive, and returns the full response
func GenerateContentStream(ctx context.Context, llm llms.Model, prompt string, fn func(chunk []byte)) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, llm, prompt,
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			fn(chunk)
			return nil
		}))
}
