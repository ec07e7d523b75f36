package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/chromemdb"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/config"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/embedding"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/helper"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/history"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/llmservice"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/rag"
)

const (
	configFilePath = "./configs/config.yaml"
	previewLength  = 200
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	chat := flag.Bool("chat", false, "Interactive chat loop")
	flag.Parse()

	query := strings.Join(flag.Args(), " ")
	if query == "" && !*chat {
		fmt.Println("Usage: querydb 'your search query here'")
		fmt.Println("Example: querydb 'What is TIPQIC about?'")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()
	pipeline := buildPipeline(ctx, cfg)

	if *chat {
		chatLoop(ctx, pipeline, cfg)
		return
	}

	searchOnly(ctx, pipeline, query)
}

func buildPipeline(ctx context.Context, cfg *config.Config) *rag.RAG {
	store, err := chromemdb.NewVectorDBManager(cfg.VectorDB.Path, cfg.VectorDB.Collection, cfg.VectorDB.InMemory, cfg.VectorDB.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating vector database manager")
	}
	if _, err := store.GetOrCreateCollection(cfg.VectorDB.Collection); err != nil {
		log.Fatal().Err(err).Msg("Error opening collection")
	}
	// in-memory mode reads the exported snapshot from disk
	if cfg.VectorDB.InMemory {
		if err := store.Import(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error importing collection")
		}
	}

	llm, err := llmservice.NewGoogleClient(ctx, &cfg.Google)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing Google client")
	}
	embedder, err := embedding.NewEmbedder(llm)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating embedder")
	}

	return rag.NewRAG(store, embedder, llm, cfg)
}

// searchOnly prints the raw retrieval results without calling the chat model
func searchOnly(ctx context.Context, pipeline *rag.RAG, query string) {
	fmt.Printf("Searching for: '%s'\n", query)

	results, err := pipeline.Search(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error during search")
	}
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Printf("\nFound %d results:\n", len(results))
	fmt.Println(strings.Repeat("-", 50))
	for i, res := range results {
		fmt.Printf("Result %d (Score: %.4f):\n", i+1, res.Score)
		fmt.Printf("Source: %s (Page %d)\n", res.Chunk.SourceFile, res.Chunk.PageNumber)
		fmt.Println("Content:")
		fmt.Println(helper.FormatPreview(res.Chunk.Content, previewLength))
		fmt.Println(strings.Repeat("-", 50))
	}
}

// chatLoop runs an interactive REPL with streamed answers; turns are
// persisted when a history database is configured
func chatLoop(ctx context.Context, pipeline *rag.RAG, cfg *config.Config) {
	store, err := history.Connect(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to history database")
	}
	defer store.Close()
	if err := store.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error initializing history schema")
	}
	sessionID, err := store.NewSession(ctx, "CLI chat "+time.Now().Format("2006-01-02 15:04"))
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating chat session")
	}

	promptColor := color.New(color.FgCyan, color.Bold)
	answerColor := color.New(color.FgGreen)
	sourceColor := color.New(color.FgYellow)

	fmt.Println("Interactive chat. Type 'exit' or 'quit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		promptColor.Print("You: ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answerColor.Print("Assistant: ")
		resp, err := pipeline.AnswerStream(ctx, question, func(chunk []byte) {
			answerColor.Print(string(chunk))
		})
		fmt.Println()
		if err != nil {
			log.Error().Err(err).Msg("Error answering")
			continue
		}

		for i, res := range resp.Sources {
			sourceColor.Printf("%d. %s (Page %d) - Relevance: %.3f\n",
				i+1, filepath.Base(res.Chunk.SourceFile), res.Chunk.PageNumber, res.Score)
		}
		fmt.Println()

		if err := store.AppendMessage(ctx, sessionID, "user", question, nil); err != nil {
			log.Warn().Err(err).Msg("Failed to persist user message")
		}
		if err := store.AppendMessage(ctx, sessionID, "assistant", resp.Content, resp.Sources); err != nil {
			log.Warn().Err(err).Msg("Failed to persist assistant message")
		}
	}
}
