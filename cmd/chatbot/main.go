package main

import (
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
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/history"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/llmservice"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/models"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/rag"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

	query := strings.Join(flag.Args(), " ")
	if query == "" {
		fmt.Println("Usage: chatbot 'your search query here'")
		fmt.Println("Example: chatbot 'What is TIPQIC about?'")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()

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

	pipeline := rag.NewRAG(store, embedder, llm, cfg)

	fmt.Printf("Question: %s\n", query)
	fmt.Println(strings.Repeat("=", 60))

	// route the question: task-style prompts get a structured task list
	switch pipeline.ClassifyPrompt(ctx, query) {
	case models.PromptTask:
		runTasks(ctx, pipeline, cfg, query)
	default:
		runAnswer(ctx, pipeline, query)
	}
}

func runAnswer(ctx context.Context, pipeline *rag.RAG, query string) {
	resp, err := pipeline.Answer(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error during search")
	}

	if len(resp.Sources) == 0 {
		fmt.Println("No relevant documents found in the database.")
		fmt.Println("Try rephrasing your question or check if the documents are properly indexed.")
		return
	}

	color.New(color.FgGreen, color.Bold).Println("Response:")
	fmt.Println(resp.Content)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	printSources(resp.Sources)
}

func runTasks(ctx context.Context, pipeline *rag.RAG, cfg *config.Config, query string) {
	tasks, sources, err := pipeline.GenerateTasks(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating tasks")
	}

	if len(sources) == 0 {
		fmt.Println("No relevant documents found in the database.")
		fmt.Println("Try rephrasing your question or check if the documents are properly indexed.")
		return
	}

	color.New(color.FgGreen, color.Bold).Println("Tasks:")
	for i, task := range tasks.Tasks {
		fmt.Printf("%d. %s\n", i+1, task)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	printSources(sources)

	saveTasks(ctx, cfg, tasks)
}

// saveTasks persists the generated list when a history database is configured
func saveTasks(ctx context.Context, cfg *config.Config, tasks *models.TaskList) {
	store, err := history.Connect(&cfg.Database)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to history database")
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	if err := store.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize history schema")
		return
	}
	sessionID, err := store.NewSession(ctx, "Task generation "+time.Now().Format("2006-01-02 15:04"))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create chat session")
		return
	}
	if err := store.SaveTasks(ctx, sessionID, tasks); err != nil {
		log.Warn().Err(err).Msg("Failed to persist tasks")
	}
}

func printSources(sources []models.SearchResult) {
	if len(sources) == 0 {
		return
	}
	color.New(color.FgYellow).Println("Sources used:")
	for i, res := range sources {
		fmt.Printf("%d. %s (Page %d) - Relevance: %.3f\n",
			i+1, filepath.Base(res.Chunk.SourceFile), res.Chunk.PageNumber, res.Score)
	}
}
