package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/chromemdb"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/config"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/embedding"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/helper"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/llmservice"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/models"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/parser"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	dataPath := flag.String("data", "", "Source document directory (overrides config)")
	dryRun := flag.Bool("dry-run", false, "Parse and chunk only, do not embed or save")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}

	createVectorDB(context.Background(), cfg, *dryRun)
}

// createVectorDB rebuilds the vector database from the source documents
func createVectorDB(ctx context.Context, cfg *config.Config, dryRun bool) {
	files, err := collectFiles(cfg.DataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error scanning source directory")
	}
	if len(files) == 0 {
		log.Fatal().Str("path", cfg.DataPath).Msg("No supported documents found")
	}
	log.Info().Int("files", len(files)).Msg("Found source documents")

	var chunks []models.Chunk
	for _, file := range files {
		log.Info().Str("file", filepath.Base(file)).Msg("Loading")
		fileChunks, err := parser.Parse(file, cfg)
		if err != nil {
			log.Error().Err(err).Str("file", file).Msg("Error parsing document")
			continue
		}
		chunks = append(chunks, fileChunks...)
	}
	log.Info().Int("files", len(files)).Int("chunks", len(chunks)).Msg("Split documents into chunks")

	if dryRun {
		helper.PrettyPrint(chunks)
		return
	}

	llm, err := llmservice.NewGoogleClient(ctx, &cfg.Google)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing Google client")
	}
	embedder, err := embedding.NewEmbedder(llm)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating embedder")
	}

	vectors, err := embedding.GenerateEmbeddings(ctx, embedder, chunks)
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating embeddings")
	}

	if err := helper.CreateFolder(cfg.VectorDB.Path); err != nil {
		log.Fatal().Err(err).Msg("Error creating vector database folder")
	}

	store, err := chromemdb.NewVectorDBManager(cfg.VectorDB.Path, cfg.VectorDB.Collection, cfg.VectorDB.InMemory, cfg.VectorDB.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating vector database manager")
	}
	if _, err := store.GetOrCreateCollection(cfg.VectorDB.Collection); err != nil {
		log.Fatal().Err(err).Msg("Error creating collection")
	}

	// clear previous db, then save the new one
	if err := store.Reset(); err != nil {
		log.Fatal().Err(err).Msg("Error clearing collection")
	}

	log.Info().Int("chunks", len(chunks)).Msg("Adding chunks to vector database")
	if err := store.AddChunks(ctx, chunks, vectors); err != nil {
		log.Fatal().Err(err).Msg("Error adding chunks to vector database")
	}

	if cfg.VectorDB.InMemory {
		if err := store.Export(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error exporting collection")
		}
	}

	log.Info().Int("chunks", len(chunks)).Str("path", cfg.VectorDB.Path).Msg("Saved chunks")
}

func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if parser.SupportedExt(filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
