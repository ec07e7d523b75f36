package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/chromemdb"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/config"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/embedding"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/history"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/llmservice"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/rag"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/server"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

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

	historyStore, err := history.Connect(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to history database")
	}
	defer historyStore.Close()
	if err := historyStore.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error initializing history schema")
	}
	sessionID, err := historyStore.NewSession(ctx, "API session "+time.Now().Format("2006-01-02 15:04"))
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating chat session")
	}

	api := server.New(pipeline, historyStore, sessionID, store.Count)

	log.Info().Str("addr", cfg.Server.Addr).Int("chunks", store.Count()).Msg("Starting API server")
	if err := http.ListenAndServe(cfg.Server.Addr, api.Router()); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
