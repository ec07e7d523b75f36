package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type GoogleConfig struct {
	APIKey         string `yaml:"api_key"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

type RAGConfig struct {
	ChunkSize    int     `yaml:"chunk_size"`
	ChunkOverlap int     `yaml:"chunk_overlap"`
	TopK         int     `yaml:"top_k"`
	MinScore     float32 `yaml:"min_score"`
}

type VectorDBConfig struct {
	Path          string `yaml:"path"`
	Collection    string `yaml:"collection"`
	InMemory      bool   `yaml:"in_memory"`
	EncryptionKey string `yaml:"encryption_key"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	DataPath string         `yaml:"data_path"`
	Google   GoogleConfig   `yaml:"google"`
	RAG      RAGConfig      `yaml:"rag"`
	VectorDB VectorDBConfig `yaml:"vector_db"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
}

const (
	DefaultChunkSize    = 300
	DefaultChunkOverlap = 100
	DefaultTopK         = 5
)

func LoadConfig(path string) (*Config, error) {
	// .env is optional; the API key usually lives there
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.Google.APIKey = key
	}
	if c.Google.ChatModel == "" {
		c.Google.ChatModel = "gemini-2.0-flash"
	}
	if c.Google.EmbeddingModel == "" {
		c.Google.EmbeddingModel = "text-embedding-004"
	}
	if c.RAG.ChunkSize <= 0 {
		c.RAG.ChunkSize = DefaultChunkSize
	}
	if c.RAG.ChunkOverlap <= 0 {
		c.RAG.ChunkOverlap = DefaultChunkOverlap
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = DefaultTopK
	}
	if c.DataPath == "" {
		c.DataPath = "./data/sources"
	}
	if c.VectorDB.Path == "" {
		c.VectorDB.Path = "./chroma"
	}
	if c.VectorDB.Collection == "" {
		c.VectorDB.Collection = "tipqic_docs"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
}
