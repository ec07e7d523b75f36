package chromemdb

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/models"
)

// VectorDBManager encapsulates the chromem-go database operations
type VectorDBManager struct {
	db            *chromem.DB
	collection    *chromem.Collection
	dbPath        string
	compress      bool
	encryptionKey string
	filePath      string
}

const compress = false

// NewVectorDBManager initializes a new vector database manager
func NewVectorDBManager(dbPath, collectionName string, inMemory bool, encryptionKey string) (*VectorDBManager, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	return &VectorDBManager{
		db:            db,
		dbPath:        dbPath,
		compress:      compress,
		encryptionKey: encryptionKey,
		filePath:      dbPath + "/" + collectionName + ".chromem",
	}, nil
}

// GetOrCreateCollection opens the named collection, creating it if missing
func (m *VectorDBManager) GetOrCreateCollection(collectionName string) (*chromem.Collection, error) {
	c, err := m.db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}
	m.collection = c
	return c, nil
}

// Reset drops and recreates the collection; ingestion rebuilds from scratch
func (m *VectorDBManager) Reset() error {
	if m.collection == nil {
		return fmt.Errorf("collection is required")
	}
	name := m.collection.Name
	if err := m.db.DeleteCollection(name); err != nil {
		return fmt.Errorf("failed to drop collection: %v", err)
	}
	c, err := m.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %v", err)
	}
	m.collection = c
	return nil
}

// AddChunks stores embedded chunks as documents in the collection
func (m *VectorDBManager) AddChunks(ctx context.Context, chunks []models.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}
	docs := make([]chromem.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, chromem.Document{
			ID:        fmt.Sprintf("%s-p%d-c%d", chunk.SourceFile, chunk.PageNumber, chunk.ChunkID),
			Content:   chunk.Content,
			Metadata:  CreateMetadata(chunk),
			Embedding: embeddings[i],
		})
	}
	err := m.collection.AddDocuments(ctx, docs, runtime.NumCPU())
	if err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	return nil
}

// Search performs a nearest-neighbor lookup by query embedding. Results come
// back in descending similarity order; k is clamped to the collection size.
func (m *VectorDBManager) Search(ctx context.Context, queryEmbedding []float32, k int, minScore float32) ([]models.SearchResult, error) {
	if queryEmbedding == nil {
		return nil, fmt.Errorf("query embedding must be provided")
	}
	count := m.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := m.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}

	searchResults := make([]models.SearchResult, 0, len(results))
	for _, res := range results {
		if res.Similarity < minScore {
			continue
		}
		searchResults = append(searchResults, models.SearchResult{
			Chunk: chunkFromMetadata(res.Content, res.Metadata),
			Score: res.Similarity,
		})
	}
	return searchResults, nil
}

// Count returns the number of stored documents
func (m *VectorDBManager) Count() int {
	if m.collection == nil {
		return 0
	}
	return m.collection.Count()
}

// Export writes the collection to an encrypted file; used with in-memory DBs
func (m *VectorDBManager) Export(ctx context.Context) error {
	if m.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	if m.collection == nil {
		return fmt.Errorf("collection is required")
	}
	err := m.db.ExportToFile(m.filePath, m.compress, m.encryptionKey, m.collection.Name)
	if err != nil {
		return fmt.Errorf("failed to export database: %v", err)
	}
	return nil
}

// Import loads a previously exported collection; in-memory readers must call
// this after opening the collection or they see an empty index
func (m *VectorDBManager) Import(ctx context.Context) error {
	if m.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	if m.collection == nil {
		return fmt.Errorf("collection is required")
	}
	name := m.collection.Name
	if err := m.db.ImportFromFile(m.filePath, m.encryptionKey, name); err != nil {
		return fmt.Errorf("failed to import database: %v", err)
	}
	// the import replaces the collection object, reopen it
	c, err := m.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to reopen collection: %v", err)
	}
	m.collection = c
	return nil
}

// CreateMetadata flattens chunk metadata for storage
func CreateMetadata(chunk models.Chunk) map[string]string {
	return map[string]string{
		"source": chunk.SourceFile,
		"page":   strconv.Itoa(chunk.PageNumber),
		"offset": strconv.Itoa(chunk.StartOffset),
		"chunk":  strconv.Itoa(chunk.ChunkID),
	}
}

func chunkFromMetadata(content string, metadata map[string]string) models.Chunk {
	page, _ := strconv.Atoi(metadata["page"])
	offset, _ := strconv.Atoi(metadata["offset"])
	chunkID, _ := strconv.Atoi(metadata["chunk"])
	return models.Chunk{
		Content:     content,
		SourceFile:  metadata["source"],
		PageNumber:  page,
		StartOffset: offset,
		ChunkID:     chunkID,
	}
}
