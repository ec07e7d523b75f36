package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/models"
)

// fakeClient satisfies embeddings.EmbedderClient
type fakeClient struct {
	failures int
	calls    int
}

func (f *fakeClient) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("transient API error")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	return out, nil
}

func TestGenerateEmbeddings_AlignedWithChunks(t *testing.T) {
	embedder, err := NewEmbedder(&fakeClient{})
	if err != nil {
		t.Fatalf("failed to create embedder: %v", err)
	}

	chunks := []models.Chunk{
		{Content: "ab"},
		{Content: "abcd"},
		{Content: "abcdef"},
	}
	vectors, err := GenerateEmbeddings(context.Background(), embedder, chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != len(chunks) {
		t.Fatalf("expected %d vectors, got %d", len(chunks), len(vectors))
	}
	for i, chunk := range chunks {
		if vectors[i][0] != float32(len(chunk.Content)) {
			t.Errorf("vector %d not aligned with its chunk", i)
		}
	}
}

func TestGenerateEmbeddings_NoChunks(t *testing.T) {
	embedder, err := NewEmbedder(&fakeClient{})
	if err != nil {
		t.Fatalf("failed to create embedder: %v", err)
	}
	vectors, err := GenerateEmbeddings(context.Background(), embedder, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vectors != nil {
		t.Fatalf("expected nil vectors for no chunks, got %d", len(vectors))
	}
}

func TestEmbedQuery_RetriesTransientFailures(t *testing.T) {
	client := &fakeClient{failures: 2}
	embedder, err := NewEmbedder(client)
	if err != nil {
		t.Fatalf("failed to create embedder: %v", err)
	}

	vector, err := EmbedQuery(context.Background(), embedder, "question")
	if err != nil {
		t.Fatalf("expected retries to recover, got error: %v", err)
	}
	if len(vector) == 0 {
		t.Fatal("expected a vector")
	}
	if client.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", client.calls)
	}
}

func TestEmbedQuery_GivesUpAfterRetries(t *testing.T) {
	client := &fakeClient{failures: 100}
	embedder, err := NewEmbedder(client)
	if err != nil {
		t.Fatalf("failed to create embedder: %v", err)
	}

	if _, err := EmbedQuery(context.Background(), embedder, "question"); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if client.calls != embedRetries+1 {
		t.Errorf("expected %d attempts, got %d", embedRetries+1, client.calls)
	}
}
