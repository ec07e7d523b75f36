package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/config"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/models"
)

// SourceRef is a citation stored alongside an assistant message
type SourceRef struct {
	Filename string  `json:"filename"`
	Page     int     `json:"page"`
	Score    float32 `json:"score"`
}

type ChatSession struct {
	bun.BaseModel `bun:"table:chat_sessions,alias:cs"`
	ID            string    `bun:"id,pk,type:uuid"`
	SessionName   string    `bun:"session_name,notnull,default:'New Chat'"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp"`
	IsActive      bool      `bun:"is_active,notnull,default:true"`
}

type ChatMessage struct {
	bun.BaseModel `bun:"table:chat_messages,alias:cm"`
	ID            string      `bun:"id,pk,type:uuid"`
	ChatSessionID string      `bun:"chat_session_id,notnull,type:uuid"`
	Role          string      `bun:"role,notnull"`
	Content       string      `bun:"content,notnull"`
	Timestamp     time.Time   `bun:"timestamp,notnull,default:current_timestamp"`
	Sources       []SourceRef `bun:"sources,type:jsonb"`
}

type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`
	ID            string    `bun:"id,pk,type:uuid"`
	ChatSessionID string    `bun:"chat_session_id,notnull,type:uuid"`
	Description   string    `bun:"description,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
	Done          bool      `bun:"done,notnull,default:false"`
}

// Store persists chat sessions, messages, and generated tasks. A nil Store
// is valid and turns every method into a no-op, so callers do not need to
// guard on whether history is configured.
type Store struct {
	db *bun.DB
}

// Connect opens the history database, or returns nil when no DSN is
// configured
func Connect(cfg *config.DatabaseConfig) (*Store, error) {
	if cfg == nil || cfg.DSN == "" {
		return nil, nil
	}
	opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
	if cfg.Password != "" {
		opts = append(opts, pgdriver.WithPassword(cfg.Password))
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Init creates the schema if missing
func (s *Store) Init(ctx context.Context) error {
	if s == nil {
		return nil
	}
	for _, q := range createTableQueries(s.db) {
		if _, err := q.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// createTableQueries declares the schema; messages and tasks reference their
// chat session so rows cannot outlive it
func createTableQueries(db *bun.DB) []*bun.CreateTableQuery {
	const sessionFK = `("chat_session_id") REFERENCES "chat_sessions" ("id") ON DELETE CASCADE`
	return []*bun.CreateTableQuery{
		db.NewCreateTable().Model((*ChatSession)(nil)).IfNotExists(),
		db.NewCreateTable().Model((*ChatMessage)(nil)).IfNotExists().ForeignKey(sessionFK),
		db.NewCreateTable().Model((*Task)(nil)).IfNotExists().ForeignKey(sessionFK),
	}
}

// NewSession creates a chat session and returns its ID
func (s *Store) NewSession(ctx context.Context, name string) (string, error) {
	if s == nil {
		return "", nil
	}
	if name == "" {
		name = "New Chat"
	}
	session := &ChatSession{
		ID:          uuid.NewString(),
		SessionName: name,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
		IsActive:    true,
	}
	if _, err := s.db.NewInsert().Model(session).Exec(ctx); err != nil {
		return "", err
	}
	return session.ID, nil
}

// AppendMessage records one chat turn with its citations
func (s *Store) AppendMessage(ctx context.Context, sessionID, role, content string, sources []models.SearchResult) error {
	if s == nil || sessionID == "" {
		return nil
	}
	msg := &ChatMessage{
		ID:            uuid.NewString(),
		ChatSessionID: sessionID,
		Role:          role,
		Content:       content,
		Timestamp:     time.Now().UTC(),
		Sources:       toSourceRefs(sources),
	}
	if _, err := s.db.NewInsert().Model(msg).Exec(ctx); err != nil {
		return err
	}
	_, err := s.db.NewUpdate().
		Model((*ChatSession)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", sessionID).
		Exec(ctx)
	return err
}

// ListMessages returns a session's messages oldest first
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	if s == nil {
		return nil, nil
	}
	var msgs []ChatMessage
	err := s.db.NewSelect().
		Model(&msgs).
		Where("chat_session_id = ?", sessionID).
		Order("timestamp ASC").
		Scan(ctx)
	return msgs, err
}

// SaveTasks stores a generated task list
func (s *Store) SaveTasks(ctx context.Context, sessionID string, tasks *models.TaskList) error {
	if s == nil || sessionID == "" || tasks == nil || len(tasks.Tasks) == 0 {
		return nil
	}
	rows := make([]Task, 0, len(tasks.Tasks))
	for _, desc := range tasks.Tasks {
		rows = append(rows, Task{
			ID:            uuid.NewString(),
			ChatSessionID: sessionID,
			Description:   desc,
			CreatedAt:     time.Now().UTC(),
		})
	}
	_, err := s.db.NewInsert().Model(&rows).Exec(ctx)
	return err
}

func toSourceRefs(results []models.SearchResult) []SourceRef {
	refs := make([]SourceRef, 0, len(results))
	for _, res := range results {
		refs = append(refs, SourceRef{
			Filename: res.Chunk.SourceFile,
			Page:     res.Chunk.PageNumber,
			Score:    res.Score,
		})
	}
	return refs
}
