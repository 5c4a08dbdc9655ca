package store

import (
	"database/sql"

	_ "github.com/glebarez/go-sqlite"
	"github.com/tmc/langchaingo/llms"
)

// TranscriptStore keeps per-chat conversation history for the default chat
// workflow. Debate runs never read it: each debate request owns a fresh
// in-memory blackboard instead.
type TranscriptStore struct {
	DB *sql.DB
}

func NewTranscriptStore(dbPath string) (*TranscriptStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	query := `CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id TEXT,
		role TEXT,
		content TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(query); err != nil {
		return nil, err
	}

	return &TranscriptStore{DB: db}, nil
}

func (s *TranscriptStore) AddMessage(chatID string, role string, content string) error {
	query := `INSERT INTO messages (chat_id, role, content) VALUES (?, ?, ?)`
	_, err := s.DB.Exec(query, chatID, role, content)
	return err
}

// GetHistory returns the newest `limit` messages for a chat in
// chronological order, converted to langchaingo message types.
func (s *TranscriptStore) GetHistory(chatID string, limit int) ([]llms.MessageContent, error) {
	// id breaks timestamp ties for messages inserted within the same second
	query := `SELECT role, content FROM messages WHERE chat_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`
	rows, err := s.DB.Query(query, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []llms.MessageContent
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, err
		}

		var msgRole llms.ChatMessageType
		switch role {
		case "human", "user":
			msgRole = llms.ChatMessageTypeHuman
		case "ai", "assistant":
			msgRole = llms.ChatMessageTypeAI
		case "system":
			msgRole = llms.ChatMessageTypeSystem
		default:
			msgRole = llms.ChatMessageTypeHuman
		}

		history = append(history, llms.MessageContent{
			Role: msgRole,
			Parts: []llms.ContentPart{
				llms.TextPart(content),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to get chronological order
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	return history, nil
}

func (s *TranscriptStore) Close() error {
	return s.DB.Close()
}
