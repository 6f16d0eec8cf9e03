package repository

import (
	"context"
	"fmt"

	"todo_api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationRepository persists chat history in PostgreSQL
type ConversationRepository struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(ctx context.Context, userID string) (*domain.Conversation, error) {
	c := domain.Conversation{UserID: userID}
	err := r.db.QueryRow(ctx,
		`INSERT INTO conversations (user_id) VALUES ($1) RETURNING id, created_at`,
		userID,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return &c, nil
}

// Get returns the conversation only when it belongs to userID
func (r *ConversationRepository) Get(ctx context.Context, userID string, id int64) (*domain.Conversation, error) {
	var c domain.Conversation
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, created_at FROM conversations WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err, domain.ErrConversationNotFound)
	}
	return &c, nil
}

// Latest returns the most recently created conversation of the user
func (r *ConversationRepository) Latest(ctx context.Context, userID string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, created_at
		 FROM conversations
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err, domain.ErrConversationNotFound)
	}
	return &c, nil
}

// List returns the user's conversations newest first
func (r *ConversationRepository) List(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, created_at
		 FROM conversations
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Conversation, 0)
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, conversationID int64, role domain.Role, content string) (*domain.Message, error) {
	m := domain.Message{ConversationID: conversationID, Role: role, Content: content}
	err := r.db.QueryRow(ctx,
		`INSERT INTO messages (conversation_id, role, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		conversationID, string(role), content,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	return &m, nil
}

// Messages returns the last limit messages in chronological order.
// A non-positive limit returns the whole history.
func (r *ConversationRepository) Messages(ctx context.Context, conversationID int64, limit int) ([]*domain.Message, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.Query(ctx,
			`SELECT id, conversation_id, role, content, created_at FROM (
				SELECT id, conversation_id, role, content, created_at
				FROM messages
				WHERE conversation_id = $1
				ORDER BY id DESC
				LIMIT $2
			 ) recent
			 ORDER BY id`,
			conversationID, limit,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, conversation_id, role, content, created_at
			 FROM messages
			 WHERE conversation_id = $1
			 ORDER BY id`,
			conversationID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		var role string
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		res = append(res, &m)
	}
	return res, rows.Err()
}
