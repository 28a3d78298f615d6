package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	"github.com/swisscockpit/kmu-cockpit/internal/models"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/mapping"
)

const conversationColumns = `conversation_id, company_id, user_id, title, summary, topics, created_at, last_updated_at`

type PgxConversationRepository struct {
	BaseRepository
}

// newPgxConversationRepository creates a new repository for chat conversations.
func newPgxConversationRepository(pool *pgxpool.Pool) portsrepo.ConversationRepository {
	return &PgxConversationRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxConversationRepository implements portsrepo.ConversationRepository
var _ portsrepo.ConversationRepository = (*PgxConversationRepository)(nil)

func scanConversation(row pgx.Row) (models.Conversation, error) {
	var m models.Conversation
	err := row.Scan(
		&m.ConversationID,
		&m.CompanyID,
		&m.UserID,
		&m.Title,
		&m.Summary,
		&m.Topics,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveConversation persists a new conversation.
func (r *PgxConversationRepository) SaveConversation(ctx context.Context, conversation domain.Conversation) error {
	query := `
		INSERT INTO conversations (` + conversationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		conversation.ConversationID, conversation.CompanyID, conversation.UserID,
		conversation.Title, conversation.Summary, conversation.Topics,
		conversation.CreatedAt, conversation.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation %s: %w", conversation.ConversationID, err)
	}
	return nil
}

// FindConversationByID retrieves a conversation within a company.
func (r *PgxConversationRepository) FindConversationByID(ctx context.Context, companyID string, conversationID string) (*domain.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE company_id = $1 AND conversation_id = $2;
	`
	m, err := scanConversation(r.Pool.QueryRow(ctx, query, companyID, conversationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find conversation by ID %s: %w", conversationID, err)
	}

	conversation := mapping.ToDomainConversation(m)
	return &conversation, nil
}

// ListConversations retrieves a user's conversations in a company, newest
// first.
func (r *PgxConversationRepository) ListConversations(ctx context.Context, companyID string, userID string) ([]domain.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE company_id = $1 AND user_id = $2
		ORDER BY last_updated_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	conversations := []domain.Conversation{}
	for rows.Next() {
		m, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		conversations = append(conversations, mapping.ToDomainConversation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return conversations, nil
}

// UpdateConversationMeta back-fills the generated summary and topics.
func (r *PgxConversationRepository) UpdateConversationMeta(ctx context.Context, conversationID string, summary string, topics []string, updatedAt time.Time) error {
	query := `
		UPDATE conversations
		SET summary = $2, topics = $3, last_updated_at = $4
		WHERE conversation_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, conversationID, summary, topics, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update meta of conversation %s: %w", conversationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveMessage appends a message to a conversation and bumps the parent's
// last_updated_at.
func (r *PgxConversationRepository) SaveMessage(ctx context.Context, message domain.Message) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	messageQuery := `
		INSERT INTO messages (message_id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err = tx.Exec(ctx, messageQuery,
		message.MessageID, message.ConversationID, string(message.Role), message.Content, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save message %s: %w", message.MessageID, err)
	}

	bumpQuery := `UPDATE conversations SET last_updated_at = $2 WHERE conversation_id = $1;`
	if _, err := tx.Exec(ctx, bumpQuery, message.ConversationID, message.CreatedAt); err != nil {
		return fmt.Errorf("failed to bump conversation %s: %w", message.ConversationID, err)
	}

	return r.Commit(ctx, tx)
}

// ListMessages returns a conversation's messages in chronological order,
// newest last. limit <= 0 returns all.
func (r *PgxConversationRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	// The inner query takes the newest rows, the outer restores order.
	query := `
		SELECT message_id, conversation_id, role, content, created_at
		FROM (
			SELECT message_id, conversation_id, role, content, created_at
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at;
	`
	var limitArg interface{}
	if limit > 0 {
		limitArg = limit
	}

	rows, err := r.Pool.Query(ctx, query, conversationID, limitArg)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages of conversation %s: %w", conversationID, err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.MessageID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, mapping.ToDomainMessage(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}
