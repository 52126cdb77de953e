// repository.go

package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/InnoTechI/skillx-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, message *Message) error
	GetByID(ctx context.Context, id string) (*Message, error)
	ListByOrder(ctx context.Context, params ListMessagesParams) ([]Message, int, error)
	MarkRead(ctx context.Context, orderID, readerID string) (int, error)
	CountUnreadFromClients(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, message *Message) error {
	query := `
		INSERT INTO messages (id, order_id, sender_id, sender_role, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &message.CreatedAt, query,
		message.ID,
		message.OrderID,
		message.SenderID,
		message.SenderRole,
		message.Body,
	)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Message, error) {
	query := `
		SELECT id, order_id, sender_id, sender_role, body, read_at, created_at
		FROM messages
		WHERE id = $1`

	var message Message
	err := r.db.GetContext(ctx, &message, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get message: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}

	return &message, nil
}

// ListByOrder returns one thread oldest first so page 1 is the start
// of the conversation.
func (r *repository) ListByOrder(
	ctx context.Context,
	params ListMessagesParams,
) ([]Message, int, error) {
	params.Normalize()

	countQuery := `SELECT COUNT(*) FROM messages WHERE order_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, params.OrderID); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	query := `
		SELECT id, order_id, sender_id, sender_role, body, read_at, created_at
		FROM messages
		WHERE order_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`

	var messages []Message
	err := r.db.SelectContext(ctx, &messages, query,
		params.OrderID,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}

	return messages, total, nil
}

// MarkRead stamps every unread counterparty message in the thread and
// reports how many were stamped.
func (r *repository) MarkRead(
	ctx context.Context,
	orderID, readerID string,
) (int, error) {
	query := `
		UPDATE messages
		SET read_at = NOW()
		WHERE order_id = $1 AND sender_id <> $2 AND read_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, orderID, readerID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}

	return int(affected), nil
}

// CountUnreadFromClients counts client messages no admin has read.
func (r *repository) CountUnreadFromClients(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM messages
		WHERE sender_role = 'client' AND read_at IS NULL`

	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}

	return count, nil
}
