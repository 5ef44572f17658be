package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Container selects which of a user's messages to list.
type Container string

const (
	ContainerInbox  Container = "Inbox"
	ContainerOutbox Container = "Outbox"
	ContainerUnread Container = "Unread"
)

// MessageFilter selects one user's messages by role and read state.
type MessageFilter struct {
	UserID    int64
	Container Container
	Limit     int
	Offset    int
}

func (f MessageFilter) where() string {
	switch f.Container {
	case ContainerInbox:
		return `WHERE recipient_id = $1 AND recipient_deleted = FALSE`
	case ContainerOutbox:
		return `WHERE sender_id = $1 AND sender_deleted = FALSE`
	default:
		return `WHERE recipient_id = $1 AND recipient_deleted = FALSE AND is_read = FALSE`
	}
}

const messageColumns = `id, sender_id, recipient_id, content, is_read,
		date_read, message_sent, sender_deleted, recipient_deleted`

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(
		&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.IsRead,
		&m.DateRead, &m.MessageSent, &m.SenderDeleted, &m.RecipientDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new message and fills in the generated id.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, recipient_id, content, is_read,
			message_sent, sender_deleted, recipient_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		msg.SenderID, msg.RecipientID, msg.Content, msg.IsRead,
		msg.MessageSent, msg.SenderDeleted, msg.RecipientDeleted,
	).Scan(&msg.ID)
	if err != nil {
		return storageErr("failed to create message", err)
	}
	return nil
}

// GetByID retrieves a message by id
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	msg, err := scanMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
		}
		return nil, storageErr("failed to get message", err)
	}
	return msg, nil
}

// Thread returns the conversation between two users as seen by userID,
// newest first. A message is visible to userID only while userID's own
// deleted flag for their role in it is clear; the other side's flag
// never affects this view.
func (r *MessageRepository) Thread(ctx context.Context, userID, otherID int64) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE (recipient_id = $1 AND sender_id = $2 AND recipient_deleted = FALSE)
		   OR (recipient_id = $2 AND sender_id = $1 AND sender_deleted = FALSE)
		ORDER BY message_sent DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID, otherID)
	if err != nil {
		return nil, storageErr("failed to get thread", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, storageErr("failed to scan message", err)
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("error iterating thread", err)
	}
	return messages, nil
}

// ListForUser runs the container-filtered listing. Count and fetch
// share the same WHERE clause.
func (r *MessageRepository) ListForUser(ctx context.Context, f MessageFilter) ([]models.Message, int, error) {
	where := f.where()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages `+where, f.UserID).Scan(&total); err != nil {
		return nil, 0, storageErr("failed to count messages", err)
	}

	query := `SELECT ` + messageColumns + ` FROM messages ` + where + `
		ORDER BY message_sent DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, f.UserID, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, storageErr("failed to list messages", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, storageErr("failed to scan message", err)
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("error iterating messages", err)
	}

	return messages, total, nil
}

// MarkRead sets the read flag and timestamp. Already-read messages are
// left untouched so the first read timestamp wins.
func (r *MessageRepository) MarkRead(ctx context.Context, id int64, readAt time.Time) error {
	query := `UPDATE messages SET is_read = TRUE, date_read = $1 WHERE id = $2 AND is_read = FALSE`
	if _, err := r.db.Exec(ctx, query, readAt, id); err != nil {
		return storageErr("failed to mark message read", err)
	}
	return nil
}

// ApplyDeletion ORs the actor's deleted flags into the row and, in the
// same transaction, purges it once both sides have deleted. The merge
// happens inside the UPDATE itself: flags computed from an earlier read
// would let two concurrent one-sided deletes overwrite each other and
// miss the purge.
func (r *MessageRepository) ApplyDeletion(ctx context.Context, id int64, bySender, byRecipient bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storageErr("failed to begin message deletion", err)
	}
	defer tx.Rollback(ctx)

	update := `
		UPDATE messages
		SET sender_deleted = sender_deleted OR $1,
			recipient_deleted = recipient_deleted OR $2
		WHERE id = $3`
	tag, err := tx.Exec(ctx, update, bySender, byRecipient, id)
	if err != nil {
		return storageErr("failed to update message flags", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
	}

	purge := `DELETE FROM messages WHERE id = $1 AND sender_deleted AND recipient_deleted`
	if _, err := tx.Exec(ctx, purge, id); err != nil {
		return storageErr("failed to purge message", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("failed to commit message deletion", err)
	}
	return nil
}
