package services

import (
	"context"
	"fmt"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"
	"dating-backend/internal/pagination"
	"dating-backend/internal/repository"
)

// MessageService handles private messages between two users.
type MessageService struct {
	messages MessageStore
	users    UserStore
	now      func() time.Time
}

// NewMessageService creates a new message service
func NewMessageService(messages MessageStore, users UserStore) *MessageService {
	return &MessageService{messages: messages, users: users, now: time.Now}
}

// Send creates a message from sender to recipient.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID int64, content string) (*models.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("empty message: %w", apperr.ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		return nil, fmt.Errorf("message recipient: %w", err)
	}

	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		MessageSent: s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Get returns a single message to one of its participants.
func (s *MessageService) Get(ctx context.Context, callerID, id int64) (*models.Message, error) {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != callerID && msg.RecipientID != callerID {
		return nil, fmt.Errorf("message %d: %w", id, apperr.ErrForbidden)
	}
	return msg, nil
}

// Thread returns the conversation between the caller and another user,
// newest first. Visibility follows the caller's own deletion flags
// only: what the other side has deleted on their end stays visible
// here, so the two participants can legitimately see different
// histories.
func (s *MessageService) Thread(ctx context.Context, callerID, otherID int64) ([]models.Message, error) {
	return s.messages.Thread(ctx, callerID, otherID)
}

// List returns one page of the caller's messages for a container.
// Unknown or empty container names fall back to Unread.
func (s *MessageService) List(ctx context.Context, userID int64, container repository.Container, p pagination.Params) (pagination.Page[models.Message], error) {
	page := p.Normalize()
	messages, total, err := s.messages.ListForUser(ctx, repository.MessageFilter{
		UserID:    userID,
		Container: container,
		Limit:     page.PageSize,
		Offset:    page.Offset(),
	})
	if err != nil {
		return pagination.Page[models.Message]{}, err
	}
	return pagination.New(messages, total, page), nil
}

// MarkRead flags a message as read by its recipient. Re-reading an
// already-read message is a no-op; the first read timestamp wins.
func (s *MessageService) MarkRead(ctx context.Context, callerID, id int64) error {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if msg.RecipientID != callerID {
		return fmt.Errorf("message %d read by %d: %w", id, callerID, apperr.ErrForbidden)
	}
	if msg.IsRead {
		return nil
	}
	return s.messages.MarkRead(ctx, id, s.now())
}

// DeleteFor hides a message from the caller's side. Once both sides
// have deleted it the row is physically purged by the store, in the
// same transaction as the flag update. Only the caller's role is
// resolved here; the store merges the flag into the row so a
// concurrent delete by the other side is never overwritten.
func (s *MessageService) DeleteFor(ctx context.Context, callerID, id int64) error {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}

	bySender := msg.SenderID == callerID
	byRecipient := msg.RecipientID == callerID
	if !bySender && !byRecipient {
		return fmt.Errorf("message %d deleted by %d: %w", id, callerID, apperr.ErrForbidden)
	}

	return s.messages.ApplyDeletion(ctx, id, bySender, byRecipient)
}
