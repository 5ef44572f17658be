package services

import (
	"context"
	"errors"
	"fmt"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"
)

// LikeService maintains the directed like graph.
type LikeService struct {
	likes LikeStore
	users UserStore
}

// NewLikeService creates a new like service
func NewLikeService(likes LikeStore, users UserStore) *LikeService {
	return &LikeService{likes: likes, users: users}
}

// Like records that caller likes target. The edge is created at most
// once and no reciprocal edge is ever materialized; a mutual like is
// derived by querying both directions.
func (s *LikeService) Like(ctx context.Context, callerID, targetID int64) error {
	_, err := s.likes.Get(ctx, callerID, targetID)
	if err == nil {
		return fmt.Errorf("like %d->%d: %w", callerID, targetID, apperr.ErrAlreadyLiked)
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("failed to check existing like: %w", err)
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return fmt.Errorf("like target: %w", err)
	}

	// The store translates a concurrent duplicate insert into
	// ErrAlreadyLiked, so a race between two identical requests still
	// surfaces as the domain conflict.
	return s.likes.Create(ctx, &models.Like{LikerID: callerID, LikeeID: targetID})
}

// Likers returns the ids of everyone who likes the given user.
func (s *LikeService) Likers(ctx context.Context, userID int64) ([]int64, error) {
	return s.likes.LikerIDs(ctx, userID)
}

// Likees returns the ids of everyone the given user likes.
func (s *LikeService) Likees(ctx context.Context, userID int64) ([]int64, error) {
	return s.likes.LikeeIDs(ctx, userID)
}
