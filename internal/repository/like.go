package repository

import (
	"context"
	"errors"
	"fmt"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for a duplicate key.
const uniqueViolation = "23505"

// LikeRepository handles database operations for like edges
type LikeRepository struct {
	db *pgxpool.Pool
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{db: db}
}

// Get retrieves the directed edge liker -> likee, or ErrNotFound.
func (r *LikeRepository) Get(ctx context.Context, likerID, likeeID int64) (*models.Like, error) {
	query := `SELECT liker_id, likee_id FROM likes WHERE liker_id = $1 AND likee_id = $2`
	var like models.Like
	err := r.db.QueryRow(ctx, query, likerID, likeeID).Scan(&like.LikerID, &like.LikeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("like %d->%d: %w", likerID, likeeID, apperr.ErrNotFound)
		}
		return nil, storageErr("failed to get like", err)
	}
	return &like, nil
}

// Create inserts the directed edge. Two concurrent identical requests
// race on the primary key; the loser's unique violation is translated
// to ErrAlreadyLiked rather than surfacing as a storage fault.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `INSERT INTO likes (liker_id, likee_id) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, like.LikerID, like.LikeeID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("like %d->%d: %w", like.LikerID, like.LikeeID, apperr.ErrAlreadyLiked)
		}
		return storageErr("failed to create like", err)
	}
	return nil
}

// LikerIDs returns the ids of everyone who likes the given user.
func (r *LikeRepository) LikerIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT liker_id FROM likes WHERE likee_id = $1`
	return r.queryIDs(ctx, query, userID, "failed to get likers")
}

// LikeeIDs returns the ids of everyone the given user likes.
func (r *LikeRepository) LikeeIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT likee_id FROM likes WHERE liker_id = $1`
	return r.queryIDs(ctx, query, userID, "failed to get likees")
}

func (r *LikeRepository) queryIDs(ctx context.Context, query string, userID int64, msg string) ([]int64, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, storageErr(msg, err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr(msg, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(msg, err)
	}
	return ids, nil
}
