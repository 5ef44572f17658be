package repository

import (
	"context"
	"errors"
	"fmt"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const photoColumns = `id, user_id, url, public_id, is_main, date_added`

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func scanPhoto(row pgx.Row) (*models.Photo, error) {
	var p models.Photo
	err := row.Scan(&p.ID, &p.UserID, &p.URL, &p.PublicID, &p.IsMain, &p.DateAdded)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new photo and fills in the generated id.
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (user_id, url, public_id, is_main, date_added)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		photo.UserID, photo.URL, photo.PublicID, photo.IsMain, photo.DateAdded,
	).Scan(&photo.ID)
	if err != nil {
		return storageErr("failed to create photo", err)
	}
	return nil
}

// GetByID retrieves a photo by id
func (r *PhotoRepository) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`
	photo, err := scanPhoto(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("photo %d: %w", id, apperr.ErrNotFound)
		}
		return nil, storageErr("failed to get photo", err)
	}
	return photo, nil
}

// MainForUser retrieves the user's current main photo, or ErrNotFound
// when the user has no photos.
func (r *PhotoRepository) MainForUser(ctx context.Context, userID int64) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE user_id = $1 AND is_main`
	photo, err := scanPhoto(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("main photo for user %d: %w", userID, apperr.ErrNotFound)
		}
		return nil, storageErr("failed to get main photo", err)
	}
	return photo, nil
}

// ListForUser returns all of a user's photos, main photo first.
func (r *PhotoRepository) ListForUser(ctx context.Context, userID int64) ([]models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos
		WHERE user_id = $1 ORDER BY is_main DESC, date_added ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, storageErr("failed to list photos", err)
	}
	defer rows.Close()

	photos := []models.Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, storageErr("failed to scan photo", err)
		}
		photos = append(photos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("error iterating photos", err)
	}
	return photos, nil
}

// MainURLs returns the main photo url per user id for the given set of
// users. Users without photos are simply absent from the map.
func (r *PhotoRepository) MainURLs(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	if len(userIDs) == 0 {
		return map[int64]string{}, nil
	}
	query := `SELECT user_id, url FROM photos WHERE is_main AND user_id = ANY($1)`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, storageErr("failed to get main photo urls", err)
	}
	defer rows.Close()

	urls := make(map[int64]string, len(userIDs))
	for rows.Next() {
		var userID int64
		var url string
		if err := rows.Scan(&userID, &url); err != nil {
			return nil, storageErr("failed to scan main photo url", err)
		}
		urls[userID] = url
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("error iterating main photo urls", err)
	}
	return urls, nil
}

// SetMain swaps the main flag from the user's current main photo to
// the target in a single transaction, so there is never a moment with
// zero or two mains for a user who has photos.
func (r *PhotoRepository) SetMain(ctx context.Context, userID, photoID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storageErr("failed to begin set main", err)
	}
	defer tx.Rollback(ctx)

	clear := `UPDATE photos SET is_main = FALSE WHERE user_id = $1 AND is_main`
	cleared, err := tx.Exec(ctx, clear, userID)
	if err != nil {
		return storageErr("failed to clear main photo", err)
	}
	if cleared.RowsAffected() > 1 {
		return fmt.Errorf("user %d had %d main photos: %w",
			userID, cleared.RowsAffected(), apperr.ErrInvariant)
	}

	set := `UPDATE photos SET is_main = TRUE WHERE id = $1 AND user_id = $2`
	tag, err := tx.Exec(ctx, set, photoID, userID)
	if err != nil {
		return storageErr("failed to set main photo", err)
	}
	if tag.RowsAffected() == 0 {
		// Target vanished between the service's ownership check and
		// this transaction. Rolling back restores the previous main.
		return fmt.Errorf("photo %d: %w", photoID, apperr.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("failed to commit set main", err)
	}
	return nil
}

// Delete removes a photo row.
func (r *PhotoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return storageErr("failed to delete photo", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("photo %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}
