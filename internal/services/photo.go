package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/blob"
	"dating-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// PhotoService owns the "exactly one main photo" invariant: for every
// user with at least one photo exactly one carries is_main.
type PhotoService struct {
	photos PhotoStore
	users  UserStore
	blobs  BlobStore
	now    func() time.Time
}

// NewPhotoService creates a new photo service
func NewPhotoService(photos PhotoStore, users UserStore, blobs BlobStore) *PhotoService {
	return &PhotoService{photos: photos, users: users, blobs: blobs, now: time.Now}
}

// PresignUpload hands the caller a pre-signed slot to upload photo
// bytes directly to the blob store. The resulting (url, public id)
// pair comes back through Add.
func (s *PhotoService) PresignUpload(ctx context.Context, userID int64, contentType string) (*blob.Upload, error) {
	return s.blobs.PresignUpload(ctx, userID, contentType)
}

// Add registers an uploaded photo. A user's first photo, or any photo
// added while no main exists, automatically becomes main.
func (s *PhotoService) Add(ctx context.Context, userID int64, url string, publicID *string) (*models.Photo, error) {
	if url == "" {
		return nil, fmt.Errorf("empty photo url: %w", apperr.ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("photo owner: %w", err)
	}

	isMain := false
	if _, err := s.photos.MainForUser(ctx, userID); err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("failed to check main photo: %w", err)
		}
		isMain = true
	}

	photo := &models.Photo{
		UserID:    userID,
		URL:       url,
		PublicID:  publicID,
		IsMain:    isMain,
		DateAdded: s.now(),
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// Get returns a single photo.
func (s *PhotoService) Get(ctx context.Context, id int64) (*models.Photo, error) {
	return s.photos.GetByID(ctx, id)
}

// SetMain makes the target photo the user's main photo. The old main
// loses the flag and the target gains it atomically in the store.
func (s *PhotoService) SetMain(ctx context.Context, userID, photoID int64) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return fmt.Errorf("photo %d: %w", photoID, apperr.ErrNotFound)
	}
	if photo.IsMain {
		return fmt.Errorf("photo %d: %w", photoID, apperr.ErrAlreadyMain)
	}
	return s.photos.SetMain(ctx, userID, photoID)
}

// Delete removes a non-main photo. The database row goes first; only
// after that commit is the blob release attempted. A failed release
// leaks the stored object (reclaimed by an out-of-band sweep) instead
// of ever leaving a dangling reference to a deleted blob.
func (s *PhotoService) Delete(ctx context.Context, userID, photoID int64) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return fmt.Errorf("photo %d owned by %d: %w", photoID, photo.UserID, apperr.ErrForbidden)
	}
	if photo.IsMain {
		return fmt.Errorf("photo %d: %w", photoID, apperr.ErrMainPhoto)
	}

	if err := s.photos.Delete(ctx, photoID); err != nil {
		return err
	}

	if photo.PublicID != nil {
		if err := s.blobs.Release(ctx, *photo.PublicID); err != nil {
			log.Warn().
				Err(err).
				Int64("photo_id", photoID).
				Str("public_id", *photo.PublicID).
				Msg("Photo deleted locally but blob release failed")
		}
	}
	return nil
}
