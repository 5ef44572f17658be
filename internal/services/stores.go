package services

import (
	"context"
	"time"

	"dating-backend/internal/blob"
	"dating-backend/internal/models"
	"dating-backend/internal/repository"
)

// The services own these interfaces; internal/repository provides the
// PostgreSQL implementations and the tests provide in-memory fakes.

// UserStore is the persistence surface for user rows.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	TouchLastActive(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.UserFilter) ([]models.User, int, error)
}

// LikeStore is the persistence surface for like edges.
type LikeStore interface {
	Get(ctx context.Context, likerID, likeeID int64) (*models.Like, error)
	Create(ctx context.Context, like *models.Like) error
	LikerIDs(ctx context.Context, userID int64) ([]int64, error)
	LikeeIDs(ctx context.Context, userID int64) ([]int64, error)
}

// MessageStore is the persistence surface for messages.
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	Thread(ctx context.Context, userID, otherID int64) ([]models.Message, error)
	ListForUser(ctx context.Context, f repository.MessageFilter) ([]models.Message, int, error)
	MarkRead(ctx context.Context, id int64, readAt time.Time) error
	ApplyDeletion(ctx context.Context, id int64, bySender, byRecipient bool) error
}

// PhotoStore is the persistence surface for photos.
type PhotoStore interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
	MainForUser(ctx context.Context, userID int64) (*models.Photo, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Photo, error)
	MainURLs(ctx context.Context, userIDs []int64) (map[int64]string, error)
	SetMain(ctx context.Context, userID, photoID int64) error
	Delete(ctx context.Context, id int64) error
}

// BlobStore is the photo byte store. Uploads happen client-side via a
// pre-signed URL; the services only register the result and release
// objects on delete.
type BlobStore interface {
	PresignUpload(ctx context.Context, userID int64, contentType string) (*blob.Upload, error)
	Release(ctx context.Context, publicID string) error
}
