// Package blob wraps the S3 object store the app keeps photo bytes
// in. The services layer only ever sees opaque (url, public id) pairs
// plus a release hook for deletes.
package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignTTL = 5 * time.Minute

// Upload describes a pre-signed upload slot handed to the client.
type Upload struct {
	UploadURL string `json:"upload_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	ExpiresIn int    `json:"expires_in"`
}

// S3Store issues pre-signed upload URLs and releases stored objects.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Store creates an S3-backed photo store.
func NewS3Store(ctx context.Context, region, bucket string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// PresignUpload generates a pre-signed PUT for a fresh object key. The
// returned public id is the object key the caller later registers with
// the photo service.
func (s *S3Store) PresignUpload(ctx context.Context, userID int64, contentType string) (*Upload, error) {
	key := fmt.Sprintf("%d/%s.jpg", userID, uuid.New().String())

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignTTL
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &Upload{
		UploadURL: request.URL,
		URL:       fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key),
		PublicID:  key,
		ExpiresIn: int(presignTTL.Seconds()),
	}, nil
}

// Release deletes a stored object by its public id.
func (s *S3Store) Release(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", publicID, err)
	}
	return nil
}
