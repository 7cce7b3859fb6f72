package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry bounds how long a presigned URL stays usable.
const DefaultPresignedURLExpiry = 15 * time.Minute

// MediaStorage defines the interface for object storage operations used
// for exercise demo videos. Clients upload and download directly against
// the storage provider via presigned URLs; the API never proxies bytes.
type MediaStorage interface {
	// PresignUpload creates a temporary URL allowing a PUT of the object.
	// The client must send the same Content-Type it was presigned with.
	PresignUpload(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error)

	// PresignDownload creates a temporary URL allowing a GET of the object.
	PresignDownload(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
