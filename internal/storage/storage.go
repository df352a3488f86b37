package storage

import (
	"context"
	"time"
)

// FileStorage хранит документы врачей, в первую очередь сканы лицензий,
// загружаемые для прохождения верификации.
type FileStorage interface {
	UploadLicenseDocument(ctx context.Context, data []byte, filename string) (string, error)

	DeleteFile(ctx context.Context, fileURL string) error

	GetFile(ctx context.Context, fileURL string) ([]byte, error)

	GetPresignedURL(ctx context.Context, fileURL string, expiry time.Duration) (string, error)
}
