package storage

import (
	"context"
	"errors"
	"time"

	financeapp "github.com/retailpos/backend/internal/application/finance"
)

var _ financeapp.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage fakes the receipt presigner for local development
// where no bucket is configured. URLs point at a placeholder host and
// every object is reported as present so the upload confirmation flow
// still completes.
type StubObjectStorage struct {
	// BaseURL prefixes every generated URL.
	BaseURL string
}

// NewStubObjectStorage returns a stub presigner with a placeholder base URL.
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{BaseURL: "https://storage.example.com"}
}

func (s *StubObjectStorage) presign(kind, storageKey string, expiresIn time.Duration) (string, time.Time) {
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + kind + "/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt
}

// GenerateUploadURL returns a fake upload URL for the key.
func (s *StubObjectStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	url, expiresAt := s.presign("upload", storageKey, expiresIn)
	return url, expiresAt, nil
}

// GenerateDownloadURL returns a fake download URL for the key.
func (s *StubObjectStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	url, expiresAt := s.presign("download", storageKey, expiresIn)
	return url, expiresAt, nil
}

// DeleteObject succeeds without touching anything.
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// ObjectExists always reports true so receipt confirmation works
// without a real bucket.
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}
