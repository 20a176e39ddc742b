package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/granaflow/grana-backend/internal/errs"
)

const avatarUploadTimeout = 2 * time.Minute

// avatarStore keeps one avatar object per user in a Cloud Storage bucket.
// Uploading replaces the previous object at the same path.
type avatarStore struct {
	client *storage.Client
	bucket string
}

func NewAvatarStore(client *storage.Client, bucket string) *avatarStore {
	return &avatarStore{client: client, bucket: bucket}
}

func (s *avatarStore) objectName(uid string) string {
	return "avatars/" + uid
}

func (s *avatarStore) Upload(ctx context.Context, uid, contentType string, body io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, avatarUploadTimeout)
	defer cancel()

	obj := s.client.Bucket(s.bucket).Object(s.objectName(uid))
	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", errs.NewExternalServiceError("storage", "avatar upload failed", true)
	}
	if err := w.Close(); err != nil {
		return "", errs.NewExternalServiceError("storage", "avatar upload failed", true)
	}
	return s.PublicURL(uid), nil
}

func (s *avatarStore) Delete(ctx context.Context, uid string) error {
	err := s.client.Bucket(s.bucket).Object(s.objectName(uid)).Delete(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return errs.NewNotFoundError("avatar not found")
		}
		return errs.NewExternalServiceError("storage", "avatar delete failed", true)
	}
	return nil
}

func (s *avatarStore) PublicURL(uid string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, s.objectName(uid))
}
