package services

import (
	"context"
	"io"

	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/internal/models"
	"github.com/granaflow/grana-backend/pkg/logger"
)

type userUSStore interface {
	Get(ctx context.Context, uid string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

type avatarUSStore interface {
	Upload(ctx context.Context, uid, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, uid string) error
}

type userService struct {
	store   userUSStore
	avatars avatarUSStore
}

func NewUserService(store userUSStore, avatars avatarUSStore) *userService {
	return &userService{store: store, avatars: avatars}
}

// GetProfile returns the profile document, creating a bare one on first
// access so the client never sees NotFound for an authenticated user.
func (s *userService) GetProfile(ctx context.Context, uid, email string) (*models.User, error) {
	user, err := s.store.Get(ctx, uid)
	if err == nil {
		return user, nil
	}
	if _, ok := err.(*errs.NotFoundError); !ok {
		return nil, err
	}

	user = &models.User{UID: uid, Email: email}
	if err := s.store.Upsert(ctx, user); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("profile created on first access")
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, req dto.UpdateProfileRequest) (*models.User, error) {
	if err := validateRequired("displayName", req.DisplayName); err != nil {
		return nil, err
	}
	user, err := s.store.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	user.DisplayName = req.DisplayName
	if err := s.store.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAvatar uploads (or replaces) the avatar object and records its public
// URL on the profile.
func (s *userService) SetAvatar(ctx context.Context, uid, contentType string, body io.Reader) (string, error) {
	if contentType != "image/png" && contentType != "image/jpeg" {
		return "", errs.NewValidationError("avatar must be image/png or image/jpeg")
	}
	url, err := s.avatars.Upload(ctx, uid, contentType, body)
	if err != nil {
		return "", err
	}
	user, err := s.store.Get(ctx, uid)
	if err != nil {
		return "", err
	}
	user.AvatarURL = url
	if err := s.store.Upsert(ctx, user); err != nil {
		return "", err
	}
	logger.FromContext(ctx).Info("avatar updated")
	return url, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, uid string) error {
	if err := s.avatars.Delete(ctx, uid); err != nil {
		return err
	}
	user, err := s.store.Get(ctx, uid)
	if err != nil {
		return err
	}
	user.AvatarURL = ""
	return s.store.Upsert(ctx, user)
}
