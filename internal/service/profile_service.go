package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"
	"fitcoach/coaching-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileService covers what a signed-in user may do to their own account.
type ProfileService interface {
	// UpdateMyDetails rewrites the caller's display fields. Role and email
	// are not self-serviceable.
	UpdateMyDetails(ctx context.Context, userID primitive.ObjectID, name, lastName, avatarURL string) (*domain.Profile, error)
	// RequestAvatarUploadURL returns a presigned PUT URL and the public URL
	// the client should store via UpdateMyDetails once the upload finishes.
	RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, fileName, contentType string) (uploadURL, publicURL string, err error)
}

// profileService implements the ProfileService interface.
type profileService struct {
	profileRepo repository.ProfileRepository
	fileStorage storage.FileStorage
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(profileRepo repository.ProfileRepository, fileStorage storage.FileStorage) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		fileStorage: fileStorage,
	}
}

// UpdateMyDetails rewrites name, last name and avatar URL on the caller's row.
func (s *profileService) UpdateMyDetails(ctx context.Context, userID primitive.ObjectID, name, lastName, avatarURL string) (*domain.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}

	err := s.profileRepo.UpdateDetails(ctx, userID, name, strings.TrimSpace(lastName), strings.TrimSpace(avatarURL))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.PasswordHash = ""
	return profile, nil
}

// RequestAvatarUploadURL generates a presigned PUT URL for the caller's
// avatar image.
func (s *profileService) RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, fileName, contentType string) (string, string, error) {
	if contentType == "" {
		return "", "", errors.New("content type is required")
	}

	objectKey := fmt.Sprintf("avatars/%s/%s%s", userID.Hex(), uuid.NewString(), path.Ext(fileName))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", fmt.Errorf("generate avatar upload URL: %w", err)
	}
	return uploadURL, s.fileStorage.ObjectURL(objectKey), nil
}
