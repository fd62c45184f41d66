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

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrMissingName      = errors.New("name is required")
)

// ExerciseService manages the shared exercise catalog.
type ExerciseService interface {
	CreateExercise(ctx context.Context, createdBy primitive.ObjectID, name, description string, bodyZone domain.BodyZone, category domain.ExerciseCategory, videoURL string) (*domain.Exercise, error)
	GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, id primitive.ObjectID, name, description string, bodyZone domain.BodyZone, category domain.ExerciseCategory, videoURL string) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error

	// RequestVideoUploadURL returns a presigned PUT URL and the object key
	// the client must upload to before confirming.
	RequestVideoUploadURL(ctx context.Context, exerciseID primitive.ObjectID, fileName, contentType string) (uploadURL, objectKey string, err error)
	// ConfirmVideoUpload records the uploaded object key as the exercise
	// video reference.
	ConfirmVideoUpload(ctx context.Context, exerciseID primitive.ObjectID, objectKey string) error
	// ResolveVideoURL turns the stored video reference into something a
	// browser can fetch. External links pass through untouched; object keys
	// get a presigned GET URL.
	ResolveVideoURL(ctx context.Context, exercise *domain.Exercise) (string, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

// CreateExercise adds a new exercise to the catalog. Unknown body zones or
// categories are stored as unset rather than rejected.
func (s *exerciseService) CreateExercise(ctx context.Context, createdBy primitive.ObjectID, name, description string, bodyZone domain.BodyZone, category domain.ExerciseCategory, videoURL string) (*domain.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}

	if !domain.IsValidBodyZone(bodyZone) {
		bodyZone = ""
	}
	if !domain.IsValidExerciseCategory(category) {
		category = ""
	}

	exercise := &domain.Exercise{
		Name:        name,
		Description: strings.TrimSpace(description),
		BodyZone:    bodyZone,
		Category:    category,
		VideoURL:    strings.TrimSpace(videoURL),
		CreatedBy:   createdBy,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// GetExercise retrieves a single exercise by ID.
func (s *exerciseService) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// ListExercises returns the whole catalog, newest first.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.GetAll(ctx)
}

// UpdateExercise replaces the editable fields of an exercise.
func (s *exerciseService) UpdateExercise(ctx context.Context, id primitive.ObjectID, name, description string, bodyZone domain.BodyZone, category domain.ExerciseCategory, videoURL string) (*domain.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if !domain.IsValidBodyZone(bodyZone) {
		bodyZone = ""
	}
	if !domain.IsValidExerciseCategory(category) {
		category = ""
	}

	exercise.Name = name
	exercise.Description = strings.TrimSpace(description)
	exercise.BodyZone = bodyZone
	exercise.Category = category
	exercise.VideoURL = strings.TrimSpace(videoURL)

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// DeleteExercise removes an exercise from the catalog. Prescriptions that
// reference it keep their copy of the ID; lookups simply come back empty.
func (s *exerciseService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	// Stored video objects are cleaned up best-effort after the row is gone.
	if key := exercise.VideoURL; key != "" && !isExternalURL(key) {
		_ = s.fileStorage.DeleteObject(ctx, key)
	}
	return nil
}

// RequestVideoUploadURL generates a presigned PUT URL for an exercise video.
func (s *exerciseService) RequestVideoUploadURL(ctx context.Context, exerciseID primitive.ObjectID, fileName, contentType string) (string, string, error) {
	if _, err := s.GetExercise(ctx, exerciseID); err != nil {
		return "", "", err
	}
	if contentType == "" {
		return "", "", errors.New("content type is required")
	}

	objectKey := fmt.Sprintf("exercises/%s/%s%s", exerciseID.Hex(), uuid.NewString(), path.Ext(fileName))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", fmt.Errorf("generate upload URL: %w", err)
	}
	return uploadURL, objectKey, nil
}

// ConfirmVideoUpload stores the object key on the exercise once the client
// reports the upload finished.
func (s *exerciseService) ConfirmVideoUpload(ctx context.Context, exerciseID primitive.ObjectID, objectKey string) error {
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return errors.New("object key is required")
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	exercise.VideoURL = objectKey
	return s.exerciseRepo.Update(ctx, exercise)
}

// ResolveVideoURL returns a fetchable URL for the exercise video, or an
// empty string when no video is set.
func (s *exerciseService) ResolveVideoURL(ctx context.Context, exercise *domain.Exercise) (string, error) {
	if exercise == nil || exercise.VideoURL == "" {
		return "", nil
	}
	if isExternalURL(exercise.VideoURL) {
		return exercise.VideoURL, nil
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.VideoURL, storage.DefaultPresignedURLExpiry)
}

func isExternalURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
