package api

import (
	"errors"
	"net/http"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler exposes the shared exercise catalog.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

type ExerciseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BodyZone    string `json:"bodyZone"`
	Category    string `json:"category"`
	VideoURL    string `json:"videoUrl"`
}

type ExerciseResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BodyZone    string    `json:"bodyZone,omitempty"`
	Category    string    `json:"category,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type VideoUploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType" binding:"required"`
}

type VideoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type ConfirmVideoRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// --- Handler Methods ---

// CreateExercise adds an exercise to the catalog.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	profile, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}

	exercise, err := h.exerciseService.CreateExercise(
		c.Request.Context(), profile.ID,
		req.Name, req.Description,
		domain.BodyZone(req.BodyZone), domain.ExerciseCategory(req.Category),
		req.VideoURL,
	)
	if err != nil {
		if errors.Is(err, service.ErrMissingName) {
			abortWithCode(c, http.StatusBadRequest, CodeMissingName, err.Error())
			return
		}
		abortWithCode(c, http.StatusInternalServerError, CodeSave, "Failed to create exercise")
		return
	}

	c.JSON(http.StatusCreated, h.mapExerciseToResponse(c, exercise))
}

// GetExercises lists the whole catalog.
func (h *ExerciseHandler) GetExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises")
		return
	}

	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = h.mapExerciseToResponse(c, &exercises[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetExercise returns one exercise.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise")
		return
	}

	c.JSON(http.StatusOK, h.mapExerciseToResponse(c, exercise))
}

// UpdateExercise replaces the editable fields of an exercise.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(
		c.Request.Context(), exerciseID,
		req.Name, req.Description,
		domain.BodyZone(req.BodyZone), domain.ExerciseCategory(req.Category),
		req.VideoURL,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingName):
			abortWithCode(c, http.StatusBadRequest, CodeMissingName, err.Error())
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithCode(c, http.StatusInternalServerError, CodeSave, "Failed to update exercise")
		}
		return
	}

	c.JSON(http.StatusOK, h.mapExerciseToResponse(c, exercise))
}

// DeleteExercise removes an exercise from the catalog.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}

	err := h.exerciseService.DeleteExercise(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithCode(c, http.StatusInternalServerError, CodeSave, "Failed to delete exercise")
		return
	}

	c.Status(http.StatusNoContent)
}

// RequestVideoUpload returns a presigned PUT URL for an exercise video.
func (h *ExerciseHandler) RequestVideoUpload(c *gin.Context) {
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req VideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	uploadURL, objectKey, err := h.exerciseService.RequestVideoUploadURL(c.Request.Context(), exerciseID, req.FileName, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, VideoUploadResponse{UploadURL: uploadURL, ObjectKey: objectKey})
}

// ConfirmVideoUpload records a finished upload as the exercise video.
func (h *ExerciseHandler) ConfirmVideoUpload(c *gin.Context) {
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req ConfirmVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	err := h.exerciseService.ConfirmVideoUpload(c.Request.Context(), exerciseID, req.ObjectKey)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithCode(c, http.StatusInternalServerError, CodeSave, "Failed to confirm upload")
		return
	}

	c.Status(http.StatusNoContent)
}

// mapExerciseToResponse resolves the video reference into a fetchable URL
// on the way out. Resolution failures degrade to an empty URL rather than
// failing the whole response.
func (h *ExerciseHandler) mapExerciseToResponse(c *gin.Context, exercise *domain.Exercise) ExerciseResponse {
	videoURL, err := h.exerciseService.ResolveVideoURL(c.Request.Context(), exercise)
	if err != nil {
		videoURL = ""
	}
	return ExerciseResponse{
		ID:          exercise.ID.Hex(),
		Name:        exercise.Name,
		Description: exercise.Description,
		BodyZone:    string(exercise.BodyZone),
		Category:    string(exercise.Category),
		VideoURL:    videoURL,
		CreatedBy:   exercise.CreatedBy.Hex(),
		CreatedAt:   exercise.CreatedAt,
	}
}
