package api

import (
	"errors"
	"net/http"

	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler exposes self-service account routes.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- DTOs ---

type UpdateMeRequest struct {
	Name      string `json:"name"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl"`
}

type AvatarUploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType" binding:"required"`
}

type AvatarUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	AvatarURL string `json:"avatarUrl"`
}

// --- Handler Methods ---

// UpdateMe rewrites the caller's display fields.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	profile, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	updated, err := h.profileService.UpdateMyDetails(c.Request.Context(), profile.ID, req.Name, req.LastName, req.AvatarURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingName):
			abortWithCode(c, http.StatusBadRequest, CodeMissingName, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithCode(c, http.StatusInternalServerError, CodeSave, "Failed to update profile")
		}
		return
	}

	c.JSON(http.StatusOK, MapProfileToResponse(updated))
}

// RequestAvatarUpload returns a presigned PUT URL for the caller's avatar.
// The client uploads the image, then stores the returned avatarUrl via
// PUT /me.
func (h *ProfileHandler) RequestAvatarUpload(c *gin.Context) {
	profile, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}

	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	uploadURL, avatarURL, err := h.profileService.RequestAvatarUploadURL(c.Request.Context(), profile.ID, req.FileName, req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, AvatarUploadResponse{UploadURL: uploadURL, AvatarURL: avatarURL})
}
