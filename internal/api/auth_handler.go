package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	LastName string `json:"lastName"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// ProfileResponse excludes sensitive info like the password hash.
type ProfileResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	LastName  string      `json:"lastName,omitempty"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role,omitempty"` // Empty until an admin assigns one
	AvatarURL string      `json:"avatarUrl,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

// --- Handler Methods ---

// Register creates a new account. The account has no role until an admin
// assigns one, so a fresh registration can log in but reaches no coach or
// student routes yet.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.authService.Register(c.Request.Context(), req.Name, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, MapProfileToResponse(profile))
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, profile, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapProfileToResponse(profile),
	})
}

// Me returns the authenticated user's profile as stored, including the
// current role even when it changed after the token was issued.
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}

// MapProfileToResponse converts a domain Profile to a ProfileResponse DTO.
func MapProfileToResponse(profile *domain.Profile) ProfileResponse {
	if profile == nil {
		return ProfileResponse{}
	}
	return ProfileResponse{
		ID:        profile.ID.Hex(),
		Name:      profile.Name,
		LastName:  profile.LastName,
		Email:     profile.Email,
		Role:      profile.Role,
		AvatarURL: profile.AvatarURL,
		CreatedAt: profile.CreatedAt,
	}
}

// MapProfilesToResponse converts a slice of domain.Profile to DTOs.
func MapProfilesToResponse(profiles []domain.Profile) []ProfileResponse {
	responses := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = MapProfileToResponse(&profiles[i])
	}
	return responses
}
