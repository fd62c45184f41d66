package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey  = "userID"
	ContextProfileKey = "profile"
)

// jwtClaims defines the structure we expect in the JWT payload.
// Mirroring the structure used in authService.generateJWT
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}

		if !token.Valid || claims.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID) // Hex representation
		c.Next()
	}
}

// ProfileMiddleware resolves the authenticated user's profile row and stores
// it in the context. The stored role, not the token's role claim, is what
// access checks run against, so an admin's role change applies immediately.
// Must run AFTER AuthMiddleware.
func ProfileMiddleware(profileRepo repository.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDStr, err := getUserIDFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
			return
		}
		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token")
			return
		}

		profile, err := profileRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abortWithError(c, http.StatusUnauthorized, "Account no longer exists")
				return
			}
			abortWithError(c, http.StatusInternalServerError, "Failed to load account")
			return
		}

		c.Set(ContextProfileKey, profile)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// abortWithCode additionally carries a stable machine-readable error code
// the frontend switches on.
func abortWithCode(c *gin.Context, status int, errorCode, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": errorCode})
}

// Stable error codes shared with the frontend.
const (
	CodeEmpty        = "empty"
	CodeInvalidInput = "invalidInput"
	CodeMissingName  = "missingName"
	CodeSave         = "save"
)

// RoleMiddleware creates middleware to check if the user has one of the
// required roles. Must run AFTER ProfileMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := getProfileFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "User profile not found in context")
			return
		}

		allowed := false
		for _, allowedRole := range allowedRoles {
			if profile.Role == allowedRole {
				allowed = true
				break
			}
		}

		if !allowed {
			abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", profile.Role))
			return
		}

		c.Next()
	}
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

// Helper function to get the resolved Profile from context (used by handlers)
func getProfileFromContext(c *gin.Context) (*domain.Profile, error) {
	raw, exists := c.Get(ContextProfileKey)
	if !exists {
		return nil, errors.New("profile not found in context")
	}
	profile, ok := raw.(*domain.Profile)
	if !ok {
		return nil, errors.New("invalid profile type in context")
	}
	return profile, nil
}

// parseIDParam converts a path parameter into an ObjectID.
func parseIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// objectIDFromHexParam converts a body field into an ObjectID, aborting the
// request on malformed input.
func objectIDFromHexParam(c *gin.Context, hex, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, fmt.Sprintf("Invalid %s format", field))
		return primitive.NilObjectID, err
	}
	return id, nil
}
