package api

import (
	"errors"
	"net/http"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler exposes account provisioning, role management and
// coach-student assignment endpoints.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// --- DTOs ---

type InviteUserRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	FullName string      `json:"fullName" binding:"required"`
	Role     domain.Role `json:"role" binding:"required,oneof=COACH STUDENT ADMIN"`
}

type UpdateRoleRequest struct {
	Role domain.Role `json:"role" binding:"required,oneof=COACH STUDENT ADMIN"`
}

type AssignmentRequest struct {
	CoachID   string `json:"coachId" binding:"required"`
	StudentID string `json:"studentId" binding:"required"`
}

type AssignmentResponse struct {
	ID        string    `json:"id"`
	CoachID   string    `json:"coachId"`
	StudentID string    `json:"studentId"`
	CreatedAt time.Time `json:"createdAt"`
}

// --- Handler Methods ---

// InviteUser provisions an account with a role and emails a temporary
// password to the invitee.
func (h *AdminHandler) InviteUser(c *gin.Context) {
	var req InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	profile, err := h.adminService.InviteUser(c.Request.Context(), req.Email, req.FullName, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidRole):
			abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, err.Error())
		case errors.Is(err, service.ErrInvitationSendFailed):
			abortWithCode(c, http.StatusBadGateway, CodeSave, err.Error())
		default:
			abortWithCode(c, http.StatusInternalServerError, CodeSave, "Failed to invite user")
		}
		return
	}

	c.JSON(http.StatusCreated, MapProfileToResponse(profile))
}

// GetProfiles lists every account in the system.
func (h *AdminHandler) GetProfiles(c *gin.Context) {
	profiles, err := h.adminService.GetAllProfiles(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve profiles")
		return
	}
	c.JSON(http.StatusOK, MapProfilesToResponse(profiles))
}

// UpdateRole sets the role of a profile.
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	profileID, ok := parseIDParam(c, "profileId")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	err := h.adminService.UpdateUserRole(c.Request.Context(), profileID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRole):
			abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, err.Error())
		default:
			abortWithCode(c, http.StatusInternalServerError, CodeSave, "Failed to update role")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAssignments lists every coach-student assignment.
func (h *AdminHandler) GetAssignments(c *gin.Context) {
	assignments, err := h.adminService.GetAssignments(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve assignments")
		return
	}
	c.JSON(http.StatusOK, mapAssignmentsToResponse(assignments))
}

// CreateAssignment pairs a coach with a student.
func (h *AdminHandler) CreateAssignment(c *gin.Context) {
	var req AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}
	coachID, studentID, ok := parseAssignmentIDs(c, req)
	if !ok {
		return
	}

	assignment, err := h.adminService.AssignCoachToStudent(c.Request.Context(), coachID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrCoachRoleRequired), errors.Is(err, service.ErrStudentRoleRequired):
			abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, err.Error())
		case errors.Is(err, service.ErrAlreadyAssigned):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithCode(c, http.StatusInternalServerError, CodeSave, "Failed to create assignment")
		}
		return
	}

	c.JSON(http.StatusCreated, mapAssignmentToResponse(assignment))
}

// DeleteAssignment removes a coach-student pairing. Plans the coach already
// created for the student remain untouched.
func (h *AdminHandler) DeleteAssignment(c *gin.Context) {
	var req AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}
	coachID, studentID, ok := parseAssignmentIDs(c, req)
	if !ok {
		return
	}

	err := h.adminService.RemoveCoachFromStudent(c.Request.Context(), coachID, studentID)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithCode(c, http.StatusInternalServerError, CodeSave, "Failed to delete assignment")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAllPlans lists every training plan in the system for oversight.
func (h *AdminHandler) GetAllPlans(c *gin.Context) {
	plans, err := h.adminService.GetAllTrainingPlans(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans")
		return
	}
	c.JSON(http.StatusOK, mapPlansToResponse(plans))
}

// --- Mapping Helpers ---

func parseAssignmentIDs(c *gin.Context, req AssignmentRequest) (coachID, studentID primitive.ObjectID, ok bool) {
	var err error
	coachID, err = primitive.ObjectIDFromHex(req.CoachID)
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Invalid coachId format")
		return coachID, studentID, false
	}
	studentID, err = primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Invalid studentId format")
		return coachID, studentID, false
	}
	return coachID, studentID, true
}

func mapAssignmentToResponse(a *domain.CoachStudentAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:        a.ID.Hex(),
		CoachID:   a.CoachID.Hex(),
		StudentID: a.StudentID.Hex(),
		CreatedAt: a.CreatedAt,
	}
}

func mapAssignmentsToResponse(assignments []domain.CoachStudentAssignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, len(assignments))
	for i := range assignments {
		responses[i] = mapAssignmentToResponse(&assignments[i])
	}
	return responses
}
