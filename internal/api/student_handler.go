package api

import (
	"errors"
	"net/http"
	"time"

	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentHandler exposes the student-facing routes: viewing the routine and
// logging workouts.
type StudentHandler struct {
	studentService service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// --- DTOs ---

type RecordLogsRequest struct {
	SessionExerciseID string             `json:"sessionExerciseId" binding:"required"`
	Sets              []service.SetEntry `json:"sets" binding:"required"`
}

// --- Handler Methods ---

// GetActivePlan returns the student's current plan header.
func (h *StudentHandler) GetActivePlan(c *gin.Context) {
	profile, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}

	plan, err := h.studentService.GetActivePlan(c.Request.Context(), profile.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActivePlan) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plan")
		return
	}
	c.JSON(http.StatusOK, mapPlanToResponse(plan))
}

// GetRoutine returns the fully expanded active plan.
func (h *StudentHandler) GetRoutine(c *gin.Context) {
	profile, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}

	routine, err := h.studentService.GetRoutine(c.Request.Context(), profile.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActivePlan) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve routine")
		return
	}
	c.JSON(http.StatusOK, routine)
}

// GetTodaysSession resolves the session scheduled for today. A day with
// nothing scheduled returns 200 with a nil session, not an error.
func (h *StudentHandler) GetTodaysSession(c *gin.Context) {
	profile, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}

	today, err := h.studentService.TodaysWorkout(c.Request.Context(), profile.ID, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrNoActivePlan) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve today's session")
		return
	}
	c.JSON(http.StatusOK, today)
}

// RecordLogs stores a batch of performed sets for one prescription.
func (h *StudentHandler) RecordLogs(c *gin.Context) {
	profile, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}

	var req RecordLogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}
	prescriptionID, err := objectIDFromHexParam(c, req.SessionExerciseID, "sessionExerciseId")
	if err != nil {
		return
	}

	logs, err := h.studentService.RecordWorkoutLogs(c.Request.Context(), profile.ID, prescriptionID, req.Sets)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyWorkoutLog):
			abortWithCode(c, http.StatusBadRequest, CodeEmpty, err.Error())
		case errors.Is(err, service.ErrInvalidSetNumber):
			abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, err.Error())
		case errors.Is(err, service.ErrNotYourWorkout):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrPrescriptionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithCode(c, http.StatusInternalServerError, CodeSave, "Failed to save workout log")
		}
		return
	}

	c.JSON(http.StatusCreated, mapLogsToResponse(logs))
}

// GetMyLogs returns everything the student has logged, optionally narrowed
// to one prescription via ?sessionExerciseId=.
func (h *StudentHandler) GetMyLogs(c *gin.Context) {
	profile, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}

	if hex := c.Query("sessionExerciseId"); hex != "" {
		prescriptionID, err := objectIDFromHexParam(c, hex, "sessionExerciseId")
		if err != nil {
			return
		}
		h.respondPrescriptionLogs(c, profile.ID, prescriptionID)
		return
	}

	logs, err := h.studentService.GetMyLogs(c.Request.Context(), profile.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve logs")
		return
	}
	c.JSON(http.StatusOK, mapLogsToResponse(logs))
}

// GetLogsForPrescription returns the student's logged sets for one
// prescription.
func (h *StudentHandler) GetLogsForPrescription(c *gin.Context) {
	profile, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	prescriptionID, ok := parseIDParam(c, "prescriptionId")
	if !ok {
		return
	}
	h.respondPrescriptionLogs(c, profile.ID, prescriptionID)
}

func (h *StudentHandler) respondPrescriptionLogs(c *gin.Context, studentID, prescriptionID primitive.ObjectID) {
	logs, err := h.studentService.GetLogsForPrescription(c.Request.Context(), studentID, prescriptionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPrescriptionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotYourWorkout):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve logs")
		}
		return
	}
	c.JSON(http.StatusOK, mapLogsToResponse(logs))
}
