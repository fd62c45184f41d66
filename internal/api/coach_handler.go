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

// CoachHandler exposes the planner: roster, plan construction and log review.
type CoachHandler struct {
	plannerService service.PlannerService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(plannerService service.PlannerService) *CoachHandler {
	return &CoachHandler{plannerService: plannerService}
}

// --- DTOs ---

type CreatePlanRequest struct {
	Name      string     `json:"name"`
	StartDate *time.Time `json:"startDate"`
	IsActive  *bool      `json:"isActive"` // Defaults to true
}

type PlanResponse struct {
	ID        string     `json:"id"`
	CoachID   string     `json:"coachId,omitempty"`
	StudentID string     `json:"studentId"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"startDate,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}

type AddSessionRequest struct {
	WeekNumber  int    `json:"weekNumber" binding:"required,min=1"`
	DayName     string `json:"dayName"`
	PhaseTypeID string `json:"phaseTypeId"`
}

type SessionResponse struct {
	ID          string `json:"id"`
	PlanID      string `json:"planId"`
	WeekNumber  int    `json:"weekNumber"`
	DayName     string `json:"dayName"`
	OrderIndex  int    `json:"orderIndex"`
	PhaseTypeID string `json:"phaseTypeId,omitempty"`
	IsCompleted bool   `json:"isCompleted"`
}

type PrescriptionRequest struct {
	ExerciseID  string  `json:"exerciseId"`
	Sets        int     `json:"sets"`
	Reps        string  `json:"reps"`
	RPETarget   float64 `json:"rpeTarget"`
	RestSeconds int     `json:"restSeconds"`
	CoachNotes  string  `json:"coachNotes"`
}

type PrescriptionResponse struct {
	ID          string  `json:"id"`
	SessionID   string  `json:"sessionId"`
	ExerciseID  string  `json:"exerciseId"`
	Sets        int     `json:"sets"`
	Reps        string  `json:"reps,omitempty"`
	RPETarget   float64 `json:"rpeTarget,omitempty"`
	RestSeconds int     `json:"restSeconds,omitempty"`
	CoachNotes  string  `json:"coachNotes,omitempty"`
	OrderIndex  int     `json:"orderIndex"`
}

type FeedbackRequest struct {
	Feedback  string `json:"feedback"`
	Validated bool   `json:"validated"`
}

type PhaseTypeRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DefaultWeeks int    `json:"defaultWeeks"`
}

type WorkoutLogResponse struct {
	ID                string    `json:"id"`
	SessionExerciseID string    `json:"sessionExerciseId"`
	StudentID         string    `json:"studentId"`
	SetNumber         int       `json:"setNumber"`
	WeightKg          *float64  `json:"weightKg,omitempty"`
	RepsPerformed     *int      `json:"repsPerformed,omitempty"`
	RPEActual         *float64  `json:"rpeActual,omitempty"`
	StudentNotes      string    `json:"studentNotes,omitempty"`
	CoachFeedback     string    `json:"coachFeedback,omitempty"`
	IsValidated       bool      `json:"isValidated"`
	CreatedAt         time.Time `json:"createdAt"`
}

// --- Handler Methods ---

// GetStudents returns the coach's roster.
func (h *CoachHandler) GetStudents(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}

	students, err := h.plannerService.GetStudents(c.Request.Context(), coach)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve students")
		return
	}
	c.JSON(http.StatusOK, MapProfilesToResponse(students))
}

// CreatePlan creates a training plan for an assigned student.
func (h *CoachHandler) CreatePlan(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	studentID, ok := parseIDParam(c, "studentId")
	if !ok {
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	plan, err := h.plannerService.CreateTrainingPlan(c.Request.Context(), coach, studentID, req.Name, req.StartDate, isActive)
	if err != nil {
		h.respondPlannerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapPlanToResponse(plan))
}

// GetPlansForStudent lists an assigned student's plans.
func (h *CoachHandler) GetPlansForStudent(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	studentID, ok := parseIDParam(c, "studentId")
	if !ok {
		return
	}

	plans, err := h.plannerService.GetPlansForStudent(c.Request.Context(), coach, studentID)
	if err != nil {
		h.respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPlansToResponse(plans))
}

// GetStudentRoutine returns the expanded active plan of an assigned student.
func (h *CoachHandler) GetStudentRoutine(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	studentID, ok := parseIDParam(c, "studentId")
	if !ok {
		return
	}

	routine, err := h.plannerService.GetStudentRoutine(c.Request.Context(), coach, studentID)
	if err != nil {
		h.respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// GetPlanRoutine returns the fully expanded plan for the planner view.
func (h *CoachHandler) GetPlanRoutine(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	routine, err := h.plannerService.GetPlanRoutine(c.Request.Context(), coach, planID)
	if err != nil {
		h.respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// AddWeek appends a new week to the plan.
func (h *CoachHandler) AddWeek(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	session, err := h.plannerService.AddWeek(c.Request.Context(), coach, planID)
	if err != nil {
		h.respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapSessionToResponse(session))
}

// AddSession adds another training day to a week of the plan.
func (h *CoachHandler) AddSession(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	var req AddSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	var phaseTypeID *primitive.ObjectID
	if req.PhaseTypeID != "" {
		id, err := primitive.ObjectIDFromHex(req.PhaseTypeID)
		if err != nil {
			abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Invalid phaseTypeId format")
			return
		}
		phaseTypeID = &id
	}

	session, err := h.plannerService.AddSession(c.Request.Context(), coach, planID, req.WeekNumber, req.DayName, phaseTypeID)
	if err != nil {
		h.respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapSessionToResponse(session))
}

// AddExercise appends a prescription to a session.
func (h *CoachHandler) AddExercise(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	sessionID, ok := parseIDParam(c, "sessionId")
	if !ok {
		return
	}

	var req PrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Invalid exerciseId format")
		return
	}

	prescription, err := h.plannerService.AddExerciseToSession(
		c.Request.Context(), coach, sessionID, exerciseID,
		req.Sets, req.Reps, req.RPETarget, req.RestSeconds, req.CoachNotes,
	)
	if err != nil {
		h.respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapPrescriptionToResponse(prescription))
}

// UpdatePrescription rewrites the target fields of a prescription.
func (h *CoachHandler) UpdatePrescription(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	prescriptionID, ok := parseIDParam(c, "prescriptionId")
	if !ok {
		return
	}

	var req PrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	err = h.plannerService.UpdatePrescription(c.Request.Context(), coach, prescriptionID, req.Sets, req.Reps, req.RPETarget, req.RestSeconds, req.CoachNotes)
	if err != nil {
		h.respondPlannerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeletePrescription removes a prescription from its session.
func (h *CoachHandler) DeletePrescription(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	prescriptionID, ok := parseIDParam(c, "prescriptionId")
	if !ok {
		return
	}

	if err := h.plannerService.DeletePrescription(c.Request.Context(), coach, prescriptionID); err != nil {
		h.respondPlannerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStudentLogs returns everything an assigned student has logged.
func (h *CoachHandler) GetStudentLogs(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	studentID, ok := parseIDParam(c, "studentId")
	if !ok {
		return
	}

	logs, err := h.plannerService.GetStudentLogs(c.Request.Context(), coach, studentID)
	if err != nil {
		h.respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapLogsToResponse(logs))
}

// LogFeedback attaches coach feedback to a logged set.
func (h *CoachHandler) LogFeedback(c *gin.Context) {
	coach, err := getProfileFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}
	logID, ok := parseIDParam(c, "logId")
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	if err := h.plannerService.LogFeedback(c.Request.Context(), coach, logID, req.Feedback, req.Validated); err != nil {
		h.respondPlannerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPhaseTypes lists the phase type reference list.
func (h *CoachHandler) GetPhaseTypes(c *gin.Context) {
	phaseTypes, err := h.plannerService.ListPhaseTypes(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve phase types")
		return
	}
	c.JSON(http.StatusOK, phaseTypes)
}

// CreatePhaseType adds a phase type to the reference list.
func (h *CoachHandler) CreatePhaseType(c *gin.Context) {
	var req PhaseTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, "Validation error: "+err.Error())
		return
	}

	phaseType, err := h.plannerService.CreatePhaseType(c.Request.Context(), req.Name, req.Description, req.DefaultWeeks)
	if err != nil {
		if errors.Is(err, service.ErrMissingName) {
			abortWithCode(c, http.StatusBadRequest, CodeMissingName, err.Error())
			return
		}
		abortWithCode(c, http.StatusInternalServerError, CodeSave, "Failed to create phase type")
		return
	}
	c.JSON(http.StatusCreated, phaseType)
}

// respondPlannerError maps planner service errors to HTTP responses.
func (h *CoachHandler) respondPlannerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorizedAccess):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrNoActivePlan),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrPrescriptionNotFound),
		errors.Is(err, service.ErrPhaseTypeNotFound),
		errors.Is(err, service.ErrLogNotFound),
		errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMissingName):
		abortWithCode(c, http.StatusBadRequest, CodeMissingName, err.Error())
	case errors.Is(err, service.ErrInvalidPrescription):
		abortWithCode(c, http.StatusBadRequest, CodeInvalidInput, err.Error())
	default:
		abortWithCode(c, http.StatusInternalServerError, CodeSave, "Operation failed")
	}
}

// --- Mapping Helpers ---

func mapPlanToResponse(plan *domain.TrainingPlan) PlanResponse {
	resp := PlanResponse{
		ID:        plan.ID.Hex(),
		StudentID: plan.StudentID.Hex(),
		Name:      plan.Name,
		StartDate: plan.StartDate,
		IsActive:  plan.IsActive,
		CreatedAt: plan.CreatedAt,
	}
	if plan.CoachID != nil {
		resp.CoachID = plan.CoachID.Hex()
	}
	return resp
}

func mapPlansToResponse(plans []domain.TrainingPlan) []PlanResponse {
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = mapPlanToResponse(&plans[i])
	}
	return responses
}

func mapSessionToResponse(session *domain.Session) SessionResponse {
	resp := SessionResponse{
		ID:          session.ID.Hex(),
		PlanID:      session.PlanID.Hex(),
		WeekNumber:  session.WeekNumber,
		DayName:     session.DayName,
		OrderIndex:  session.OrderIndex,
		IsCompleted: session.IsCompleted,
	}
	if session.PhaseTypeID != nil {
		resp.PhaseTypeID = session.PhaseTypeID.Hex()
	}
	return resp
}

func mapPrescriptionToResponse(p *domain.SessionExercise) PrescriptionResponse {
	return PrescriptionResponse{
		ID:          p.ID.Hex(),
		SessionID:   p.SessionID.Hex(),
		ExerciseID:  p.ExerciseID.Hex(),
		Sets:        p.Sets,
		Reps:        p.Reps,
		RPETarget:   p.RPETarget,
		RestSeconds: p.RestSeconds,
		CoachNotes:  p.CoachNotes,
		OrderIndex:  p.OrderIndex,
	}
}

func mapLogToResponse(l *domain.WorkoutLog) WorkoutLogResponse {
	return WorkoutLogResponse{
		ID:                l.ID.Hex(),
		SessionExerciseID: l.SessionExerciseID.Hex(),
		StudentID:         l.StudentID.Hex(),
		SetNumber:         l.SetNumber,
		WeightKg:          l.WeightKg,
		RepsPerformed:     l.RepsPerformed,
		RPEActual:         l.RPEActual,
		StudentNotes:      l.StudentNotes,
		CoachFeedback:     l.CoachFeedback,
		IsValidated:       l.IsValidated,
		CreatedAt:         l.CreatedAt,
	}
}

func mapLogsToResponse(logs []domain.WorkoutLog) []WorkoutLogResponse {
	responses := make([]WorkoutLogResponse, len(logs))
	for i := range logs {
		responses[i] = mapLogToResponse(&logs[i])
	}
	return responses
}
