package api

import (
	"net/http"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"
	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all HTTP routes. Role gates run against the profile row
// loaded by ProfileMiddleware, so role changes apply without re-login.
// Admins pass every coach gate.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	profileRepo repository.ProfileRepository,
	authService service.AuthService,
	profileService service.ProfileService,
	adminService service.AdminService,
	exerciseService service.ExerciseService,
	plannerService service.PlannerService,
	studentService service.StudentService,
) {
	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(profileService)
	adminHandler := NewAdminHandler(adminService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	coachHandler := NewCoachHandler(plannerService)
	studentHandler := NewStudentHandler(studentService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret), ProfileMiddleware(profileRepo))
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me", profileHandler.UpdateMe)
		protected.POST("/me/avatar-url", profileHandler.RequestAvatarUpload)

		// --- Admin Routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.POST("/invitations", adminHandler.InviteUser)
			adminGroup.GET("/profiles", adminHandler.GetProfiles)
			adminGroup.PUT("/profiles/:profileId/role", adminHandler.UpdateRole)
			adminGroup.GET("/assignments", adminHandler.GetAssignments)
			adminGroup.POST("/assignments", adminHandler.CreateAssignment)
			adminGroup.DELETE("/assignments", adminHandler.DeleteAssignment)
			adminGroup.GET("/plans", adminHandler.GetAllPlans)
		}

		// --- Exercise Catalog ---
		// The catalog is readable by anyone signed in; writes are reserved
		// to coaching roles.
		coachOnly := RoleMiddleware(domain.RoleCoach, domain.RoleAdmin)
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.GetExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.POST("", coachOnly, exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:exerciseId", coachOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", coachOnly, exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:exerciseId/video-upload", coachOnly, exerciseHandler.RequestVideoUpload)
			exerciseGroup.POST("/:exerciseId/video-confirm", coachOnly, exerciseHandler.ConfirmVideoUpload)
		}

		// --- Coach Routes ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(coachOnly)
		{
			coachGroup.GET("/students", coachHandler.GetStudents)

			coachGroup.POST("/students/:studentId/plans", coachHandler.CreatePlan)
			coachGroup.GET("/students/:studentId/plans", coachHandler.GetPlansForStudent)
			coachGroup.GET("/students/:studentId/logs", coachHandler.GetStudentLogs)
			coachGroup.GET("/students/:studentId/routine", coachHandler.GetStudentRoutine)

			coachGroup.GET("/plans/:planId", coachHandler.GetPlanRoutine)
			coachGroup.POST("/plans/:planId/weeks", coachHandler.AddWeek)
			coachGroup.POST("/plans/:planId/sessions", coachHandler.AddSession)

			coachGroup.POST("/sessions/:sessionId/exercises", coachHandler.AddExercise)
			coachGroup.PUT("/session-exercises/:prescriptionId", coachHandler.UpdatePrescription)
			coachGroup.DELETE("/session-exercises/:prescriptionId", coachHandler.DeletePrescription)

			coachGroup.POST("/logs/:logId/feedback", coachHandler.LogFeedback)

			coachGroup.GET("/phase-types", coachHandler.GetPhaseTypes)
			coachGroup.POST("/phase-types", coachHandler.CreatePhaseType)
		}

		// --- Student Routes ---
		studentGroup := protected.Group("/student")
		studentGroup.Use(RoleMiddleware(domain.RoleStudent))
		{
			studentGroup.GET("/plan", studentHandler.GetActivePlan)
			studentGroup.GET("/routine", studentHandler.GetRoutine)
			studentGroup.GET("/session/today", studentHandler.GetTodaysSession)
			studentGroup.POST("/logs", studentHandler.RecordLogs)
			studentGroup.GET("/logs", studentHandler.GetMyLogs)
			studentGroup.GET("/session-exercises/:prescriptionId/logs", studentHandler.GetLogsForPrescription)
		}
	}
}
