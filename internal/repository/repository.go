package repository

import (
	"context"

	"fitcoach/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate entry")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ProfileRepository defines the interface for interacting with profile data.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Profile, error)
	GetAll(ctx context.Context) ([]domain.Profile, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error
	UpdateDetails(ctx context.Context, id primitive.ObjectID, name, lastName, avatarURL string) error
}

// ExerciseRepository defines the interface for the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	GetAll(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AssignmentRepository manages the coach-student assignment join.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.CoachStudentAssignment) (primitive.ObjectID, error)
	Delete(ctx context.Context, coachID, studentID primitive.ObjectID) error
	GetAll(ctx context.Context) ([]domain.CoachStudentAssignment, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.CoachStudentAssignment, error)
	Exists(ctx context.Context, coachID, studentID primitive.ObjectID) (bool, error)
}

// TrainingPlanRepository defines the interface for training plan data.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	// GetActiveByStudentID returns the most recently created active plan,
	// or ErrNotFound when the student has none.
	GetActiveByStudentID(ctx context.Context, studentID primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.TrainingPlan, error)
	GetAll(ctx context.Context) ([]domain.TrainingPlan, error)
	// DeactivateOthers clears isActive on every other plan of the student.
	DeactivateOthers(ctx context.Context, studentID, keepPlanID primitive.ObjectID) error
}

// SessionRepository defines the interface for session data.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	// GetByPlanID returns the plan's sessions ordered by week number then
	// order index.
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Session, error)
	// GetByPlanAndDay returns the plan's sessions with the given day name,
	// ordered by week number then order index.
	GetByPlanAndDay(ctx context.Context, planID primitive.ObjectID, dayName string) ([]domain.Session, error)
	// MaxOrderIndex returns the highest order index within a week of the
	// plan, or 0 when the week has no sessions.
	MaxOrderIndex(ctx context.Context, planID primitive.ObjectID, weekNumber int) (int, error)
}

// SessionExerciseRepository defines the interface for prescription data.
type SessionExerciseRepository interface {
	Create(ctx context.Context, prescription *domain.SessionExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionExercise, error)
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error)
	GetBySessionIDs(ctx context.Context, sessionIDs []primitive.ObjectID) ([]domain.SessionExercise, error)
	MaxOrderIndex(ctx context.Context, sessionID primitive.ObjectID) (int, error)
	// UpdateTargets mutates only the prescription fields a coach may edit.
	UpdateTargets(ctx context.Context, id primitive.ObjectID, sets int, reps string, rpeTarget float64, restSeconds int, coachNotes string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutLogRepository defines the interface for logged-set data.
type WorkoutLogRepository interface {
	CreateMany(ctx context.Context, logs []domain.WorkoutLog) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error)
	GetBySessionExerciseAndStudent(ctx context.Context, sessionExerciseID, studentID primitive.ObjectID) ([]domain.WorkoutLog, error)
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.WorkoutLog, error)
	SetFeedback(ctx context.Context, id primitive.ObjectID, feedback string, validated bool) error
}

// PhaseTypeRepository defines the interface for phase type data.
type PhaseTypeRepository interface {
	Create(ctx context.Context, phaseType *domain.PhaseType) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PhaseType, error)
	GetAll(ctx context.Context) ([]domain.PhaseType, error)
}
