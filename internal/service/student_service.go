package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNoActivePlan     = errors.New("student has no active training plan")
	ErrEmptyWorkoutLog  = errors.New("workout log has no filled-in sets")
	ErrInvalidSetNumber = errors.New("set number is outside the prescribed range")
	ErrNotYourWorkout   = errors.New("prescription does not belong to the student's plan")
)

// SetEntry is one set of a workout as submitted by the student. A set with
// no weight, reps, RPE or notes counts as blank and is dropped, matching a
// student tabbing past sets they did not perform.
type SetEntry struct {
	SetNumber     int      `json:"setNumber"`
	WeightKg      *float64 `json:"weightKg,omitempty"`
	RepsPerformed *int     `json:"repsPerformed,omitempty"`
	RPEActual     *float64 `json:"rpeActual,omitempty"`
	StudentNotes  string   `json:"studentNotes,omitempty"`
}

func (e SetEntry) isBlank() bool {
	return e.WeightKg == nil && e.RepsPerformed == nil && e.RPEActual == nil && strings.TrimSpace(e.StudentNotes) == ""
}

// TodaysWorkout is what a student sees when opening the app: the active
// plan, the resolved day name, and the session scheduled for it (nil when
// nothing is scheduled, which is a normal state and not an error).
type TodaysWorkout struct {
	Plan    domain.TrainingPlan `json:"plan"`
	DayName string              `json:"dayName"`
	Session *RoutineSession     `json:"session,omitempty"`
}

// StudentService is the student-facing side of the application: viewing the
// assigned routine and logging performed workouts.
type StudentService interface {
	GetActivePlan(ctx context.Context, studentID primitive.ObjectID) (*domain.TrainingPlan, error)
	GetRoutine(ctx context.Context, studentID primitive.ObjectID) (*PlanRoutine, error)
	// TodaysWorkout resolves the session scheduled for now's weekday within
	// the active plan. The time is a parameter so callers control the zone.
	TodaysWorkout(ctx context.Context, studentID primitive.ObjectID, now time.Time) (*TodaysWorkout, error)
	// RecordWorkoutLogs persists the non-blank sets of a workout as one
	// batch. An all-blank submission is rejected.
	RecordWorkoutLogs(ctx context.Context, studentID, prescriptionID primitive.ObjectID, entries []SetEntry) ([]domain.WorkoutLog, error)
	GetMyLogs(ctx context.Context, studentID primitive.ObjectID) ([]domain.WorkoutLog, error)
	GetLogsForPrescription(ctx context.Context, studentID, prescriptionID primitive.ObjectID) ([]domain.WorkoutLog, error)
}

// studentService implements the StudentService interface.
type studentService struct {
	planRepo            repository.TrainingPlanRepository
	sessionRepo         repository.SessionRepository
	sessionExerciseRepo repository.SessionExerciseRepository
	exerciseRepo        repository.ExerciseRepository
	workoutLogRepo      repository.WorkoutLogRepository
	phaseTypeRepo       repository.PhaseTypeRepository
	routines            routineBuilder
}

// NewStudentService creates a new instance of studentService.
func NewStudentService(
	planRepo repository.TrainingPlanRepository,
	sessionRepo repository.SessionRepository,
	sessionExerciseRepo repository.SessionExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	workoutLogRepo repository.WorkoutLogRepository,
	phaseTypeRepo repository.PhaseTypeRepository,
) StudentService {
	return &studentService{
		planRepo:            planRepo,
		sessionRepo:         sessionRepo,
		sessionExerciseRepo: sessionExerciseRepo,
		exerciseRepo:        exerciseRepo,
		workoutLogRepo:      workoutLogRepo,
		phaseTypeRepo:       phaseTypeRepo,
		routines: routineBuilder{
			sessionRepo:         sessionRepo,
			sessionExerciseRepo: sessionExerciseRepo,
			exerciseRepo:        exerciseRepo,
			phaseTypeRepo:       phaseTypeRepo,
		},
	}
}

// GetActivePlan returns the student's current plan. When more than one plan
// is flagged active the newest one wins.
func (s *studentService) GetActivePlan(ctx context.Context, studentID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetActiveByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActivePlan
		}
		return nil, err
	}
	return plan, nil
}

// GetRoutine returns the fully expanded view of the active plan.
func (s *studentService) GetRoutine(ctx context.Context, studentID primitive.ObjectID) (*PlanRoutine, error) {
	plan, err := s.GetActivePlan(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.routines.build(ctx, plan)
}

// TodaysWorkout finds the first session of the active plan scheduled on
// today's weekday, scanning in week then order sequence.
func (s *studentService) TodaysWorkout(ctx context.Context, studentID primitive.ObjectID, now time.Time) (*TodaysWorkout, error) {
	plan, err := s.GetActivePlan(ctx, studentID)
	if err != nil {
		return nil, err
	}

	dayName := now.Weekday().String()
	result := &TodaysWorkout{
		Plan:    *plan,
		DayName: dayName,
	}

	sessions, err := s.sessionRepo.GetByPlanAndDay(ctx, plan.ID, dayName)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return result, nil
	}
	session := sessions[0]

	prescriptions, err := s.sessionExerciseRepo.GetBySessionID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	exerciseIDs := make([]primitive.ObjectID, len(prescriptions))
	for i, p := range prescriptions {
		exerciseIDs[i] = p.ExerciseID
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, exerciseIDs)
	if err != nil {
		return nil, err
	}
	exercisesByID := make(map[primitive.ObjectID]*domain.Exercise, len(exercises))
	for i := range exercises {
		exercisesByID[exercises[i].ID] = &exercises[i]
	}

	rs := &RoutineSession{
		Session:   session,
		Exercises: make([]RoutinePrescription, 0, len(prescriptions)),
	}
	if session.PhaseTypeID != nil {
		if pt, err := s.phaseTypeRepo.GetByID(ctx, *session.PhaseTypeID); err == nil {
			rs.PhaseType = pt
		}
	}
	for _, p := range prescriptions {
		rs.Exercises = append(rs.Exercises, RoutinePrescription{
			Prescription: p,
			Exercise:     exercisesByID[p.ExerciseID],
			TargetReps:   domain.ParseTargetReps(p.Reps, p.Sets),
		})
	}
	result.Session = rs
	return result, nil
}

// resolveOwnedPrescription loads a prescription and verifies the chain
// prescription -> session -> plan ends at the calling student.
func (s *studentService) resolveOwnedPrescription(ctx context.Context, studentID, prescriptionID primitive.ObjectID) (*domain.SessionExercise, error) {
	prescription, err := s.sessionExerciseRepo.GetByID(ctx, prescriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, prescription.SessionID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, session.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.StudentID != studentID {
		return nil, ErrNotYourWorkout
	}
	return prescription, nil
}

// RecordWorkoutLogs validates and stores a batch of performed sets. Blank
// sets are dropped before validation; the write is a single insert so the
// batch lands together or not at all.
func (s *studentService) RecordWorkoutLogs(ctx context.Context, studentID, prescriptionID primitive.ObjectID, entries []SetEntry) ([]domain.WorkoutLog, error) {
	prescription, err := s.resolveOwnedPrescription(ctx, studentID, prescriptionID)
	if err != nil {
		return nil, err
	}

	filled := make([]SetEntry, 0, len(entries))
	for _, e := range entries {
		if !e.isBlank() {
			filled = append(filled, e)
		}
	}
	if len(filled) == 0 {
		return nil, ErrEmptyWorkoutLog
	}

	logs := make([]domain.WorkoutLog, 0, len(filled))
	for _, e := range filled {
		if e.SetNumber < 1 || e.SetNumber > prescription.Sets {
			return nil, ErrInvalidSetNumber
		}
		logs = append(logs, domain.WorkoutLog{
			SessionExerciseID: prescription.ID,
			StudentID:         studentID,
			SetNumber:         e.SetNumber,
			WeightKg:          e.WeightKg,
			RepsPerformed:     e.RepsPerformed,
			RPEActual:         e.RPEActual,
			StudentNotes:      strings.TrimSpace(e.StudentNotes),
		})
	}

	if err := s.workoutLogRepo.CreateMany(ctx, logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// GetMyLogs returns everything the student has logged, newest first.
func (s *studentService) GetMyLogs(ctx context.Context, studentID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	return s.workoutLogRepo.GetByStudentID(ctx, studentID)
}

// GetLogsForPrescription returns the student's logged sets for one
// prescription, oldest first.
func (s *studentService) GetLogsForPrescription(ctx context.Context, studentID, prescriptionID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	if _, err := s.resolveOwnedPrescription(ctx, studentID, prescriptionID); err != nil {
		return nil, err
	}
	return s.workoutLogRepo.GetBySessionExerciseAndStudent(ctx, prescriptionID, studentID)
}
