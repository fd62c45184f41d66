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
	ErrUnauthorizedAccess   = errors.New("coach does not have access to this student")
	ErrPlanNotFound         = errors.New("training plan not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrPhaseTypeNotFound    = errors.New("phase type not found")
	ErrLogNotFound          = errors.New("workout log not found")
	ErrInvalidPrescription  = errors.New("prescription requires at least one set")
)

// PlannerService is the coach-facing side of the application: roster,
// plan construction and log review. Every operation is scoped to students
// assigned to the acting coach; admins act on any student.
type PlannerService interface {
	GetStudents(ctx context.Context, coach *domain.Profile) ([]domain.Profile, error)

	CreateTrainingPlan(ctx context.Context, coach *domain.Profile, studentID primitive.ObjectID, name string, startDate *time.Time, isActive bool) (*domain.TrainingPlan, error)
	GetPlansForStudent(ctx context.Context, coach *domain.Profile, studentID primitive.ObjectID) ([]domain.TrainingPlan, error)
	GetPlanRoutine(ctx context.Context, coach *domain.Profile, planID primitive.ObjectID) (*PlanRoutine, error)
	// GetStudentRoutine expands the student's active plan, the same view the
	// student sees.
	GetStudentRoutine(ctx context.Context, coach *domain.Profile, studentID primitive.ObjectID) (*PlanRoutine, error)

	AddWeek(ctx context.Context, coach *domain.Profile, planID primitive.ObjectID) (*domain.Session, error)
	AddSession(ctx context.Context, coach *domain.Profile, planID primitive.ObjectID, weekNumber int, dayName string, phaseTypeID *primitive.ObjectID) (*domain.Session, error)

	AddExerciseToSession(ctx context.Context, coach *domain.Profile, sessionID, exerciseID primitive.ObjectID, sets int, reps string, rpeTarget float64, restSeconds int, coachNotes string) (*domain.SessionExercise, error)
	UpdatePrescription(ctx context.Context, coach *domain.Profile, prescriptionID primitive.ObjectID, sets int, reps string, rpeTarget float64, restSeconds int, coachNotes string) error
	DeletePrescription(ctx context.Context, coach *domain.Profile, prescriptionID primitive.ObjectID) error

	GetStudentLogs(ctx context.Context, coach *domain.Profile, studentID primitive.ObjectID) ([]domain.WorkoutLog, error)
	LogFeedback(ctx context.Context, coach *domain.Profile, logID primitive.ObjectID, feedback string, validated bool) error

	ListPhaseTypes(ctx context.Context) ([]domain.PhaseType, error)
	CreatePhaseType(ctx context.Context, name, description string, defaultWeeks int) (*domain.PhaseType, error)
}

// plannerService implements the PlannerService interface.
type plannerService struct {
	profileRepo         repository.ProfileRepository
	assignmentRepo      repository.AssignmentRepository
	planRepo            repository.TrainingPlanRepository
	sessionRepo         repository.SessionRepository
	sessionExerciseRepo repository.SessionExerciseRepository
	exerciseRepo        repository.ExerciseRepository
	workoutLogRepo      repository.WorkoutLogRepository
	phaseTypeRepo       repository.PhaseTypeRepository
	routines            routineBuilder
}

// NewPlannerService creates a new instance of plannerService.
func NewPlannerService(
	profileRepo repository.ProfileRepository,
	assignmentRepo repository.AssignmentRepository,
	planRepo repository.TrainingPlanRepository,
	sessionRepo repository.SessionRepository,
	sessionExerciseRepo repository.SessionExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	workoutLogRepo repository.WorkoutLogRepository,
	phaseTypeRepo repository.PhaseTypeRepository,
) PlannerService {
	return &plannerService{
		profileRepo:         profileRepo,
		assignmentRepo:      assignmentRepo,
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

// ensureAccess verifies the coach may act on the student. The assignment
// table is the single source of truth; an admin passes unconditionally.
func (s *plannerService) ensureAccess(ctx context.Context, coach *domain.Profile, studentID primitive.ObjectID) error {
	if coach.IsAdmin() {
		return nil
	}
	ok, err := s.assignmentRepo.Exists(ctx, coach.ID, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorizedAccess
	}
	return nil
}

// resolvePlan loads a plan and checks the coach may act on its student.
func (s *plannerService) resolvePlan(ctx context.Context, coach *domain.Profile, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if err := s.ensureAccess(ctx, coach, plan.StudentID); err != nil {
		return nil, err
	}
	return plan, nil
}

// resolveSession loads a session and checks access through its plan.
func (s *plannerService) resolveSession(ctx context.Context, coach *domain.Profile, sessionID primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if _, err := s.resolvePlan(ctx, coach, session.PlanID); err != nil {
		return nil, err
	}
	return session, nil
}

// resolvePrescription loads a prescription and checks access through its
// session's plan.
func (s *plannerService) resolvePrescription(ctx context.Context, coach *domain.Profile, prescriptionID primitive.ObjectID) (*domain.SessionExercise, error) {
	prescription, err := s.sessionExerciseRepo.GetByID(ctx, prescriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, err
	}
	if _, err := s.resolveSession(ctx, coach, prescription.SessionID); err != nil {
		return nil, err
	}
	return prescription, nil
}

// GetStudents returns the coach's roster. The roster is derived from the
// assignment table, never from plan ownership, so a coach who created a
// plan for a student they were later unassigned from no longer sees them.
// Admins see every student in the system.
func (s *plannerService) GetStudents(ctx context.Context, coach *domain.Profile) ([]domain.Profile, error) {
	if coach.IsAdmin() {
		profiles, err := s.profileRepo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		students := make([]domain.Profile, 0)
		for _, p := range profiles {
			if p.IsStudent() {
				p.PasswordHash = ""
				students = append(students, p)
			}
		}
		return students, nil
	}

	assignments, err := s.assignmentRepo.GetByCoachID(ctx, coach.ID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []domain.Profile{}, nil
	}

	studentIDs := make([]primitive.ObjectID, len(assignments))
	for i, a := range assignments {
		studentIDs[i] = a.StudentID
	}
	students, err := s.profileRepo.GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	for i := range students {
		students[i].PasswordHash = ""
	}
	return students, nil
}

// CreateTrainingPlan creates a plan for an assigned student. When the new
// plan is active, every other plan of the student is deactivated so the
// at-most-one-active invariant holds.
func (s *plannerService) CreateTrainingPlan(ctx context.Context, coach *domain.Profile, studentID primitive.ObjectID, name string, startDate *time.Time, isActive bool) (*domain.TrainingPlan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}
	if err := s.ensureAccess(ctx, coach, studentID); err != nil {
		return nil, err
	}

	coachID := coach.ID
	plan := &domain.TrainingPlan{
		CoachID:   &coachID,
		StudentID: studentID,
		Name:      name,
		StartDate: startDate,
		IsActive:  isActive,
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID

	if isActive {
		if err := s.planRepo.DeactivateOthers(ctx, studentID, planID); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// GetPlansForStudent lists an assigned student's plans, newest first.
func (s *plannerService) GetPlansForStudent(ctx context.Context, coach *domain.Profile, studentID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	if err := s.ensureAccess(ctx, coach, studentID); err != nil {
		return nil, err
	}
	return s.planRepo.GetByStudentID(ctx, studentID)
}

// GetPlanRoutine returns the fully expanded plan for the planner view.
func (s *plannerService) GetPlanRoutine(ctx context.Context, coach *domain.Profile, planID primitive.ObjectID) (*PlanRoutine, error) {
	plan, err := s.resolvePlan(ctx, coach, planID)
	if err != nil {
		return nil, err
	}
	return s.routines.build(ctx, plan)
}

// GetStudentRoutine returns the expanded active plan of an assigned student.
func (s *plannerService) GetStudentRoutine(ctx context.Context, coach *domain.Profile, studentID primitive.ObjectID) (*PlanRoutine, error) {
	if err := s.ensureAccess(ctx, coach, studentID); err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetActiveByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActivePlan
		}
		return nil, err
	}
	return s.routines.build(ctx, plan)
}

// AddWeek appends a new week to the plan, seeded with a single session on
// the default day. Calling it twice appends two weeks; it is not idempotent.
func (s *plannerService) AddWeek(ctx context.Context, coach *domain.Profile, planID primitive.ObjectID) (*domain.Session, error) {
	plan, err := s.resolvePlan(ctx, coach, planID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	maxWeek := 0
	for _, sess := range sessions {
		if sess.WeekNumber > maxWeek {
			maxWeek = sess.WeekNumber
		}
	}

	session := &domain.Session{
		PlanID:     plan.ID,
		WeekNumber: maxWeek + 1,
		DayName:    domain.DefaultDayName,
		OrderIndex: 1,
	}
	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = sessionID
	return session, nil
}

// AddSession adds another training day to an existing week. The new session
// goes to the end of the week's ordering.
func (s *plannerService) AddSession(ctx context.Context, coach *domain.Profile, planID primitive.ObjectID, weekNumber int, dayName string, phaseTypeID *primitive.ObjectID) (*domain.Session, error) {
	plan, err := s.resolvePlan(ctx, coach, planID)
	if err != nil {
		return nil, err
	}
	if weekNumber < 1 {
		return nil, errors.New("week number must be at least 1")
	}

	dayName = strings.TrimSpace(dayName)
	if dayName == "" {
		dayName = domain.DefaultDayName
	}

	if phaseTypeID != nil {
		if _, err := s.phaseTypeRepo.GetByID(ctx, *phaseTypeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrPhaseTypeNotFound
			}
			return nil, err
		}
	}

	maxOrder, err := s.sessionRepo.MaxOrderIndex(ctx, plan.ID, weekNumber)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		PlanID:      plan.ID,
		WeekNumber:  weekNumber,
		DayName:     dayName,
		OrderIndex:  maxOrder + 1,
		PhaseTypeID: phaseTypeID,
	}
	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = sessionID
	return session, nil
}

// AddExerciseToSession appends a prescription to a session.
func (s *plannerService) AddExerciseToSession(ctx context.Context, coach *domain.Profile, sessionID, exerciseID primitive.ObjectID, sets int, reps string, rpeTarget float64, restSeconds int, coachNotes string) (*domain.SessionExercise, error) {
	session, err := s.resolveSession(ctx, coach, sessionID)
	if err != nil {
		return nil, err
	}
	if sets < 1 {
		return nil, ErrInvalidPrescription
	}

	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	maxOrder, err := s.sessionExerciseRepo.MaxOrderIndex(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	prescription := &domain.SessionExercise{
		SessionID:   session.ID,
		ExerciseID:  exerciseID,
		Sets:        sets,
		Reps:        strings.TrimSpace(reps),
		RPETarget:   rpeTarget,
		RestSeconds: restSeconds,
		CoachNotes:  strings.TrimSpace(coachNotes),
		OrderIndex:  maxOrder + 1,
	}
	prescriptionID, err := s.sessionExerciseRepo.Create(ctx, prescription)
	if err != nil {
		return nil, err
	}
	prescription.ID = prescriptionID
	return prescription, nil
}

// UpdatePrescription rewrites the target fields of a prescription. The
// session, exercise and order are fixed at creation.
func (s *plannerService) UpdatePrescription(ctx context.Context, coach *domain.Profile, prescriptionID primitive.ObjectID, sets int, reps string, rpeTarget float64, restSeconds int, coachNotes string) error {
	if _, err := s.resolvePrescription(ctx, coach, prescriptionID); err != nil {
		return err
	}
	if sets < 1 {
		return ErrInvalidPrescription
	}
	return s.sessionExerciseRepo.UpdateTargets(ctx, prescriptionID, sets, strings.TrimSpace(reps), rpeTarget, restSeconds, strings.TrimSpace(coachNotes))
}

// DeletePrescription removes a prescription from its session. Workout logs
// that reference it are kept as historical records.
func (s *plannerService) DeletePrescription(ctx context.Context, coach *domain.Profile, prescriptionID primitive.ObjectID) error {
	if _, err := s.resolvePrescription(ctx, coach, prescriptionID); err != nil {
		return err
	}
	return s.sessionExerciseRepo.Delete(ctx, prescriptionID)
}

// GetStudentLogs returns everything an assigned student has logged,
// newest first.
func (s *plannerService) GetStudentLogs(ctx context.Context, coach *domain.Profile, studentID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	if err := s.ensureAccess(ctx, coach, studentID); err != nil {
		return nil, err
	}
	return s.workoutLogRepo.GetByStudentID(ctx, studentID)
}

// LogFeedback attaches coach feedback to a logged set and marks whether the
// set is validated. Access follows the student who owns the log.
func (s *plannerService) LogFeedback(ctx context.Context, coach *domain.Profile, logID primitive.ObjectID, feedback string, validated bool) error {
	logEntry, err := s.workoutLogRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLogNotFound
		}
		return err
	}
	if err := s.ensureAccess(ctx, coach, logEntry.StudentID); err != nil {
		return err
	}
	return s.workoutLogRepo.SetFeedback(ctx, logID, strings.TrimSpace(feedback), validated)
}

// ListPhaseTypes returns the phase type reference list.
func (s *plannerService) ListPhaseTypes(ctx context.Context) ([]domain.PhaseType, error) {
	return s.phaseTypeRepo.GetAll(ctx)
}

// CreatePhaseType adds a new phase type to the reference list.
func (s *plannerService) CreatePhaseType(ctx context.Context, name, description string, defaultWeeks int) (*domain.PhaseType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}
	phaseType := &domain.PhaseType{
		Name:         name,
		Description:  strings.TrimSpace(description),
		DefaultWeeks: defaultWeeks,
	}
	id, err := s.phaseTypeRepo.Create(ctx, phaseType)
	if err != nil {
		return nil, err
	}
	phaseType.ID = id
	return phaseType, nil
}
