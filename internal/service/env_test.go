package service

import (
	"context"
	"testing"
	"time"

	"fitcoach/coaching-app/internal/domain"

	"github.com/stretchr/testify/require"
)

// testEnv wires every service against the in-memory fakes and seeds one
// admin, two coaches and two students. Coach A is assigned to student A;
// coach B and student B start unassigned.
type testEnv struct {
	profiles      *memProfileRepo
	exercises     *memExerciseRepo
	assignments   *memAssignmentRepo
	plans         *memPlanRepo
	sessions      *memSessionRepo
	prescriptions *memSessionExerciseRepo
	logs          *memWorkoutLogRepo
	phaseTypes    *memPhaseTypeRepo
	mail          *memMailer
	storage       *memStorage

	auth     AuthService
	account  ProfileService
	admin    AdminService
	catalog  ExerciseService
	planner  PlannerService
	students StudentService

	adminUser *domain.Profile
	coachA    *domain.Profile
	coachB    *domain.Profile
	studentA  *domain.Profile
	studentB  *domain.Profile
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		profiles:      newMemProfileRepo(),
		exercises:     newMemExerciseRepo(),
		assignments:   newMemAssignmentRepo(),
		plans:         newMemPlanRepo(),
		sessions:      newMemSessionRepo(),
		prescriptions: newMemSessionExerciseRepo(),
		logs:          newMemWorkoutLogRepo(),
		phaseTypes:    newMemPhaseTypeRepo(),
		mail:          &memMailer{},
		storage:       &memStorage{},
	}

	env.auth = NewAuthService(env.profiles, "test-secret", time.Hour)
	env.account = NewProfileService(env.profiles, env.storage)
	env.admin = NewAdminService(env.profiles, env.assignments, env.plans, env.mail, "https://app.test/login")
	env.catalog = NewExerciseService(env.exercises, env.storage)
	env.planner = NewPlannerService(env.profiles, env.assignments, env.plans, env.sessions, env.prescriptions, env.exercises, env.logs, env.phaseTypes)
	env.students = NewStudentService(env.plans, env.sessions, env.prescriptions, env.exercises, env.logs, env.phaseTypes)

	env.adminUser = env.seedProfile(t, "Ada", "Root", "admin@test.dev", domain.RoleAdmin)
	env.coachA = env.seedProfile(t, "Carla", "Alpha", "coach.a@test.dev", domain.RoleCoach)
	env.coachB = env.seedProfile(t, "Boris", "Beta", "coach.b@test.dev", domain.RoleCoach)
	env.studentA = env.seedProfile(t, "Sam", "Able", "student.a@test.dev", domain.RoleStudent)
	env.studentB = env.seedProfile(t, "Sue", "Baker", "student.b@test.dev", domain.RoleStudent)

	_, err := env.admin.AssignCoachToStudent(context.Background(), env.coachA.ID, env.studentA.ID)
	require.NoError(t, err)

	return env
}

func (env *testEnv) seedProfile(t *testing.T, name, lastName, email string, role domain.Role) *domain.Profile {
	t.Helper()
	profile := &domain.Profile{
		Name:         name,
		LastName:     lastName,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	id, err := env.profiles.Create(context.Background(), profile)
	require.NoError(t, err)
	profile.ID = id
	return profile
}

func (env *testEnv) seedExercise(t *testing.T, name string) *domain.Exercise {
	t.Helper()
	exercise, err := env.catalog.CreateExercise(context.Background(), env.coachA.ID, name, "", domain.ZoneFullBody, domain.CategoryMain, "")
	require.NoError(t, err)
	return exercise
}

// seedPlanWithPrescription builds the common scaffold: an active plan for
// student A with one Monday session in week 1 holding one prescription.
func (env *testEnv) seedPlanWithPrescription(t *testing.T, sets int, reps string) (*domain.TrainingPlan, *domain.Session, *domain.SessionExercise) {
	t.Helper()
	ctx := context.Background()

	plan, err := env.planner.CreateTrainingPlan(ctx, env.coachA, env.studentA.ID, "Base Block", nil, true)
	require.NoError(t, err)

	session, err := env.planner.AddWeek(ctx, env.coachA, plan.ID)
	require.NoError(t, err)

	exercise := env.seedExercise(t, "Back Squat")
	prescription, err := env.planner.AddExerciseToSession(ctx, env.coachA, session.ID, exercise.ID, sets, reps, 8, 120, "")
	require.NoError(t, err)

	return plan, session, prescription
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
