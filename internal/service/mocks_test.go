package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/mailer"
	"fitcoach/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the mongo implementations'
// observable behavior (sentinel errors, sort orders, max-order semantics)
// closely enough for service-level tests.

type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]domain.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[primitive.ObjectID]domain.Profile)}
}

func (r *memProfileRepo) Create(_ context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, profile.Email) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	stored := *profile
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.profiles[id] = stored
	return id, nil
}

func (r *memProfileRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *memProfileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memProfileRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProfileRepo) GetAll(_ context.Context) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memProfileRepo) UpdateRole(_ context.Context, id primitive.ObjectID, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Role = role
	p.UpdatedAt = time.Now()
	r.profiles[id] = p
	return nil
}

func (r *memProfileRepo) UpdateDetails(_ context.Context, id primitive.ObjectID, name, lastName, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Name = name
	p.LastName = lastName
	p.AvatarURL = avatarURL
	p.UpdatedAt = time.Now()
	r.profiles[id] = p
	return nil
}

type memExerciseRepo struct {
	mu        sync.Mutex
	seq       int64
	exercises map[primitive.ObjectID]domain.Exercise
}

func newMemExerciseRepo() *memExerciseRepo {
	return &memExerciseRepo{exercises: make(map[primitive.ObjectID]domain.Exercise)}
}

func (r *memExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	r.seq++
	stored := *exercise
	stored.ID = id
	stored.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	stored.UpdatedAt = stored.CreatedAt
	r.exercises[id] = stored
	return id, nil
}

func (r *memExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := e
	return &cp, nil
}

func (r *memExerciseRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Exercise, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.exercises[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memExerciseRepo) GetAll(_ context.Context) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *exercise
	stored.UpdatedAt = time.Now()
	r.exercises[exercise.ID] = stored
	return nil
}

func (r *memExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

type memAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[primitive.ObjectID]domain.CoachStudentAssignment
}

func newMemAssignmentRepo() *memAssignmentRepo {
	return &memAssignmentRepo{assignments: make(map[primitive.ObjectID]domain.CoachStudentAssignment)}
}

func (r *memAssignmentRepo) Create(_ context.Context, assignment *domain.CoachStudentAssignment) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.CoachID == assignment.CoachID && a.StudentID == assignment.StudentID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	stored := *assignment
	stored.ID = id
	stored.CreatedAt = time.Now()
	r.assignments[id] = stored
	return id, nil
}

func (r *memAssignmentRepo) Delete(_ context.Context, coachID, studentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.assignments {
		if a.CoachID == coachID && a.StudentID == studentID {
			delete(r.assignments, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memAssignmentRepo) GetAll(_ context.Context) ([]domain.CoachStudentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CoachStudentAssignment, 0, len(r.assignments))
	for _, a := range r.assignments {
		out = append(out, a)
	}
	return out, nil
}

func (r *memAssignmentRepo) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.CoachStudentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CoachStudentAssignment, 0)
	for _, a := range r.assignments {
		if a.CoachID == coachID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAssignmentRepo) Exists(_ context.Context, coachID, studentID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.CoachID == coachID && a.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]domain.TrainingPlan
	seq   int
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[primitive.ObjectID]domain.TrainingPlan)}
}

func (r *memPlanRepo) Create(_ context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *plan
	stored.ID = id
	// Monotonic timestamps so newest-first ordering is deterministic even
	// when two plans land within the same wall-clock tick.
	r.seq++
	stored.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	stored.UpdatedAt = stored.CreatedAt
	r.plans[id] = stored
	return id, nil
}

func (r *memPlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *memPlanRepo) GetActiveByStudentID(_ context.Context, studentID primitive.ObjectID) (*domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var newest *domain.TrainingPlan
	for _, p := range r.plans {
		if p.StudentID != studentID || !p.IsActive {
			continue
		}
		cp := p
		if newest == nil || cp.CreatedAt.After(newest.CreatedAt) {
			newest = &cp
		}
	}
	if newest == nil {
		return nil, repository.ErrNotFound
	}
	return newest, nil
}

func (r *memPlanRepo) GetByStudentID(_ context.Context, studentID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TrainingPlan, 0)
	for _, p := range r.plans {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPlanRepo) GetAll(_ context.Context) ([]domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TrainingPlan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPlanRepo) DeactivateOthers(_ context.Context, studentID, keepPlanID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.plans {
		if p.StudentID == studentID && id != keepPlanID && p.IsActive {
			p.IsActive = false
			r.plans[id] = p
		}
	}
	return nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]domain.Session
	seq      int
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[primitive.ObjectID]domain.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, session *domain.Session) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *session
	stored.ID = id
	r.seq++
	stored.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	r.sessions[id] = stored
	return id, nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := s
	return &cp, nil
}

func (r *memSessionRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Session, 0)
	for _, s := range r.sessions {
		if s.PlanID == planID {
			out = append(out, s)
		}
	}
	sortSessions(out)
	return out, nil
}

func (r *memSessionRepo) GetByPlanAndDay(_ context.Context, planID primitive.ObjectID, dayName string) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Session, 0)
	for _, s := range r.sessions {
		if s.PlanID == planID && s.DayName == dayName {
			out = append(out, s)
		}
	}
	sortSessions(out)
	return out, nil
}

func (r *memSessionRepo) MaxOrderIndex(_ context.Context, planID primitive.ObjectID, weekNumber int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, s := range r.sessions {
		if s.PlanID == planID && s.WeekNumber == weekNumber && s.OrderIndex > max {
			max = s.OrderIndex
		}
	}
	return max, nil
}

func sortSessions(sessions []domain.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].WeekNumber != sessions[j].WeekNumber {
			return sessions[i].WeekNumber < sessions[j].WeekNumber
		}
		return sessions[i].OrderIndex < sessions[j].OrderIndex
	})
}

type memSessionExerciseRepo struct {
	mu            sync.Mutex
	prescriptions map[primitive.ObjectID]domain.SessionExercise
}

func newMemSessionExerciseRepo() *memSessionExerciseRepo {
	return &memSessionExerciseRepo{prescriptions: make(map[primitive.ObjectID]domain.SessionExercise)}
}

func (r *memSessionExerciseRepo) Create(_ context.Context, prescription *domain.SessionExercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *prescription
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.prescriptions[id] = stored
	return id, nil
}

func (r *memSessionExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SessionExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prescriptions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *memSessionExerciseRepo) GetBySessionID(_ context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SessionExercise, 0)
	for _, p := range r.prescriptions {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *memSessionExerciseRepo) GetBySessionIDs(_ context.Context, sessionIDs []primitive.ObjectID) ([]domain.SessionExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[primitive.ObjectID]struct{}, len(sessionIDs))
	for _, id := range sessionIDs {
		wanted[id] = struct{}{}
	}
	out := make([]domain.SessionExercise, 0)
	for _, p := range r.prescriptions {
		if _, ok := wanted[p.SessionID]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *memSessionExerciseRepo) MaxOrderIndex(_ context.Context, sessionID primitive.ObjectID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, p := range r.prescriptions {
		if p.SessionID == sessionID && p.OrderIndex > max {
			max = p.OrderIndex
		}
	}
	return max, nil
}

func (r *memSessionExerciseRepo) UpdateTargets(_ context.Context, id primitive.ObjectID, sets int, reps string, rpeTarget float64, restSeconds int, coachNotes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prescriptions[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Sets = sets
	p.Reps = reps
	p.RPETarget = rpeTarget
	p.RestSeconds = restSeconds
	p.CoachNotes = coachNotes
	p.UpdatedAt = time.Now()
	r.prescriptions[id] = p
	return nil
}

func (r *memSessionExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.prescriptions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.prescriptions, id)
	return nil
}

type memWorkoutLogRepo struct {
	mu   sync.Mutex
	logs map[primitive.ObjectID]domain.WorkoutLog
}

func newMemWorkoutLogRepo() *memWorkoutLogRepo {
	return &memWorkoutLogRepo{logs: make(map[primitive.ObjectID]domain.WorkoutLog)}
}

func (r *memWorkoutLogRepo) CreateMany(_ context.Context, logs []domain.WorkoutLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range logs {
		id := primitive.NewObjectID()
		logs[i].ID = id
		logs[i].CreatedAt = now
		r.logs[id] = logs[i]
	}
	return nil
}

func (r *memWorkoutLogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := l
	return &cp, nil
}

func (r *memWorkoutLogRepo) GetBySessionExerciseAndStudent(_ context.Context, sessionExerciseID, studentID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.WorkoutLog, 0)
	for _, l := range r.logs {
		if l.SessionExerciseID == sessionExerciseID && l.StudentID == studentID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SetNumber < out[j].SetNumber })
	return out, nil
}

func (r *memWorkoutLogRepo) GetByStudentID(_ context.Context, studentID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.WorkoutLog, 0)
	for _, l := range r.logs {
		if l.StudentID == studentID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memWorkoutLogRepo) SetFeedback(_ context.Context, id primitive.ObjectID, feedback string, validated bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return repository.ErrNotFound
	}
	l.CoachFeedback = feedback
	l.IsValidated = validated
	r.logs[id] = l
	return nil
}

type memPhaseTypeRepo struct {
	mu         sync.Mutex
	phaseTypes map[primitive.ObjectID]domain.PhaseType
}

func newMemPhaseTypeRepo() *memPhaseTypeRepo {
	return &memPhaseTypeRepo{phaseTypes: make(map[primitive.ObjectID]domain.PhaseType)}
}

func (r *memPhaseTypeRepo) Create(_ context.Context, phaseType *domain.PhaseType) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *phaseType
	stored.ID = id
	stored.CreatedAt = time.Now()
	r.phaseTypes[id] = stored
	return id, nil
}

func (r *memPhaseTypeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PhaseType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pt, ok := r.phaseTypes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := pt
	return &cp, nil
}

func (r *memPhaseTypeRepo) GetAll(_ context.Context) ([]domain.PhaseType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.PhaseType, 0, len(r.phaseTypes))
	for _, pt := range r.phaseTypes {
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// memMailer records sent invitations instead of talking to a provider.
type memMailer struct {
	mu   sync.Mutex
	sent []mailer.Invitation
	fail bool
}

func (m *memMailer) SendInvitation(_ context.Context, inv mailer.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errInvitationBounced
	}
	m.sent = append(m.sent, inv)
	return nil
}

var errInvitationBounced = errors.New("smtp bounce")

// memStorage fakes presigned URL generation for exercise video tests.
type memStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (s *memStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *memStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (s *memStorage) ObjectURL(objectKey string) string {
	return "https://storage.test/public/" + objectKey
}

func (s *memStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, objectKey)
	return nil
}
