package service

import (
	"context"
	"errors"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutinePrescription is a prescription joined with its catalog exercise and
// the per-set rep targets parsed from the reps string.
type RoutinePrescription struct {
	Prescription domain.SessionExercise `json:"prescription"`
	Exercise     *domain.Exercise       `json:"exercise,omitempty"` // Nil when the catalog entry was deleted
	TargetReps   []int                  `json:"targetReps,omitempty"`
}

// RoutineSession is a session with its prescriptions in order.
type RoutineSession struct {
	Session   domain.Session        `json:"session"`
	PhaseType *domain.PhaseType     `json:"phaseType,omitempty"`
	Exercises []RoutinePrescription `json:"exercises"`
}

// PlanRoutine is the fully expanded view of a training plan: every session
// in week/order sequence with its prescriptions and exercises attached.
type PlanRoutine struct {
	Plan     domain.TrainingPlan `json:"plan"`
	Sessions []RoutineSession    `json:"sessions"`
}

// routineBuilder assembles PlanRoutine views. The joins run as one batch
// query per collection rather than per session.
type routineBuilder struct {
	sessionRepo         repository.SessionRepository
	sessionExerciseRepo repository.SessionExerciseRepository
	exerciseRepo        repository.ExerciseRepository
	phaseTypeRepo       repository.PhaseTypeRepository
}

func (b *routineBuilder) build(ctx context.Context, plan *domain.TrainingPlan) (*PlanRoutine, error) {
	sessions, err := b.sessionRepo.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, err
	}

	sessionIDs := make([]primitive.ObjectID, len(sessions))
	for i, s := range sessions {
		sessionIDs[i] = s.ID
	}

	prescriptions, err := b.sessionExerciseRepo.GetBySessionIDs(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	bySession := make(map[primitive.ObjectID][]domain.SessionExercise)
	exerciseIDSet := make(map[primitive.ObjectID]struct{})
	for _, p := range prescriptions {
		bySession[p.SessionID] = append(bySession[p.SessionID], p)
		exerciseIDSet[p.ExerciseID] = struct{}{}
	}

	exercisesByID, err := b.loadExercises(ctx, exerciseIDSet)
	if err != nil {
		return nil, err
	}

	phaseTypesByID, err := b.loadPhaseTypes(ctx, sessions)
	if err != nil {
		return nil, err
	}

	routine := &PlanRoutine{
		Plan:     *plan,
		Sessions: make([]RoutineSession, 0, len(sessions)),
	}
	for _, session := range sessions {
		rs := RoutineSession{
			Session:   session,
			Exercises: make([]RoutinePrescription, 0, len(bySession[session.ID])),
		}
		if session.PhaseTypeID != nil {
			rs.PhaseType = phaseTypesByID[*session.PhaseTypeID]
		}
		for _, p := range bySession[session.ID] {
			rp := RoutinePrescription{
				Prescription: p,
				TargetReps:   domain.ParseTargetReps(p.Reps, p.Sets),
			}
			if ex, ok := exercisesByID[p.ExerciseID]; ok {
				rp.Exercise = ex
			}
			rs.Exercises = append(rs.Exercises, rp)
		}
		routine.Sessions = append(routine.Sessions, rs)
	}
	return routine, nil
}

func (b *routineBuilder) loadExercises(ctx context.Context, idSet map[primitive.ObjectID]struct{}) (map[primitive.ObjectID]*domain.Exercise, error) {
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	exercises, err := b.exerciseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*domain.Exercise, len(exercises))
	for i := range exercises {
		byID[exercises[i].ID] = &exercises[i]
	}
	return byID, nil
}

func (b *routineBuilder) loadPhaseTypes(ctx context.Context, sessions []domain.Session) (map[primitive.ObjectID]*domain.PhaseType, error) {
	byID := make(map[primitive.ObjectID]*domain.PhaseType)
	for _, s := range sessions {
		if s.PhaseTypeID == nil {
			continue
		}
		if _, ok := byID[*s.PhaseTypeID]; ok {
			continue
		}
		pt, err := b.phaseTypeRepo.GetByID(ctx, *s.PhaseTypeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		byID[*s.PhaseTypeID] = pt
	}
	return byID, nil
}
