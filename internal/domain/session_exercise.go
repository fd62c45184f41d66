package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionExercise is a coach's prescription of one exercise within a
// session: target sets, reps, intensity and rest. Order within the session
// is append-only; callers compute the next order index as max+1.
type SessionExercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID   primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets        int                `bson:"sets" json:"sets"`
	Reps        string             `bson:"reps,omitempty" json:"reps,omitempty"` // Single target or "|"-delimited per-set sequence
	RPETarget   float64            `bson:"rpeTarget,omitempty" json:"rpeTarget,omitempty"`
	RestSeconds int                `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	CoachNotes  string             `bson:"coachNotes,omitempty" json:"coachNotes,omitempty"`
	OrderIndex  int                `bson:"orderIndex" json:"orderIndex"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
