package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLog records the student's actual performance for one set of a
// prescription. Sets the student left fully blank are never stored, so a
// prescription may have fewer logged rows than prescribed sets.
// CoachFeedback and IsValidated are written later by the coach.
type WorkoutLog struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionExerciseID primitive.ObjectID `bson:"sessionExerciseId" json:"sessionExerciseId"`
	StudentID         primitive.ObjectID `bson:"studentId" json:"studentId"`
	SetNumber         int                `bson:"setNumber" json:"setNumber"` // 1-based, <= prescription sets
	WeightKg          *float64           `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	RepsPerformed     *int               `bson:"repsPerformed,omitempty" json:"repsPerformed,omitempty"`
	RPEActual         *float64           `bson:"rpeActual,omitempty" json:"rpeActual,omitempty"`
	StudentNotes      string             `bson:"studentNotes,omitempty" json:"studentNotes,omitempty"`
	CoachFeedback     string             `bson:"coachFeedback,omitempty" json:"coachFeedback,omitempty"`
	IsValidated       bool               `bson:"isValidated" json:"isValidated"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
