package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingPlan represents a student's multi-week training program.
// A student is expected to have at most one active plan; readers resolve
// ambiguity by taking the most recently created active one.
type TrainingPlan struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CoachID   *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"` // Optional
	StudentID primitive.ObjectID  `bson:"studentId" json:"studentId"`
	Name      string              `bson:"name" json:"name"` // e.g., "Phase 1: Hypertrophy"
	StartDate *time.Time          `bson:"startDate,omitempty" json:"startDate,omitempty"`
	IsActive  bool                `bson:"isActive" json:"isActive"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
