package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachStudentAssignment links a coach to a student. Maintained only by
// admins, and authoritative for which students a coach may see and edit
// (a plan's coachId is informational, not an access grant).
type CoachStudentAssignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`
	StudentID primitive.ObjectID `bson:"studentId" json:"studentId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
