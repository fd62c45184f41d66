package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultDayName is the day seeded when a coach adds a new week.
// Day names are stored as English weekday names regardless of UI locale,
// so that today's-session matching against time.Weekday works.
const DefaultDayName = "Monday"

// Session represents one scheduled training day within a plan, addressed
// by week number and its position within that week.
type Session struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlanID      primitive.ObjectID  `bson:"planId" json:"planId"`
	WeekNumber  int                 `bson:"weekNumber" json:"weekNumber"` // 1-based
	DayName     string              `bson:"dayName" json:"dayName"`       // English weekday name, or free text
	OrderIndex  int                 `bson:"orderIndex" json:"orderIndex"` // Position within the week, 1-based
	PhaseTypeID *primitive.ObjectID `bson:"phaseTypeId,omitempty" json:"phaseTypeId,omitempty"`
	IsCompleted bool                `bson:"isCompleted" json:"isCompleted"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// PhaseType labels a training phase a session belongs to (e.g. accumulation,
// intensification) with a conventional duration in weeks.
type PhaseType struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	DefaultWeeks int                `bson:"defaultWeeks,omitempty" json:"defaultWeeks,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
