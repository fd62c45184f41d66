package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BodyZone classifies which part of the body an exercise targets.
type BodyZone string

const (
	ZoneUpperBody BodyZone = "UPPER_BODY"
	ZoneLowerBody BodyZone = "LOWER_BODY"
	ZoneCore      BodyZone = "CORE"
	ZoneFullBody  BodyZone = "FULL_BODY"
	ZoneCardio    BodyZone = "CARDIO"
	ZoneMobility  BodyZone = "MOBILITY"
)

// IsValidBodyZone reports whether z is a known body zone.
func IsValidBodyZone(z BodyZone) bool {
	switch z {
	case ZoneUpperBody, ZoneLowerBody, ZoneCore, ZoneFullBody, ZoneCardio, ZoneMobility:
		return true
	}
	return false
}

// ExerciseCategory classifies the role an exercise plays within a session.
type ExerciseCategory string

const (
	CategoryMain     ExerciseCategory = "MAIN"
	CategoryBalance  ExerciseCategory = "BALANCE"
	CategoryAux      ExerciseCategory = "AUX"
	CategoryMobility ExerciseCategory = "MOBILITY"
)

// IsValidExerciseCategory reports whether c is a known category.
func IsValidExerciseCategory(c ExerciseCategory) bool {
	switch c {
	case CategoryMain, CategoryBalance, CategoryAux, CategoryMobility:
		return true
	}
	return false
}

// Exercise represents a single exercise definition in the shared catalog.
// The catalog is global: any coach can prescribe any exercise, but the
// creating coach is recorded for auditing.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	BodyZone    BodyZone           `bson:"bodyZone,omitempty" json:"bodyZone,omitempty"` // Empty string = unset
	Category    ExerciseCategory   `bson:"category,omitempty" json:"category,omitempty"`
	VideoURL    string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
