package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles.
type Role string

// Define constants for roles. A freshly provisioned profile has no role
// until an admin assigns one.
const (
	RoleCoach   Role = "COACH"
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r Role) bool {
	return r == RoleCoach || r == RoleStudent || r == RoleAdmin
}

// Profile represents a user account record (admin, coach or student).
type Profile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	LastName     string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email        string             `bson:"email" json:"email"` // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role,omitempty" json:"role,omitempty"` // Empty until assigned
	AvatarURL    string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (p *Profile) IsCoach() bool {
	return p.Role == RoleCoach
}

func (p *Profile) IsStudent() bool {
	return p.Role == RoleStudent
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanCoach reports whether the profile may act in a coaching capacity.
// Admins are coach-equivalent everywhere a coach is required.
func (p *Profile) CanCoach() bool {
	return p.Role == RoleCoach || p.Role == RoleAdmin
}

// FullName joins name and last name, tolerating either being empty.
func (p *Profile) FullName() string {
	if p.LastName == "" {
		return p.Name
	}
	if p.Name == "" {
		return p.LastName
	}
	return p.Name + " " + p.LastName
}
