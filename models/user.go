package models

import (
	"time"
)

type Role string

const (
	RoleClient Role = "client"
	RoleLawyer Role = "lawyer"
)

// User is a profile row. Role is set at signup and never changed afterwards;
// the lawyer-only fields stay zero for clients.
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email" gorm:"unique"`
	Password        string    `json:"password,omitempty"`
	Role            Role      `json:"role" gorm:"type:varchar(20);default:'client'"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Specialty       string    `json:"specialty,omitempty"`
	YearsExperience int       `json:"years_experience,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	HourlyRate      float64   `json:"hourly_rate,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) IsLawyer() bool {
	return u.Role == RoleLawyer
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// OppositeRole returns the role of a user's counterparties: clients talk to
// lawyers and lawyers talk to clients.
func OppositeRole(r Role) Role {
	if r == RoleLawyer {
		return RoleClient
	}
	return RoleLawyer
}
