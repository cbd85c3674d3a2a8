package models

import (
	"time"
)

// Role grants a user their permission level.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// UserStatus tracks whether an account may sign in.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInactive, UserSuspended:
		return true
	}
	return false
}

// EmergencyContact is nested inside a user profile.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// User is an application account profile, keyed to the authentication
// provider's principal id.
type User struct {
	ID               string           `json:"id"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Email            string           `json:"email"`
	Role             Role             `json:"role"`
	Department       string           `json:"department"`
	Position         string           `json:"position"`
	Status           UserStatus       `json:"status"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
	IsActive         bool             `json:"isActive"`
}

// UserUpdate represents the fields that can be updated for a User.
type UserUpdate struct {
	FirstName        *string           `json:"firstName,omitempty"`
	LastName         *string           `json:"lastName,omitempty"`
	Email            *string           `json:"email,omitempty"`
	Role             *Role             `json:"role,omitempty"`
	Department       *string           `json:"department,omitempty"`
	Position         *string           `json:"position,omitempty"`
	Status           *UserStatus       `json:"status,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
}

// Changes returns only the set fields as a field map suitable for a
// partial document update.
func (u *UserUpdate) Changes() map[string]any {
	c := map[string]any{}
	if u.FirstName != nil {
		c["firstName"] = *u.FirstName
	}
	if u.LastName != nil {
		c["lastName"] = *u.LastName
	}
	if u.Email != nil {
		c["email"] = *u.Email
	}
	if u.Role != nil {
		c["role"] = *u.Role
	}
	if u.Department != nil {
		c["department"] = *u.Department
	}
	if u.Position != nil {
		c["position"] = *u.Position
	}
	if u.Status != nil {
		c["status"] = *u.Status
	}
	if u.EmergencyContact != nil {
		c["emergencyContact"] = *u.EmergencyContact
	}
	return c
}

// UserFilter narrows the user list.
type UserFilter struct {
	Search          string
	Role            Role
	Department      string
	Status          UserStatus
	IncludeInactive bool
	SortBy          string
	SortDesc        bool
}
