package models

import (
	"time"
)

// EmploymentStatus tracks an employee's standing in the directory.
type EmploymentStatus string

const (
	EmploymentActive     EmploymentStatus = "active"
	EmploymentOnLeave    EmploymentStatus = "on_leave"
	EmploymentTerminated EmploymentStatus = "terminated"
)

func (s EmploymentStatus) Valid() bool {
	switch s {
	case EmploymentActive, EmploymentOnLeave, EmploymentTerminated:
		return true
	}
	return false
}

// Employee is a directory record. Distinct from User: an employee need
// not have an application account.
type Employee struct {
	ID         string           `json:"id"`
	FirstName  string           `json:"firstName"`
	LastName   string           `json:"lastName"`
	Email      string           `json:"email"`
	Department string           `json:"department"`
	Position   string           `json:"position"`
	ManagerID  *string          `json:"managerId,omitempty"`
	Phone      string           `json:"phone"`
	HireDate   time.Time        `json:"hireDate"`
	Status     EmploymentStatus `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	IsActive   bool             `json:"isActive"`
}

// EmployeeUpdate represents the fields that can be updated for an Employee.
type EmployeeUpdate struct {
	FirstName  *string           `json:"firstName,omitempty"`
	LastName   *string           `json:"lastName,omitempty"`
	Email      *string           `json:"email,omitempty"`
	Department *string           `json:"department,omitempty"`
	Position   *string           `json:"position,omitempty"`
	ManagerID  *string           `json:"managerId,omitempty"`
	Phone      *string           `json:"phone,omitempty"`
	Status     *EmploymentStatus `json:"status,omitempty"`
}

// Changes returns only the set fields as a field map suitable for a
// partial document update.
func (u *EmployeeUpdate) Changes() map[string]any {
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
	if u.Department != nil {
		c["department"] = *u.Department
	}
	if u.Position != nil {
		c["position"] = *u.Position
	}
	if u.ManagerID != nil {
		c["managerId"] = *u.ManagerID
	}
	if u.Phone != nil {
		c["phone"] = *u.Phone
	}
	if u.Status != nil {
		c["status"] = *u.Status
	}
	return c
}

// EmployeeFilter narrows the employee directory list.
type EmployeeFilter struct {
	Search          string
	Department      string
	Position        string
	Status          EmploymentStatus
	IncludeInactive bool
	SortBy          string
	SortDesc        bool
}
