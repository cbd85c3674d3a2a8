package models

import (
	"time"
)

// IncidentSeverity grades the impact of an incident.
type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "low"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityHigh     IncidentSeverity = "high"
	SeverityCritical IncidentSeverity = "critical"
)

func (s IncidentSeverity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// IncidentStatus tracks an incident through its lifecycle.
type IncidentStatus string

const (
	StatusOpen          IncidentStatus = "open"
	StatusInvestigating IncidentStatus = "investigating"
	StatusResolved      IncidentStatus = "resolved"
	StatusClosed        IncidentStatus = "closed"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInvestigating, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// IncidentNote is a comment embedded inside its parent incident.
// Notes are never queried independently of the parent, so they live
// inline rather than in their own collection.
type IncidentNote struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Incident is a workplace incident report entity.
type Incident struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Severity    IncidentSeverity `json:"severity"`
	Status      IncidentStatus   `json:"status"`
	Priority    Priority         `json:"priority"`
	AssigneeID  *string          `json:"assigneeId,omitempty"`
	Location    string           `json:"location"`
	Notes       []IncidentNote   `json:"notes"`
	ResolvedAt  *time.Time       `json:"resolvedAt,omitempty"`
	ClosedAt    *time.Time       `json:"closedAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	IsActive    bool             `json:"isActive"`
}

// IncidentUpdate represents the fields that can be updated for an Incident.
type IncidentUpdate struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Severity    *IncidentSeverity `json:"severity,omitempty"`
	Priority    *Priority         `json:"priority,omitempty"`
	AssigneeID  *string           `json:"assigneeId,omitempty"`
	Location    *string           `json:"location,omitempty"`
}

// Changes returns only the set fields as a field map suitable for a
// partial document update.
func (u *IncidentUpdate) Changes() map[string]any {
	c := map[string]any{}
	if u.Title != nil {
		c["title"] = *u.Title
	}
	if u.Description != nil {
		c["description"] = *u.Description
	}
	if u.Category != nil {
		c["category"] = *u.Category
	}
	if u.Severity != nil {
		c["severity"] = *u.Severity
	}
	if u.Priority != nil {
		c["priority"] = *u.Priority
	}
	if u.AssigneeID != nil {
		c["assigneeId"] = *u.AssigneeID
	}
	if u.Location != nil {
		c["location"] = *u.Location
	}
	return c
}

// IncidentFilter narrows the incident list.
type IncidentFilter struct {
	Search          string
	Category        string
	Severity        IncidentSeverity
	Status          IncidentStatus
	Priority        Priority
	AssigneeID      string
	From            *time.Time
	To              *time.Time
	IncludeInactive bool
	SortBy          string
	SortDesc        bool
}
