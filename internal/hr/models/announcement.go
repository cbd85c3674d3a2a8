// Package models defines the core domain models for HR platform entities:
// announcements, notifications, incidents, documents, users and employees.
// Every entity carries the standard audit fields (ID, CreatedAt, UpdatedAt)
// and the IsActive soft-delete flag.
package models

import (
	"time"
)

// Priority is the urgency level shared by announcements, notifications
// and incidents.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// AnnouncementType categorizes an announcement.
type AnnouncementType string

const (
	AnnouncementInfo   AnnouncementType = "info"
	AnnouncementEvent  AnnouncementType = "event"
	AnnouncementPolicy AnnouncementType = "policy"
	AnnouncementUrgent AnnouncementType = "urgent"
)

func (t AnnouncementType) Valid() bool {
	switch t {
	case AnnouncementInfo, AnnouncementEvent, AnnouncementPolicy, AnnouncementUrgent:
		return true
	}
	return false
}

// Announcement is a company-wide announcement entity.
type Announcement struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Summary     string           `json:"summary"`
	Type        AnnouncementType `json:"type"`
	Priority    Priority         `json:"priority"`
	Category    string           `json:"category"`
	IsPublished bool             `json:"isPublished"`
	IsPinned    bool             `json:"isPinned"`
	PublishDate time.Time        `json:"publishDate"`
	ExpiryDate  *time.Time       `json:"expiryDate,omitempty"`
	ReadCount   int              `json:"readCount"`
	LikeCount   int              `json:"likeCount"`
	Tags        []string         `json:"tags"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	IsActive    bool             `json:"isActive"`
}

// AnnouncementUpdate represents the fields that can be updated for an
// Announcement. Pointer types are used to allow partial updates: a nil
// field is left untouched in the stored document.
type AnnouncementUpdate struct {
	Title       *string           `json:"title,omitempty"`
	Content     *string           `json:"content,omitempty"`
	Summary     *string           `json:"summary,omitempty"`
	Type        *AnnouncementType `json:"type,omitempty"`
	Priority    *Priority         `json:"priority,omitempty"`
	Category    *string           `json:"category,omitempty"`
	IsPublished *bool             `json:"isPublished,omitempty"`
	IsPinned    *bool             `json:"isPinned,omitempty"`
	ExpiryDate  *time.Time        `json:"expiryDate,omitempty"`
	Tags        *[]string         `json:"tags,omitempty"`
}

// Changes returns only the set fields as a field map suitable for a
// partial document update.
func (u *AnnouncementUpdate) Changes() map[string]any {
	c := map[string]any{}
	if u.Title != nil {
		c["title"] = *u.Title
	}
	if u.Content != nil {
		c["content"] = *u.Content
	}
	if u.Summary != nil {
		c["summary"] = *u.Summary
	}
	if u.Type != nil {
		c["type"] = *u.Type
	}
	if u.Priority != nil {
		c["priority"] = *u.Priority
	}
	if u.Category != nil {
		c["category"] = *u.Category
	}
	if u.IsPublished != nil {
		c["isPublished"] = *u.IsPublished
	}
	if u.IsPinned != nil {
		c["isPinned"] = *u.IsPinned
	}
	if u.ExpiryDate != nil {
		c["expiryDate"] = *u.ExpiryDate
	}
	if u.Tags != nil {
		c["tags"] = *u.Tags
	}
	return c
}

// AnnouncementFilter narrows the announcement list. Zero values mean
// "no constraint"; filters are combined with logical AND.
type AnnouncementFilter struct {
	Search          string
	Type            AnnouncementType
	Priority        Priority
	Category        string
	PublishedOnly   bool
	From            *time.Time
	To              *time.Time
	IncludeInactive bool
	SortBy          string
	SortDesc        bool
}
