package models

import (
	"time"
)

// NotificationType categorizes a notification.
type NotificationType string

const (
	NotificationInfo     NotificationType = "info"
	NotificationWarning  NotificationType = "warning"
	NotificationAlert    NotificationType = "alert"
	NotificationReminder NotificationType = "reminder"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationWarning, NotificationAlert, NotificationReminder:
		return true
	}
	return false
}

// Notification is a per-recipient message entity.
type Notification struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	Priority    Priority         `json:"priority"`
	Category    string           `json:"category"`
	RecipientID string           `json:"recipientId"`
	IsRead      bool             `json:"isRead"`
	IsPinned    bool             `json:"isPinned"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	IsActive    bool             `json:"isActive"`
}

// NotificationUpdate represents the fields that can be updated for a
// Notification.
type NotificationUpdate struct {
	Title     *string           `json:"title,omitempty"`
	Message   *string           `json:"message,omitempty"`
	Type      *NotificationType `json:"type,omitempty"`
	Priority  *Priority         `json:"priority,omitempty"`
	Category  *string           `json:"category,omitempty"`
	IsRead    *bool             `json:"isRead,omitempty"`
	IsPinned  *bool             `json:"isPinned,omitempty"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
}

// Changes returns only the set fields as a field map suitable for a
// partial document update.
func (u *NotificationUpdate) Changes() map[string]any {
	c := map[string]any{}
	if u.Title != nil {
		c["title"] = *u.Title
	}
	if u.Message != nil {
		c["message"] = *u.Message
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
	if u.IsRead != nil {
		c["isRead"] = *u.IsRead
	}
	if u.IsPinned != nil {
		c["isPinned"] = *u.IsPinned
	}
	if u.ExpiresAt != nil {
		c["expiresAt"] = *u.ExpiresAt
	}
	return c
}

// NotificationFilter narrows the notification list.
type NotificationFilter struct {
	Search          string
	Type            NotificationType
	Priority        Priority
	Category        string
	RecipientID     string
	UnreadOnly      bool
	IncludeInactive bool
	SortBy          string
	SortDesc        bool
}
