package models

import (
	"time"
)

// DocumentType categorizes a stored document.
type DocumentType string

const (
	DocumentPolicy   DocumentType = "policy"
	DocumentContract DocumentType = "contract"
	DocumentForm     DocumentType = "form"
	DocumentReport   DocumentType = "report"
	DocumentOther    DocumentType = "other"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentPolicy, DocumentContract, DocumentForm, DocumentReport, DocumentOther:
		return true
	}
	return false
}

// AccessLevel controls who may open a document.
type AccessLevel string

const (
	AccessPublic     AccessLevel = "public"
	AccessPrivate    AccessLevel = "private"
	AccessRestricted AccessLevel = "restricted"
)

func (a AccessLevel) Valid() bool {
	switch a {
	case AccessPublic, AccessPrivate, AccessRestricted:
		return true
	}
	return false
}

// Document is a stored file entity. The file body is base64-encoded
// into Content inside the document record itself; FileName, FileSize
// and FileType describe the original upload.
type Document struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Type        DocumentType `json:"type"`
	Category    string       `json:"category"`
	UploadedBy  string       `json:"uploadedBy"`
	FileName    string       `json:"fileName"`
	FileSize    int64        `json:"fileSize"`
	FileType    string       `json:"fileType"`
	Content     string       `json:"content,omitempty"`
	URL         string       `json:"url,omitempty"`
	AccessLevel AccessLevel  `json:"accessLevel"`
	ExpiryDate  *time.Time   `json:"expiryDate,omitempty"`
	Version     int          `json:"version"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	IsActive    bool         `json:"isActive"`
}

// DocumentUpdate represents the fields that can be updated for a Document.
type DocumentUpdate struct {
	Title       *string       `json:"title,omitempty"`
	Type        *DocumentType `json:"type,omitempty"`
	Category    *string       `json:"category,omitempty"`
	AccessLevel *AccessLevel  `json:"accessLevel,omitempty"`
	ExpiryDate  *time.Time    `json:"expiryDate,omitempty"`
	Version     *int          `json:"version,omitempty"`
}

// Changes returns only the set fields as a field map suitable for a
// partial document update.
func (u *DocumentUpdate) Changes() map[string]any {
	c := map[string]any{}
	if u.Title != nil {
		c["title"] = *u.Title
	}
	if u.Type != nil {
		c["type"] = *u.Type
	}
	if u.Category != nil {
		c["category"] = *u.Category
	}
	if u.AccessLevel != nil {
		c["accessLevel"] = *u.AccessLevel
	}
	if u.ExpiryDate != nil {
		c["expiryDate"] = *u.ExpiryDate
	}
	if u.Version != nil {
		c["version"] = *u.Version
	}
	return c
}

// DocumentFilter narrows the document list.
type DocumentFilter struct {
	Search          string
	Type            DocumentType
	Category        string
	AccessLevel     AccessLevel
	UploadedBy      string
	IncludeInactive bool
	SortBy          string
	SortDesc        bool
}
