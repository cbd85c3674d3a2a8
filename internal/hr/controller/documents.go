package controller

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"time"

	e "github.com/gartstein/hrms/internal/hr/errors"
	"github.com/gartstein/hrms/internal/hr/events"
	"github.com/gartstein/hrms/internal/hr/models"
	"github.com/gartstein/hrms/internal/hr/store"
	"go.uber.org/zap"
)

const documentsCollection = "documents"

// maxFileSize caps uploads so a single record stays well under the
// backing store's document size limit.
const maxFileSize = 8 << 20

// DocumentStats summarizes the active document set.
type DocumentStats struct {
	Total         int                         `json:"total"`
	ByType        map[models.DocumentType]int `json:"byType"`
	ByAccessLevel map[models.AccessLevel]int  `json:"byAccessLevel"`
	ByCategory    map[string]int              `json:"byCategory"`
	TotalBytes    int64                       `json:"totalBytes"`
	CreatedToday  int                         `json:"createdToday"`
}

// DocumentService manages stored documents. File bodies are
// base64-encoded into the record itself rather than handed to an
// external object store.
type DocumentService struct {
	store    Store
	producer EventProducer
	logger   *zap.Logger
}

func NewDocumentService(st Store, producer EventProducer, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		store:    st,
		producer: producer,
		logger:   logger.Named("document_service"),
	}
}

// List returns documents matching the filter, newest first unless the
// filter asks otherwise.
func (s *DocumentService) List(ctx context.Context, filter *models.DocumentFilter) ([]models.Document, error) {
	if filter == nil {
		filter = &models.DocumentFilter{}
	}
	opts := &store.Options{}
	if !filter.IncludeInactive {
		opts.Where = append(opts.Where, store.Condition{Field: "isActive", Op: store.OpEq, Value: true})
	}
	if filter.Type != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "type", Op: store.OpEq, Value: filter.Type})
	}
	if filter.Category != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "category", Op: store.OpEq, Value: filter.Category})
	}
	if filter.AccessLevel != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "accessLevel", Op: store.OpEq, Value: filter.AccessLevel})
	}
	if filter.UploadedBy != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "uploadedBy", Op: store.OpEq, Value: filter.UploadedBy})
	}

	docs, err := s.store.GetCollection(ctx, documentsCollection, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	items, err := decodeAll[models.Document](docs)
	if err != nil {
		return nil, err
	}

	filtered := items[:0]
	for _, d := range items {
		if !matchSearch(filter.Search, d.Title, d.FileName, d.Category) {
			continue
		}
		filtered = append(filtered, d)
	}

	by, desc := filter.SortBy, filter.SortDesc
	if by == "" {
		by, desc = "createdAt", true
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if desc {
			a, b = b, a
		}
		switch by {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "fileSize":
			return a.FileSize < b.FileSize
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return filtered, nil
}

func (s *DocumentService) GetByID(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.store.GetDocument(ctx, documentsCollection, id)
	if err != nil {
		return nil, err
	}
	return decode[models.Document](doc)
}

// Create stores a new document record. When fileData is non-nil the
// body is base64-encoded into the record and the size/metadata fields
// are derived from the upload.
func (s *DocumentService) Create(ctx context.Context, d *models.Document, fileData []byte) (*models.Document, error) {
	if d.Title == "" {
		return nil, fmt.Errorf("%w: title is required", e.ErrInvalidInput)
	}
	if !d.Type.Valid() {
		return nil, fmt.Errorf("%w: document type %q", e.ErrInvalidEnum, d.Type)
	}
	if d.AccessLevel == "" {
		d.AccessLevel = models.AccessPrivate
	}
	if !d.AccessLevel.Valid() {
		return nil, fmt.Errorf("%w: access level %q", e.ErrInvalidEnum, d.AccessLevel)
	}
	if len(fileData) > maxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", e.ErrInvalidInput, maxFileSize)
	}
	if fileData != nil {
		d.Content = base64.StdEncoding.EncodeToString(fileData)
		d.FileSize = int64(len(fileData))
	}

	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	d.IsActive = true
	if d.Version == 0 {
		d.Version = 1
	}

	fields, err := encode(d)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.AddDocument(ctx, documentsCollection, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	created, err := decode[models.Document](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		// Id-only payload: the full record carries the base64 file body.
		s.producer.Produce(events.EntityCreated, documentsCollection, created.ID, nil)
	}()
	return created, nil
}

// FileBytes decodes the stored base64 body back into the original
// file content.
func (s *DocumentService) FileBytes(ctx context.Context, id string) ([]byte, *models.Document, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if d.Content == "" {
		return nil, d, fmt.Errorf("%w: document has no stored file", e.ErrNotFound)
	}
	data, err := base64.StdEncoding.DecodeString(d.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("corrupt file content for document %s: %w", id, err)
	}
	return data, d, nil
}

func (s *DocumentService) Update(ctx context.Context, id string, u *models.DocumentUpdate) (*models.Document, error) {
	if u.Type != nil && !u.Type.Valid() {
		return nil, fmt.Errorf("%w: document type %q", e.ErrInvalidEnum, *u.Type)
	}
	if u.AccessLevel != nil && !u.AccessLevel.Valid() {
		return nil, fmt.Errorf("%w: access level %q", e.ErrInvalidEnum, *u.AccessLevel)
	}
	changes := u.Changes()
	changes["updatedAt"] = time.Now().UTC()
	return s.applyChanges(ctx, id, changes)
}

func (s *DocumentService) Delete(ctx context.Context, id string) error {
	_, err := s.applyChanges(ctx, id, store.Fields{
		"isActive":  false,
		"updatedAt": time.Now().UTC(),
	})
	return err
}

func (s *DocumentService) PermanentDelete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, documentsCollection, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	go func() {
		s.producer.Produce(events.EntityDeleted, documentsCollection, id, nil)
	}()
	return nil
}

// Stats recomputes the active-set breakdowns in memory.
func (s *DocumentService) Stats(ctx context.Context) (*DocumentStats, error) {
	items, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats := &DocumentStats{
		Total:         len(items),
		ByType:        map[models.DocumentType]int{},
		ByAccessLevel: map[models.AccessLevel]int{},
		ByCategory:    map[string]int{},
	}
	for _, d := range items {
		stats.ByType[d.Type]++
		stats.ByAccessLevel[d.AccessLevel]++
		stats.ByCategory[d.Category]++
		stats.TotalBytes += d.FileSize
		if createdToday(d.CreatedAt) {
			stats.CreatedToday++
		}
	}
	return stats, nil
}

func (s *DocumentService) applyChanges(ctx context.Context, id string, changes store.Fields) (*models.Document, error) {
	doc, err := s.store.UpdateDocument(ctx, documentsCollection, id, changes)
	if err != nil {
		return nil, err
	}
	updated, err := decode[models.Document](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.EntityUpdated, documentsCollection, id, nil)
	}()
	return updated, nil
}
