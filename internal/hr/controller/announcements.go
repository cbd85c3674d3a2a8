package controller

import (
	"context"
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

const announcementsCollection = "announcements"

// AnnouncementStats summarizes the active announcement set. Counts are
// recomputed from the full set on every call.
type AnnouncementStats struct {
	Total        int                             `json:"total"`
	Published    int                             `json:"published"`
	Pinned       int                             `json:"pinned"`
	ByType       map[models.AnnouncementType]int `json:"byType"`
	ByPriority   map[models.Priority]int         `json:"byPriority"`
	ByCategory   map[string]int                  `json:"byCategory"`
	CreatedToday int                             `json:"createdToday"`
}

// AnnouncementService manages company-wide announcements.
type AnnouncementService struct {
	store    Store
	producer EventProducer
	logger   *zap.Logger
}

// NewAnnouncementService constructs an AnnouncementService with a store
// client, an event producer, and a logger.
func NewAnnouncementService(st Store, producer EventProducer, logger *zap.Logger) *AnnouncementService {
	return &AnnouncementService{
		store:    st,
		producer: producer,
		logger:   logger.Named("announcement_service"),
	}
}

// List returns announcements matching the filter. Inactive records are
// excluded unless IncludeInactive is set. Search, date range and sort
// run in memory after the fetch.
func (s *AnnouncementService) List(ctx context.Context, filter *models.AnnouncementFilter) ([]models.Announcement, error) {
	if filter == nil {
		filter = &models.AnnouncementFilter{}
	}
	opts := &store.Options{}
	if !filter.IncludeInactive {
		opts.Where = append(opts.Where, store.Condition{Field: "isActive", Op: store.OpEq, Value: true})
	}
	if filter.Type != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "type", Op: store.OpEq, Value: filter.Type})
	}
	if filter.Priority != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "priority", Op: store.OpEq, Value: filter.Priority})
	}
	if filter.Category != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "category", Op: store.OpEq, Value: filter.Category})
	}
	if filter.PublishedOnly {
		opts.Where = append(opts.Where, store.Condition{Field: "isPublished", Op: store.OpEq, Value: true})
	}

	docs, err := s.store.GetCollection(ctx, announcementsCollection, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	items, err := decodeAll[models.Announcement](docs)
	if err != nil {
		return nil, err
	}

	filtered := items[:0]
	for _, a := range items {
		if !matchSearch(filter.Search, a.Title, a.Summary, a.Content) {
			continue
		}
		if !inRange(a.PublishDate, filter.From, filter.To) {
			continue
		}
		filtered = append(filtered, a)
	}

	sortAnnouncements(filtered, filter.SortBy, filter.SortDesc)
	return filtered, nil
}

// sortAnnouncements defaults to newest publish date first; the sort is
// in memory so the backing store needs no composite index.
func sortAnnouncements(items []models.Announcement, by string, desc bool) {
	if by == "" {
		by, desc = "publishDate", true
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if desc {
			a, b = b, a
		}
		switch by {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "createdAt":
			return a.CreatedAt.Before(b.CreatedAt)
		case "readCount":
			return a.ReadCount < b.ReadCount
		default:
			return a.PublishDate.Before(b.PublishDate)
		}
	})
}

// GetByID retrieves a single announcement.
func (s *AnnouncementService) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	doc, err := s.store.GetDocument(ctx, announcementsCollection, id)
	if err != nil {
		return nil, err
	}
	return decode[models.Announcement](doc)
}

// Create stores a new announcement with zeroed counters and stamps.
func (s *AnnouncementService) Create(ctx context.Context, a *models.Announcement) (*models.Announcement, error) {
	if a.Title == "" {
		return nil, fmt.Errorf("%w: title is required", e.ErrInvalidInput)
	}
	if !a.Type.Valid() {
		return nil, fmt.Errorf("%w: announcement type %q", e.ErrInvalidEnum, a.Type)
	}
	if !a.Priority.Valid() {
		return nil, fmt.Errorf("%w: priority %q", e.ErrInvalidEnum, a.Priority)
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.IsActive = true
	a.ReadCount = 0
	a.LikeCount = 0
	if a.PublishDate.IsZero() {
		a.PublishDate = now
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}

	fields, err := encode(a)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.AddDocument(ctx, announcementsCollection, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	created, err := decode[models.Announcement](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.EntityCreated, announcementsCollection, created.ID, created)
	}()
	return created, nil
}

// Update applies a partial update and stamps UpdatedAt.
func (s *AnnouncementService) Update(ctx context.Context, id string, u *models.AnnouncementUpdate) (*models.Announcement, error) {
	if u.Type != nil && !u.Type.Valid() {
		return nil, fmt.Errorf("%w: announcement type %q", e.ErrInvalidEnum, *u.Type)
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return nil, fmt.Errorf("%w: priority %q", e.ErrInvalidEnum, *u.Priority)
	}
	changes := u.Changes()
	changes["updatedAt"] = time.Now().UTC()
	return s.applyChanges(ctx, id, changes)
}

// Delete soft-deletes: the record stays in the collection but default
// reads exclude it.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	_, err := s.applyChanges(ctx, id, store.Fields{
		"isActive":  false,
		"updatedAt": time.Now().UTC(),
	})
	return err
}

// PermanentDelete removes the record outright.
func (s *AnnouncementService) PermanentDelete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, announcementsCollection, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	go func() {
		s.producer.Produce(events.EntityDeleted, announcementsCollection, id, existing)
	}()
	return nil
}

// TogglePin flips the pinned flag.
func (s *AnnouncementService) TogglePin(ctx context.Context, id string, pinned bool) (*models.Announcement, error) {
	return s.applyChanges(ctx, id, store.Fields{
		"isPinned":  pinned,
		"updatedAt": time.Now().UTC(),
	})
}

// TogglePublish flips the published flag. Publishing resets the
// publish date to now.
func (s *AnnouncementService) TogglePublish(ctx context.Context, id string, published bool) (*models.Announcement, error) {
	now := time.Now().UTC()
	changes := store.Fields{
		"isPublished": published,
		"updatedAt":   now,
	}
	if published {
		changes["publishDate"] = now
	}
	return s.applyChanges(ctx, id, changes)
}

// IncrementReadCount bumps the read counter. Callers treat this as
// fire-and-forget when a record is opened in the viewer.
func (s *AnnouncementService) IncrementReadCount(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.applyChanges(ctx, id, store.Fields{
		"readCount": existing.ReadCount + 1,
		"updatedAt": time.Now().UTC(),
	})
	return err
}

// Stats recomputes the active-set breakdowns in memory.
func (s *AnnouncementService) Stats(ctx context.Context) (*AnnouncementStats, error) {
	items, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats := &AnnouncementStats{
		Total:      len(items),
		ByType:     map[models.AnnouncementType]int{},
		ByPriority: map[models.Priority]int{},
		ByCategory: map[string]int{},
	}
	for _, a := range items {
		stats.ByType[a.Type]++
		stats.ByPriority[a.Priority]++
		stats.ByCategory[a.Category]++
		if a.IsPublished {
			stats.Published++
		}
		if a.IsPinned {
			stats.Pinned++
		}
		if createdToday(a.CreatedAt) {
			stats.CreatedToday++
		}
	}
	return stats, nil
}

func (s *AnnouncementService) applyChanges(ctx context.Context, id string, changes store.Fields) (*models.Announcement, error) {
	doc, err := s.store.UpdateDocument(ctx, announcementsCollection, id, changes)
	if err != nil {
		return nil, err
	}
	updated, err := decode[models.Announcement](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.EntityUpdated, announcementsCollection, id, updated)
	}()
	return updated, nil
}
