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
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const incidentsCollection = "incidents"

// IncidentStats summarizes the active incident set.
type IncidentStats struct {
	Total        int                             `json:"total"`
	Open         int                             `json:"open"`
	ByStatus     map[models.IncidentStatus]int   `json:"byStatus"`
	BySeverity   map[models.IncidentSeverity]int `json:"bySeverity"`
	ByPriority   map[models.Priority]int         `json:"byPriority"`
	ByCategory   map[string]int                  `json:"byCategory"`
	CreatedToday int                             `json:"createdToday"`
}

// IncidentService manages workplace incident reports and their
// embedded notes.
type IncidentService struct {
	store    Store
	producer EventProducer
	logger   *zap.Logger
}

func NewIncidentService(st Store, producer EventProducer, logger *zap.Logger) *IncidentService {
	return &IncidentService{
		store:    st,
		producer: producer,
		logger:   logger.Named("incident_service"),
	}
}

// List returns incidents matching the filter, newest first unless the
// filter asks otherwise.
func (s *IncidentService) List(ctx context.Context, filter *models.IncidentFilter) ([]models.Incident, error) {
	if filter == nil {
		filter = &models.IncidentFilter{}
	}
	opts := &store.Options{}
	if !filter.IncludeInactive {
		opts.Where = append(opts.Where, store.Condition{Field: "isActive", Op: store.OpEq, Value: true})
	}
	if filter.Category != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "category", Op: store.OpEq, Value: filter.Category})
	}
	if filter.Severity != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "severity", Op: store.OpEq, Value: filter.Severity})
	}
	if filter.Status != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "status", Op: store.OpEq, Value: filter.Status})
	}
	if filter.Priority != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "priority", Op: store.OpEq, Value: filter.Priority})
	}
	if filter.AssigneeID != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "assigneeId", Op: store.OpEq, Value: filter.AssigneeID})
	}

	docs, err := s.store.GetCollection(ctx, incidentsCollection, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	items, err := decodeAll[models.Incident](docs)
	if err != nil {
		return nil, err
	}

	filtered := items[:0]
	for _, in := range items {
		if !matchSearch(filter.Search, in.Title, in.Description, in.Location) {
			continue
		}
		if !inRange(in.CreatedAt, filter.From, filter.To) {
			continue
		}
		filtered = append(filtered, in)
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
		case "severity":
			return severityRank(a.Severity) < severityRank(b.Severity)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return filtered, nil
}

// severityRank orders severities from least to most impactful so
// sorting by severity is meaningful rather than alphabetical.
func severityRank(s models.IncidentSeverity) int {
	switch s {
	case models.SeverityLow:
		return 0
	case models.SeverityMedium:
		return 1
	case models.SeverityHigh:
		return 2
	case models.SeverityCritical:
		return 3
	}
	return -1
}

func (s *IncidentService) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	doc, err := s.store.GetDocument(ctx, incidentsCollection, id)
	if err != nil {
		return nil, err
	}
	return decode[models.Incident](doc)
}

// Create stores a new incident. Status defaults to open.
func (s *IncidentService) Create(ctx context.Context, in *models.Incident) (*models.Incident, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", e.ErrInvalidInput)
	}
	if !in.Severity.Valid() {
		return nil, fmt.Errorf("%w: severity %q", e.ErrInvalidEnum, in.Severity)
	}
	if !in.Priority.Valid() {
		return nil, fmt.Errorf("%w: priority %q", e.ErrInvalidEnum, in.Priority)
	}
	if in.Status == "" {
		in.Status = models.StatusOpen
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q", e.ErrInvalidEnum, in.Status)
	}

	now := time.Now().UTC()
	in.CreatedAt = now
	in.UpdatedAt = now
	in.IsActive = true
	if in.Notes == nil {
		in.Notes = []models.IncidentNote{}
	}

	fields, err := encode(in)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.AddDocument(ctx, incidentsCollection, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create incident: %w", err)
	}
	created, err := decode[models.Incident](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.EntityCreated, incidentsCollection, created.ID, created)
	}()
	return created, nil
}

func (s *IncidentService) Update(ctx context.Context, id string, u *models.IncidentUpdate) (*models.Incident, error) {
	if u.Severity != nil && !u.Severity.Valid() {
		return nil, fmt.Errorf("%w: severity %q", e.ErrInvalidEnum, *u.Severity)
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return nil, fmt.Errorf("%w: priority %q", e.ErrInvalidEnum, *u.Priority)
	}
	changes := u.Changes()
	changes["updatedAt"] = time.Now().UTC()
	return s.applyChanges(ctx, id, changes)
}

func (s *IncidentService) Delete(ctx context.Context, id string) error {
	_, err := s.applyChanges(ctx, id, store.Fields{
		"isActive":  false,
		"updatedAt": time.Now().UTC(),
	})
	return err
}

func (s *IncidentService) PermanentDelete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, incidentsCollection, id); err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}
	go func() {
		s.producer.Produce(events.EntityDeleted, incidentsCollection, id, existing)
	}()
	return nil
}

// SetStatus moves the incident through its lifecycle, stamping
// ResolvedAt/ClosedAt on the matching transitions.
func (s *IncidentService) SetStatus(ctx context.Context, id string, status models.IncidentStatus) (*models.Incident, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status %q", e.ErrInvalidEnum, status)
	}
	now := time.Now().UTC()
	changes := store.Fields{
		"status":    status,
		"updatedAt": now,
	}
	switch status {
	case models.StatusResolved:
		changes["resolvedAt"] = now
	case models.StatusClosed:
		changes["closedAt"] = now
	}
	return s.applyChanges(ctx, id, changes)
}

// AddNote appends a note to the incident's embedded note list. Notes
// get their own id and timestamp but always live inside the parent.
func (s *IncidentService) AddNote(ctx context.Context, id, author, body string) (*models.Incident, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: note body is required", e.ErrInvalidInput)
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	notes := append(existing.Notes, models.IncidentNote{
		ID:        uuid.NewString(),
		Author:    author,
		Body:      body,
		CreatedAt: now,
	})
	return s.applyChanges(ctx, id, store.Fields{
		"notes":     notes,
		"updatedAt": now,
	})
}

// Stats recomputes the active-set breakdowns in memory.
func (s *IncidentService) Stats(ctx context.Context) (*IncidentStats, error) {
	items, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats := &IncidentStats{
		Total:      len(items),
		ByStatus:   map[models.IncidentStatus]int{},
		BySeverity: map[models.IncidentSeverity]int{},
		ByPriority: map[models.Priority]int{},
		ByCategory: map[string]int{},
	}
	for _, in := range items {
		stats.ByStatus[in.Status]++
		stats.BySeverity[in.Severity]++
		stats.ByPriority[in.Priority]++
		stats.ByCategory[in.Category]++
		if in.Status == models.StatusOpen || in.Status == models.StatusInvestigating {
			stats.Open++
		}
		if createdToday(in.CreatedAt) {
			stats.CreatedToday++
		}
	}
	return stats, nil
}

func (s *IncidentService) applyChanges(ctx context.Context, id string, changes store.Fields) (*models.Incident, error) {
	doc, err := s.store.UpdateDocument(ctx, incidentsCollection, id, changes)
	if err != nil {
		return nil, err
	}
	updated, err := decode[models.Incident](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.EntityUpdated, incidentsCollection, id, updated)
	}()
	return updated, nil
}
