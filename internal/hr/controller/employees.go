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

const employeesCollection = "employees"

// EmployeeStats summarizes the active directory.
type EmployeeStats struct {
	Total        int                             `json:"total"`
	ByDepartment map[string]int                  `json:"byDepartment"`
	ByStatus     map[models.EmploymentStatus]int `json:"byStatus"`
	CreatedToday int                             `json:"createdToday"`
}

// EmployeeService manages the employee directory.
type EmployeeService struct {
	store    Store
	producer EventProducer
	logger   *zap.Logger
}

func NewEmployeeService(st Store, producer EventProducer, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		store:    st,
		producer: producer,
		logger:   logger.Named("employee_service"),
	}
}

// List returns directory entries matching the filter, ordered by last
// name unless the filter asks otherwise.
func (s *EmployeeService) List(ctx context.Context, filter *models.EmployeeFilter) ([]models.Employee, error) {
	if filter == nil {
		filter = &models.EmployeeFilter{}
	}
	opts := &store.Options{}
	if !filter.IncludeInactive {
		opts.Where = append(opts.Where, store.Condition{Field: "isActive", Op: store.OpEq, Value: true})
	}
	if filter.Department != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "department", Op: store.OpEq, Value: filter.Department})
	}
	if filter.Position != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "position", Op: store.OpEq, Value: filter.Position})
	}
	if filter.Status != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "status", Op: store.OpEq, Value: filter.Status})
	}

	docs, err := s.store.GetCollection(ctx, employeesCollection, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	items, err := decodeAll[models.Employee](docs)
	if err != nil {
		return nil, err
	}

	filtered := items[:0]
	for _, emp := range items {
		if !matchSearch(filter.Search, emp.FirstName, emp.LastName, emp.Email) {
			continue
		}
		filtered = append(filtered, emp)
	}

	by, desc := filter.SortBy, filter.SortDesc
	if by == "" {
		by = "lastName"
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if desc {
			a, b = b, a
		}
		switch by {
		case "hireDate":
			return a.HireDate.Before(b.HireDate)
		case "department":
			return strings.ToLower(a.Department) < strings.ToLower(b.Department)
		default:
			return strings.ToLower(a.LastName) < strings.ToLower(b.LastName)
		}
	})
	return filtered, nil
}

func (s *EmployeeService) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	doc, err := s.store.GetDocument(ctx, employeesCollection, id)
	if err != nil {
		return nil, err
	}
	return decode[models.Employee](doc)
}

// Create stores a new directory entry.
func (s *EmployeeService) Create(ctx context.Context, emp *models.Employee) (*models.Employee, error) {
	if emp.FirstName == "" || emp.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", e.ErrInvalidInput)
	}
	if emp.Status == "" {
		emp.Status = models.EmploymentActive
	}
	if !emp.Status.Valid() {
		return nil, fmt.Errorf("%w: employment status %q", e.ErrInvalidEnum, emp.Status)
	}

	now := time.Now().UTC()
	emp.CreatedAt = now
	emp.UpdatedAt = now
	emp.IsActive = true
	if emp.HireDate.IsZero() {
		emp.HireDate = now
	}

	fields, err := encode(emp)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.AddDocument(ctx, employeesCollection, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	created, err := decode[models.Employee](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.EntityCreated, employeesCollection, created.ID, created)
	}()
	return created, nil
}

func (s *EmployeeService) Update(ctx context.Context, id string, u *models.EmployeeUpdate) (*models.Employee, error) {
	if u.Status != nil && !u.Status.Valid() {
		return nil, fmt.Errorf("%w: employment status %q", e.ErrInvalidEnum, *u.Status)
	}
	changes := u.Changes()
	changes["updatedAt"] = time.Now().UTC()
	return s.applyChanges(ctx, id, changes)
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	_, err := s.applyChanges(ctx, id, store.Fields{
		"isActive":  false,
		"updatedAt": time.Now().UTC(),
	})
	return err
}

func (s *EmployeeService) PermanentDelete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, employeesCollection, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	go func() {
		s.producer.Produce(events.EntityDeleted, employeesCollection, id, existing)
	}()
	return nil
}

// Stats recomputes the active-set breakdowns in memory.
func (s *EmployeeService) Stats(ctx context.Context) (*EmployeeStats, error) {
	items, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats := &EmployeeStats{
		Total:        len(items),
		ByDepartment: map[string]int{},
		ByStatus:     map[models.EmploymentStatus]int{},
	}
	for _, emp := range items {
		stats.ByDepartment[emp.Department]++
		stats.ByStatus[emp.Status]++
		if createdToday(emp.CreatedAt) {
			stats.CreatedToday++
		}
	}
	return stats, nil
}

func (s *EmployeeService) applyChanges(ctx context.Context, id string, changes store.Fields) (*models.Employee, error) {
	doc, err := s.store.UpdateDocument(ctx, employeesCollection, id, changes)
	if err != nil {
		return nil, err
	}
	updated, err := decode[models.Employee](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.EntityUpdated, employeesCollection, id, updated)
	}()
	return updated, nil
}
