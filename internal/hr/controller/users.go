package controller

import (
	"context"
	"errors"
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

const usersCollection = "users"

// Principal is the identity supplied by the external authentication
// provider.
type Principal struct {
	ID          string
	Email       string
	DisplayName string
}

// UserStats summarizes the active user set.
type UserStats struct {
	Total        int                       `json:"total"`
	ByRole       map[models.Role]int       `json:"byRole"`
	ByStatus     map[models.UserStatus]int `json:"byStatus"`
	ByDepartment map[string]int            `json:"byDepartment"`
	CreatedToday int                       `json:"createdToday"`
}

// UserService manages application account profiles.
type UserService struct {
	store    Store
	producer EventProducer
	logger   *zap.Logger
}

func NewUserService(st Store, producer EventProducer, logger *zap.Logger) *UserService {
	return &UserService{
		store:    st,
		producer: producer,
		logger:   logger.Named("user_service"),
	}
}

// List returns users matching the filter, ordered by last name unless
// the filter asks otherwise.
func (s *UserService) List(ctx context.Context, filter *models.UserFilter) ([]models.User, error) {
	if filter == nil {
		filter = &models.UserFilter{}
	}
	opts := &store.Options{}
	if !filter.IncludeInactive {
		opts.Where = append(opts.Where, store.Condition{Field: "isActive", Op: store.OpEq, Value: true})
	}
	if filter.Role != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "role", Op: store.OpEq, Value: filter.Role})
	}
	if filter.Department != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "department", Op: store.OpEq, Value: filter.Department})
	}
	if filter.Status != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "status", Op: store.OpEq, Value: filter.Status})
	}

	docs, err := s.store.GetCollection(ctx, usersCollection, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	items, err := decodeAll[models.User](docs)
	if err != nil {
		return nil, err
	}

	filtered := items[:0]
	for _, u := range items {
		if !matchSearch(filter.Search, u.FirstName, u.LastName, u.Email) {
			continue
		}
		filtered = append(filtered, u)
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
		case "email":
			return strings.ToLower(a.Email) < strings.ToLower(b.Email)
		case "createdAt":
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return strings.ToLower(a.LastName) < strings.ToLower(b.LastName)
		}
	})
	return filtered, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := s.store.GetDocument(ctx, usersCollection, id)
	if err != nil {
		return nil, err
	}
	return decode[models.User](doc)
}

// GetByEmail looks a user up through the single-condition query path.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := s.store.QueryDocuments(ctx, usersCollection, "email", store.OpEq, email)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, e.ErrNotFound
	}
	return decode[models.User](docs[0])
}

// Create stores a new user profile.
func (s *UserService) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if u.Email == "" {
		return nil, fmt.Errorf("%w: email is required", e.ErrInvalidInput)
	}
	if u.Role == "" {
		u.Role = models.RoleEmployee
	}
	if !u.Role.Valid() {
		return nil, fmt.Errorf("%w: role %q", e.ErrInvalidEnum, u.Role)
	}
	if u.Status == "" {
		u.Status = models.UserActive
	}
	if !u.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q", e.ErrInvalidEnum, u.Status)
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.IsActive = true

	fields, err := encode(u)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.AddDocument(ctx, usersCollection, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	created, err := decode[models.User](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.EntityCreated, usersCollection, created.ID, created)
	}()
	return created, nil
}

// EnsureProfile returns the profile matching the authenticated
// principal, auto-creating a default employee profile on first sight.
func (s *UserService) EnsureProfile(ctx context.Context, p Principal) (*models.User, error) {
	existing, err := s.GetByEmail(ctx, p.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, err
	}

	first, last := splitDisplayName(p.DisplayName)
	s.logger.Info("auto-creating profile for new principal",
		zap.String("email", p.Email),
	)
	return s.Create(ctx, &models.User{
		FirstName: first,
		LastName:  last,
		Email:     p.Email,
		Role:      models.RoleEmployee,
		Status:    models.UserActive,
	})
}

func splitDisplayName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (s *UserService) Update(ctx context.Context, id string, u *models.UserUpdate) (*models.User, error) {
	if u.Role != nil && !u.Role.Valid() {
		return nil, fmt.Errorf("%w: role %q", e.ErrInvalidEnum, *u.Role)
	}
	if u.Status != nil && !u.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q", e.ErrInvalidEnum, *u.Status)
	}
	changes := u.Changes()
	changes["updatedAt"] = time.Now().UTC()
	return s.applyChanges(ctx, id, changes)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	_, err := s.applyChanges(ctx, id, store.Fields{
		"isActive":  false,
		"updatedAt": time.Now().UTC(),
	})
	return err
}

func (s *UserService) PermanentDelete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, usersCollection, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	go func() {
		s.producer.Produce(events.EntityDeleted, usersCollection, id, existing)
	}()
	return nil
}

// SetStatus changes the account standing.
func (s *UserService) SetStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status %q", e.ErrInvalidEnum, status)
	}
	return s.applyChanges(ctx, id, store.Fields{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	})
}

// Stats recomputes the active-set breakdowns in memory.
func (s *UserService) Stats(ctx context.Context) (*UserStats, error) {
	items, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats := &UserStats{
		Total:        len(items),
		ByRole:       map[models.Role]int{},
		ByStatus:     map[models.UserStatus]int{},
		ByDepartment: map[string]int{},
	}
	for _, u := range items {
		stats.ByRole[u.Role]++
		stats.ByStatus[u.Status]++
		stats.ByDepartment[u.Department]++
		if createdToday(u.CreatedAt) {
			stats.CreatedToday++
		}
	}
	return stats, nil
}

func (s *UserService) applyChanges(ctx context.Context, id string, changes store.Fields) (*models.User, error) {
	doc, err := s.store.UpdateDocument(ctx, usersCollection, id, changes)
	if err != nil {
		return nil, err
	}
	updated, err := decode[models.User](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.EntityUpdated, usersCollection, id, updated)
	}()
	return updated, nil
}
