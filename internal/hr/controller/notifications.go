package controller

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	e "github.com/gartstein/hrms/internal/hr/errors"
	"github.com/gartstein/hrms/internal/hr/events"
	"github.com/gartstein/hrms/internal/hr/models"
	"github.com/gartstein/hrms/internal/hr/store"
	"go.uber.org/zap"
)

const notificationsCollection = "notifications"

// NotificationStats summarizes the active notification set.
type NotificationStats struct {
	Total        int                             `json:"total"`
	Unread       int                             `json:"unread"`
	ByType       map[models.NotificationType]int `json:"byType"`
	ByPriority   map[models.Priority]int         `json:"byPriority"`
	ByCategory   map[string]int                  `json:"byCategory"`
	CreatedToday int                             `json:"createdToday"`
}

// NotificationService manages per-recipient notifications.
type NotificationService struct {
	store    Store
	producer EventProducer
	logger   *zap.Logger
}

func NewNotificationService(st Store, producer EventProducer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:    st,
		producer: producer,
		logger:   logger.Named("notification_service"),
	}
}

// List returns notifications matching the filter, newest first unless
// the filter asks otherwise.
func (s *NotificationService) List(ctx context.Context, filter *models.NotificationFilter) ([]models.Notification, error) {
	if filter == nil {
		filter = &models.NotificationFilter{}
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
	if filter.RecipientID != "" {
		opts.Where = append(opts.Where, store.Condition{Field: "recipientId", Op: store.OpEq, Value: filter.RecipientID})
	}
	if filter.UnreadOnly {
		opts.Where = append(opts.Where, store.Condition{Field: "isRead", Op: store.OpEq, Value: false})
	}

	docs, err := s.store.GetCollection(ctx, notificationsCollection, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	items, err := decodeAll[models.Notification](docs)
	if err != nil {
		return nil, err
	}

	filtered := items[:0]
	for _, n := range items {
		if !matchSearch(filter.Search, n.Title, n.Message) {
			continue
		}
		filtered = append(filtered, n)
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
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return filtered, nil
}

func (s *NotificationService) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	doc, err := s.store.GetDocument(ctx, notificationsCollection, id)
	if err != nil {
		return nil, err
	}
	return decode[models.Notification](doc)
}

// Create stores a new notification for one recipient.
func (s *NotificationService) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if n.Title == "" {
		return nil, fmt.Errorf("%w: title is required", e.ErrInvalidInput)
	}
	if n.RecipientID == "" {
		return nil, fmt.Errorf("%w: recipient is required", e.ErrInvalidInput)
	}
	if !n.Type.Valid() {
		return nil, fmt.Errorf("%w: notification type %q", e.ErrInvalidEnum, n.Type)
	}
	if !n.Priority.Valid() {
		return nil, fmt.Errorf("%w: priority %q", e.ErrInvalidEnum, n.Priority)
	}

	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	n.IsActive = true
	n.IsRead = false

	fields, err := encode(n)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.AddDocument(ctx, notificationsCollection, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	created, err := decode[models.Notification](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.EntityCreated, notificationsCollection, created.ID, created)
	}()
	return created, nil
}

func (s *NotificationService) Update(ctx context.Context, id string, u *models.NotificationUpdate) (*models.Notification, error) {
	if u.Type != nil && !u.Type.Valid() {
		return nil, fmt.Errorf("%w: notification type %q", e.ErrInvalidEnum, *u.Type)
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return nil, fmt.Errorf("%w: priority %q", e.ErrInvalidEnum, *u.Priority)
	}
	changes := u.Changes()
	changes["updatedAt"] = time.Now().UTC()
	return s.applyChanges(ctx, id, changes)
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	_, err := s.applyChanges(ctx, id, store.Fields{
		"isActive":  false,
		"updatedAt": time.Now().UTC(),
	})
	return err
}

func (s *NotificationService) PermanentDelete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, notificationsCollection, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	go func() {
		s.producer.Produce(events.EntityDeleted, notificationsCollection, id, existing)
	}()
	return nil
}

// MarkAsRead flips the read flag on one notification.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string, read bool) (*models.Notification, error) {
	return s.applyChanges(ctx, id, store.Fields{
		"isRead":    read,
		"updatedAt": time.Now().UTC(),
	})
}

// TogglePin flips the pinned flag.
func (s *NotificationService) TogglePin(ctx context.Context, id string, pinned bool) (*models.Notification, error) {
	return s.applyChanges(ctx, id, store.Fields{
		"isPinned":  pinned,
		"updatedAt": time.Now().UTC(),
	})
}

// MarkAllRead marks every unread notification for the recipient as
// read. Updates run concurrently, one per entity; there is no
// transaction, so entities that succeeded stay updated even when a
// sibling update fails. The first failure is reported.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	items, err := s.List(ctx, &models.NotificationFilter{
		RecipientID: recipientID,
		UnreadOnly:  true,
	})
	if err != nil {
		return 0, err
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		updated  int
		firstErr error
	)
	for _, n := range items {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.MarkAsRead(ctx, id, true)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				s.logger.Error("failed to mark notification read",
					zap.String("notification_id", id),
					zap.Error(err),
				)
				return
			}
			updated++
		}(n.ID)
	}
	wg.Wait()
	return updated, firstErr
}

// Stats recomputes the active-set breakdowns in memory.
func (s *NotificationService) Stats(ctx context.Context) (*NotificationStats, error) {
	items, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats := &NotificationStats{
		Total:      len(items),
		ByType:     map[models.NotificationType]int{},
		ByPriority: map[models.Priority]int{},
		ByCategory: map[string]int{},
	}
	for _, n := range items {
		stats.ByType[n.Type]++
		stats.ByPriority[n.Priority]++
		stats.ByCategory[n.Category]++
		if !n.IsRead {
			stats.Unread++
		}
		if createdToday(n.CreatedAt) {
			stats.CreatedToday++
		}
	}
	return stats, nil
}

func (s *NotificationService) applyChanges(ctx context.Context, id string, changes store.Fields) (*models.Notification, error) {
	doc, err := s.store.UpdateDocument(ctx, notificationsCollection, id, changes)
	if err != nil {
		return nil, err
	}
	updated, err := decode[models.Notification](doc)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.EntityUpdated, notificationsCollection, id, updated)
	}()
	return updated, nil
}
