package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	e "github.com/gartstein/hrms/internal/hr/errors"
	"github.com/gartstein/hrms/internal/hr/events"
	"github.com/gartstein/hrms/internal/hr/models"
	"github.com/gartstein/hrms/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newAnnouncementService(t *testing.T) (*AnnouncementService, *MockProducer) {
	producer := &MockProducer{}
	svc := NewAnnouncementService(newTestStore(t), producer, zaptest.NewLogger(t))
	return svc, producer
}

func TestAnnouncementService_CreateThenList(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Announcement{
		Title:    "A",
		Type:     models.AnnouncementInfo,
		Priority: models.PriorityLow,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 0, created.ReadCount)
	assert.False(t, created.IsPinned)
	assert.True(t, created.IsActive)

	items, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
}

func TestAnnouncementService_CreateValidation(t *testing.T) {
	svc, _ := newAnnouncementService(t)

	tests := []struct {
		name          string
		input         *models.Announcement
		expectedError error
	}{
		{
			name:          "missing title",
			input:         &models.Announcement{Type: models.AnnouncementInfo, Priority: models.PriorityLow},
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "unknown type",
			input:         &models.Announcement{Title: "A", Type: "gossip", Priority: models.PriorityLow},
			expectedError: e.ErrInvalidEnum,
		},
		{
			name:          "unknown priority",
			input:         &models.Announcement{Title: "A", Type: models.AnnouncementInfo, Priority: "urgent-ish"},
			expectedError: e.ErrInvalidEnum,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestAnnouncementService_SoftDeleteExclusion(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Announcement{
		Title: "Retired", Type: models.AnnouncementInfo, Priority: models.PriorityLow,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	items, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items, "default list must exclude soft-deleted records")

	items, err = svc.List(ctx, &models.AnnouncementFilter{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, items, 1, "includeInactive must reveal soft-deleted records")
	assert.False(t, items[0].IsActive)
}

func TestAnnouncementService_SearchFilter(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	ctx := context.Background()

	for _, title := range []string{"Server outage", "Payroll update"} {
		_, err := svc.Create(ctx, &models.Announcement{
			Title: title, Type: models.AnnouncementInfo, Priority: models.PriorityLow,
		})
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, &models.AnnouncementFilter{Search: "pay"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Payroll update", items[0].Title)
}

func TestAnnouncementService_FilterConjunction(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	ctx := context.Background()

	seed := []models.Announcement{
		{Title: "Office party", Type: models.AnnouncementEvent, Priority: models.PriorityLow, Category: "social"},
		{Title: "Office move", Type: models.AnnouncementInfo, Priority: models.PriorityLow, Category: "social"},
		{Title: "Fire drill", Type: models.AnnouncementEvent, Priority: models.PriorityHigh, Category: "safety"},
	}
	for i := range seed {
		_, err := svc.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	// Each active predicate must hold; the result is the intersection.
	items, err := svc.List(ctx, &models.AnnouncementFilter{
		Search:   "office",
		Type:     models.AnnouncementEvent,
		Category: "social",
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Office party", items[0].Title)
}

func TestAnnouncementService_RoundTripUpdate(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Announcement{
		Title: "Before", Type: models.AnnouncementInfo, Priority: models.PriorityLow,
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	updated, err := svc.Update(ctx, created.ID, &models.AnnouncementUpdate{
		Title: utils.Ptr("After"),
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Title)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt),
		"UpdatedAt must advance on every mutation")

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, created.Priority, got.Priority, "unmentioned fields must be untouched")
}

func TestAnnouncementService_TogglePublish(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Announcement{
		Title: "Draft", Type: models.AnnouncementInfo, Priority: models.PriorityLow,
	})
	require.NoError(t, err)
	require.False(t, created.IsPublished)

	before := time.Now().UTC()
	published, err := svc.TogglePublish(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	assert.WithinDuration(t, before, published.PublishDate, 2*time.Second,
		"publishing must reset the publish date to now")
}

func TestAnnouncementService_IncrementReadCount(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Announcement{
		Title: "Read me", Type: models.AnnouncementInfo, Priority: models.PriorityLow,
	})
	require.NoError(t, err)

	require.NoError(t, svc.IncrementReadCount(ctx, created.ID))
	require.NoError(t, svc.IncrementReadCount(ctx, created.ID))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ReadCount)
}

func TestAnnouncementService_DefaultSortNewestFirst(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)
	_, err := svc.Create(ctx, &models.Announcement{
		Title: "Old", Type: models.AnnouncementInfo, Priority: models.PriorityLow, PublishDate: old,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Announcement{
		Title: "New", Type: models.AnnouncementInfo, Priority: models.PriorityLow,
	})
	require.NoError(t, err)

	items, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "New", items[0].Title)
	assert.Equal(t, "Old", items[1].Title)
}

func TestAnnouncementService_Stats(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	ctx := context.Background()

	seed := []models.Announcement{
		{Title: "a", Type: models.AnnouncementInfo, Priority: models.PriorityLow},
		{Title: "b", Type: models.AnnouncementInfo, Priority: models.PriorityHigh},
		{Title: "c", Type: models.AnnouncementEvent, Priority: models.PriorityLow},
	}
	for i := range seed {
		_, err := svc.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByType[models.AnnouncementInfo])
	assert.Equal(t, 1, stats.ByType[models.AnnouncementEvent])
	assert.Equal(t, 3, stats.CreatedToday)

	// Every entity has exactly one type, so the buckets sum to the total.
	sum := 0
	for _, n := range stats.ByType {
		sum += n
	}
	assert.Equal(t, stats.Total, sum)
}

func TestAnnouncementService_ProducesEvents(t *testing.T) {
	producer := &MockProducer{wg: &sync.WaitGroup{}}
	svc := NewAnnouncementService(newTestStore(t), producer, zaptest.NewLogger(t))
	ctx := context.Background()

	producer.wg.Add(1)
	created, err := svc.Create(ctx, &models.Announcement{
		Title: "A", Type: models.AnnouncementInfo, Priority: models.PriorityLow,
	})
	require.NoError(t, err)
	producer.wg.Wait()

	got := producer.Events()
	require.Len(t, got, 1)
	assert.Equal(t, events.EntityCreated, got[0].Type)
	assert.Equal(t, "announcements", got[0].Collection)
	assert.Equal(t, created.ID, got[0].EntityID)
}
