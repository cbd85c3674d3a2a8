package controller

import (
	"context"
	"testing"

	e "github.com/gartstein/hrms/internal/hr/errors"
	"github.com/gartstein/hrms/internal/hr/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newNotificationService(t *testing.T) *NotificationService {
	return NewNotificationService(newTestStore(t), &MockProducer{}, zaptest.NewLogger(t))
}

func seedNotification(t *testing.T, svc *NotificationService, title, recipient string) *models.Notification {
	created, err := svc.Create(context.Background(), &models.Notification{
		Title:       title,
		Message:     "body",
		Type:        models.NotificationInfo,
		Priority:    models.PriorityLow,
		RecipientID: recipient,
	})
	require.NoError(t, err)
	return created
}

func TestNotificationService_CreateRequiresRecipient(t *testing.T) {
	svc := newNotificationService(t)

	_, err := svc.Create(context.Background(), &models.Notification{
		Title: "No one", Type: models.NotificationInfo, Priority: models.PriorityLow,
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	created := seedNotification(t, svc, "hello", "u-1")
	require.False(t, created.IsRead)

	read, err := svc.MarkAsRead(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.True(t, read.UpdatedAt.After(created.CreatedAt) || read.UpdatedAt.Equal(created.CreatedAt))
}

func TestNotificationService_UnreadOnlyFilter(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	a := seedNotification(t, svc, "first", "u-1")
	seedNotification(t, svc, "second", "u-1")

	_, err := svc.MarkAsRead(ctx, a.ID, true)
	require.NoError(t, err)

	items, err := svc.List(ctx, &models.NotificationFilter{RecipientID: "u-1", UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "second", items[0].Title)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		seedNotification(t, svc, title, "u-1")
	}
	seedNotification(t, svc, "other recipient", "u-2")

	updated, err := svc.MarkAllRead(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 3, updated)

	remaining, err := svc.List(ctx, &models.NotificationFilter{RecipientID: "u-1", UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, remaining)

	others, err := svc.List(ctx, &models.NotificationFilter{RecipientID: "u-2", UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, others, 1, "other recipients must be untouched")
}

func TestNotificationService_Stats(t *testing.T) {
	svc := newNotificationService(t)
	ctx := context.Background()

	a := seedNotification(t, svc, "a", "u-1")
	seedNotification(t, svc, "b", "u-1")
	_, err := svc.MarkAsRead(ctx, a.ID, true)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Unread)
	assert.Equal(t, 2, stats.ByType[models.NotificationInfo])
}
