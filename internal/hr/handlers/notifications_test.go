package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gartstein/hrms/internal/hr/controller"
	e "github.com/gartstein/hrms/internal/hr/errors"
	"github.com/gartstein/hrms/internal/hr/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

// mockNotificationController is a simple mock implementation of
// NotificationController.
type mockNotificationController struct {
	listFunc            func(ctx context.Context, filter *models.NotificationFilter) ([]models.Notification, error)
	getByIDFunc         func(ctx context.Context, id string) (*models.Notification, error)
	createFunc          func(ctx context.Context, n *models.Notification) (*models.Notification, error)
	updateFunc          func(ctx context.Context, id string, u *models.NotificationUpdate) (*models.Notification, error)
	deleteFunc          func(ctx context.Context, id string) error
	permanentDeleteFunc func(ctx context.Context, id string) error
	markAsReadFunc      func(ctx context.Context, id string, read bool) (*models.Notification, error)
	markAllReadFunc     func(ctx context.Context, recipientID string) (int, error)
	togglePinFunc       func(ctx context.Context, id string, pinned bool) (*models.Notification, error)
	statsFunc           func(ctx context.Context) (*controller.NotificationStats, error)
}

func (m *mockNotificationController) List(ctx context.Context, filter *models.NotificationFilter) ([]models.Notification, error) {
	return m.listFunc(ctx, filter)
}

func (m *mockNotificationController) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockNotificationController) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	return m.createFunc(ctx, n)
}

func (m *mockNotificationController) Update(ctx context.Context, id string, u *models.NotificationUpdate) (*models.Notification, error) {
	return m.updateFunc(ctx, id, u)
}

func (m *mockNotificationController) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockNotificationController) PermanentDelete(ctx context.Context, id string) error {
	return m.permanentDeleteFunc(ctx, id)
}

func (m *mockNotificationController) MarkAsRead(ctx context.Context, id string, read bool) (*models.Notification, error) {
	return m.markAsReadFunc(ctx, id, read)
}

func (m *mockNotificationController) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	return m.markAllReadFunc(ctx, recipientID)
}

func (m *mockNotificationController) TogglePin(ctx context.Context, id string, pinned bool) (*models.Notification, error) {
	return m.togglePinFunc(ctx, id, pinned)
}

func (m *mockNotificationController) Stats(ctx context.Context) (*controller.NotificationStats, error) {
	return m.statsFunc(ctx)
}

func newNotificationMux(t *testing.T, ctrl *mockNotificationController) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewNotificationHandler(ctrl, zaptest.NewLogger(t)).Register(mux)
	return mux
}

func TestNotificationHandler_List(t *testing.T) {
	ctrl := &mockNotificationController{
		listFunc: func(_ context.Context, filter *models.NotificationFilter) ([]models.Notification, error) {
			assert.Equal(t, "u-1", filter.RecipientID)
			assert.True(t, filter.UnreadOnly)
			return []models.Notification{{ID: "n-1", Title: "Expense report due"}}, nil
		},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/notifications?recipientId=u-1&unreadOnly=true", nil)
	newNotificationMux(t, ctrl).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Expense report due")
}

func TestNotificationHandler_MarkAsRead(t *testing.T) {
	t.Run("SetsReadFlag", func(t *testing.T) {
		ctrl := &mockNotificationController{
			markAsReadFunc: func(_ context.Context, id string, read bool) (*models.Notification, error) {
				assert.Equal(t, "n-5", id)
				assert.True(t, read)
				return &models.Notification{ID: id, IsRead: read}, nil
			},
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/notifications/n-5/read", strings.NewReader(`{"read":true}`))
		newNotificationMux(t, ctrl).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"isRead":true`)
	})

	t.Run("ClearsReadFlag", func(t *testing.T) {
		ctrl := &mockNotificationController{
			markAsReadFunc: func(_ context.Context, id string, read bool) (*models.Notification, error) {
				assert.False(t, read)
				return &models.Notification{ID: id, IsRead: read}, nil
			},
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/notifications/n-5/read", strings.NewReader(`{"read":false}`))
		newNotificationMux(t, ctrl).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		ctrl := &mockNotificationController{
			markAsReadFunc: func(_ context.Context, _ string, _ bool) (*models.Notification, error) {
				return nil, e.ErrNotFound
			},
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/notifications/ghost/read", strings.NewReader(`{"read":true}`))
		newNotificationMux(t, ctrl).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	ctrl := &mockNotificationController{
		markAllReadFunc: func(_ context.Context, recipientID string) (int, error) {
			assert.Equal(t, "u-1", recipientID)
			return 3, nil
		},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/notifications/read-all", strings.NewReader(`{"recipientId":"u-1"}`))
	newNotificationMux(t, ctrl).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"marked":3`)
}

func TestNotificationHandler_TogglePin(t *testing.T) {
	ctrl := &mockNotificationController{
		togglePinFunc: func(_ context.Context, id string, pinned bool) (*models.Notification, error) {
			assert.True(t, pinned)
			return &models.Notification{ID: id, IsPinned: pinned}, nil
		},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/notifications/n-2/pin", strings.NewReader(`{"pinned":true}`))
	newNotificationMux(t, ctrl).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isPinned":true`)
}

func TestNotificationHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl := &mockNotificationController{
			createFunc: func(_ context.Context, n *models.Notification) (*models.Notification, error) {
				n.ID = "n-created"
				return n, nil
			},
		}
		payload := `{"title":"Review due","message":"Quarterly review closes Friday.","type":"reminder","recipientId":"u-1"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/notifications", strings.NewReader(payload))
		newNotificationMux(t, ctrl).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("MissingRecipient", func(t *testing.T) {
		ctrl := &mockNotificationController{
			createFunc: func(_ context.Context, _ *models.Notification) (*models.Notification, error) {
				return nil, e.ErrInvalidInput
			},
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/notifications", strings.NewReader(`{"title":"x"}`))
		newNotificationMux(t, ctrl).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNotificationHandler_Stats(t *testing.T) {
	ctrl := &mockNotificationController{
		statsFunc: func(_ context.Context) (*controller.NotificationStats, error) {
			return &controller.NotificationStats{Total: 5, Unread: 2}, nil
		},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/notifications/stats", nil)
	newNotificationMux(t, ctrl).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unread":2`)
}
