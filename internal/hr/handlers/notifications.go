package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/hrms/internal/hr/controller"
	"github.com/gartstein/hrms/internal/hr/models"
	"go.uber.org/zap"
)

// NotificationController defines the business logic interface the
// notification routes invoke.
type NotificationController interface {
	List(ctx context.Context, filter *models.NotificationFilter) ([]models.Notification, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	Update(ctx context.Context, id string, u *models.NotificationUpdate) (*models.Notification, error)
	Delete(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	MarkAsRead(ctx context.Context, id string, read bool) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int, error)
	TogglePin(ctx context.Context, id string, pinned bool) (*models.Notification, error)
	Stats(ctx context.Context) (*controller.NotificationStats, error)
}

// NotificationHandler serves the notification routes.
type NotificationHandler struct {
	service NotificationController
	logger  *zap.Logger
}

func NewNotificationHandler(service NotificationController, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.Named("notification_handler"),
	}
}

func (h *NotificationHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/notifications", h.list)
	mux.HandleFunc("GET /v1/notifications/stats", h.stats)
	mux.HandleFunc("GET /v1/notifications/{id}", h.get)
	mux.HandleFunc("POST /v1/notifications", h.create)
	mux.HandleFunc("PATCH /v1/notifications/{id}", h.update)
	mux.HandleFunc("DELETE /v1/notifications/{id}", h.delete)
	mux.HandleFunc("DELETE /v1/notifications/{id}/permanent", h.permanentDelete)
	mux.HandleFunc("POST /v1/notifications/{id}/read", h.markAsRead)
	mux.HandleFunc("POST /v1/notifications/read-all", h.markAllRead)
	mux.HandleFunc("POST /v1/notifications/{id}/pin", h.togglePin)
}

func notificationFilterFromQuery(r *http.Request) *models.NotificationFilter {
	q := r.URL.Query()
	return &models.NotificationFilter{
		Search:          q.Get("search"),
		Type:            models.NotificationType(q.Get("type")),
		Priority:        models.Priority(q.Get("priority")),
		Category:        q.Get("category"),
		RecipientID:     q.Get("recipientId"),
		UnreadOnly:      queryBool(r, "unreadOnly"),
		IncludeInactive: queryBool(r, "includeInactive"),
		SortBy:          q.Get("sortBy"),
		SortDesc:        queryBool(r, "sortDesc"),
	}
}

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), notificationFilterFromQuery(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *NotificationHandler) create(w http.ResponseWriter, r *http.Request) {
	var body models.Notification
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	created, err := h.service.Create(r.Context(), &body)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *NotificationHandler) update(w http.ResponseWriter, r *http.Request) {
	var body models.NotificationUpdate
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.service.Update(r.Context(), r.PathValue("id"), &body)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *NotificationHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *NotificationHandler) permanentDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.PermanentDelete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *NotificationHandler) markAsRead(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Read bool `json:"read"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.service.MarkAsRead(r.Context(), r.PathValue("id"), body.Read)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *NotificationHandler) markAllRead(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RecipientID string `json:"recipientId"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	count, err := h.service.MarkAllRead(r.Context(), body.RecipientID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": count})
}

func (h *NotificationHandler) togglePin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Pinned bool `json:"pinned"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.service.TogglePin(r.Context(), r.PathValue("id"), body.Pinned)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *NotificationHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
