package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/hrms/internal/hr/controller"
	"github.com/gartstein/hrms/internal/hr/listview"
	"github.com/gartstein/hrms/internal/hr/models"
	"go.uber.org/zap"
)

// AnnouncementController defines the business logic interface the
// announcement routes invoke.
type AnnouncementController interface {
	List(ctx context.Context, filter *models.AnnouncementFilter) ([]models.Announcement, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, a *models.Announcement) (*models.Announcement, error)
	Update(ctx context.Context, id string, u *models.AnnouncementUpdate) (*models.Announcement, error)
	Delete(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	TogglePin(ctx context.Context, id string, pinned bool) (*models.Announcement, error)
	TogglePublish(ctx context.Context, id string, published bool) (*models.Announcement, error)
	IncrementReadCount(ctx context.Context, id string) error
	Stats(ctx context.Context) (*controller.AnnouncementStats, error)
}

// AnnouncementHandler serves the announcement routes.
type AnnouncementHandler struct {
	service AnnouncementController
	logger  *zap.Logger
}

func NewAnnouncementHandler(service AnnouncementController, logger *zap.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		logger:  logger.Named("announcement_handler"),
	}
}

func (h *AnnouncementHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/announcements", h.list)
	mux.HandleFunc("GET /v1/announcements/stats", h.stats)
	mux.HandleFunc("GET /v1/announcements/export", h.export)
	mux.HandleFunc("GET /v1/announcements/{id}", h.get)
	mux.HandleFunc("POST /v1/announcements", h.create)
	mux.HandleFunc("PATCH /v1/announcements/{id}", h.update)
	mux.HandleFunc("DELETE /v1/announcements/{id}", h.delete)
	mux.HandleFunc("DELETE /v1/announcements/{id}/permanent", h.permanentDelete)
	mux.HandleFunc("POST /v1/announcements/{id}/pin", h.togglePin)
	mux.HandleFunc("POST /v1/announcements/{id}/publish", h.togglePublish)
	mux.HandleFunc("POST /v1/announcements/{id}/read", h.markViewed)
}

func announcementFilterFromQuery(r *http.Request) *models.AnnouncementFilter {
	q := r.URL.Query()
	return &models.AnnouncementFilter{
		Search:          q.Get("search"),
		Type:            models.AnnouncementType(q.Get("type")),
		Priority:        models.Priority(q.Get("priority")),
		Category:        q.Get("category"),
		PublishedOnly:   queryBool(r, "publishedOnly"),
		From:            queryTime(r, "from"),
		To:              queryTime(r, "to"),
		IncludeInactive: queryBool(r, "includeInactive"),
		SortBy:          q.Get("sortBy"),
		SortDesc:        queryBool(r, "sortDesc"),
	}
}

func (h *AnnouncementHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), announcementFilterFromQuery(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AnnouncementHandler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *AnnouncementHandler) create(w http.ResponseWriter, r *http.Request) {
	var body models.Announcement
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

func (h *AnnouncementHandler) update(w http.ResponseWriter, r *http.Request) {
	var body models.AnnouncementUpdate
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

func (h *AnnouncementHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *AnnouncementHandler) permanentDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.PermanentDelete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *AnnouncementHandler) togglePin(w http.ResponseWriter, r *http.Request) {
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

func (h *AnnouncementHandler) togglePublish(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Published bool `json:"published"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.service.TogglePublish(r.Context(), r.PathValue("id"), body.Published)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// markViewed bumps the read counter when the viewer dialog opens. The
// page fires this without waiting, so failures only get logged.
func (h *AnnouncementHandler) markViewed(w http.ResponseWriter, r *http.Request) {
	if err := h.service.IncrementReadCount(r.Context(), r.PathValue("id")); err != nil {
		h.logger.Warn("failed to bump read count",
			zap.String("announcement_id", r.PathValue("id")),
			zap.Error(err),
		)
	}
	writeJSON(w, http.StatusAccepted, true)
}

func (h *AnnouncementHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// export serializes the filtered list as a CSV download.
func (h *AnnouncementHandler) export(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), announcementFilterFromQuery(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	view := listview.New[models.Announcement]()
	view.BeginLoad()
	view.Resolve(items, nil)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="announcements.csv"`)
	err = view.ExportCSV(w,
		[]string{"id", "title", "type", "priority", "category", "published", "publishDate"},
		func(a models.Announcement) []string {
			published := "false"
			if a.IsPublished {
				published = "true"
			}
			return []string{a.ID, a.Title, string(a.Type), string(a.Priority), a.Category, published, a.PublishDate.Format("2006-01-02")}
		})
	if err != nil {
		h.logger.Error("csv export failed", zap.Error(err))
	}
}
