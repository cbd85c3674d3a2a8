package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/hrms/internal/hr/auth"
	"github.com/gartstein/hrms/internal/hr/controller"
	"github.com/gartstein/hrms/internal/hr/models"
	"go.uber.org/zap"
)

// IncidentController defines the business logic interface the incident
// routes invoke.
type IncidentController interface {
	List(ctx context.Context, filter *models.IncidentFilter) ([]models.Incident, error)
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	Create(ctx context.Context, in *models.Incident) (*models.Incident, error)
	Update(ctx context.Context, id string, u *models.IncidentUpdate) (*models.Incident, error)
	Delete(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status models.IncidentStatus) (*models.Incident, error)
	AddNote(ctx context.Context, id, author, body string) (*models.Incident, error)
	Stats(ctx context.Context) (*controller.IncidentStats, error)
}

// IncidentHandler serves the incident routes.
type IncidentHandler struct {
	service IncidentController
	logger  *zap.Logger
}

func NewIncidentHandler(service IncidentController, logger *zap.Logger) *IncidentHandler {
	return &IncidentHandler{
		service: service,
		logger:  logger.Named("incident_handler"),
	}
}

func (h *IncidentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/incidents", h.list)
	mux.HandleFunc("GET /v1/incidents/stats", h.stats)
	mux.HandleFunc("GET /v1/incidents/{id}", h.get)
	mux.HandleFunc("POST /v1/incidents", h.create)
	mux.HandleFunc("PATCH /v1/incidents/{id}", h.update)
	mux.HandleFunc("DELETE /v1/incidents/{id}", h.delete)
	mux.HandleFunc("DELETE /v1/incidents/{id}/permanent", h.permanentDelete)
	mux.HandleFunc("POST /v1/incidents/{id}/status", h.setStatus)
	mux.HandleFunc("POST /v1/incidents/{id}/notes", h.addNote)
}

func incidentFilterFromQuery(r *http.Request) *models.IncidentFilter {
	q := r.URL.Query()
	return &models.IncidentFilter{
		Search:          q.Get("search"),
		Category:        q.Get("category"),
		Severity:        models.IncidentSeverity(q.Get("severity")),
		Status:          models.IncidentStatus(q.Get("status")),
		Priority:        models.Priority(q.Get("priority")),
		AssigneeID:      q.Get("assigneeId"),
		From:            queryTime(r, "from"),
		To:              queryTime(r, "to"),
		IncludeInactive: queryBool(r, "includeInactive"),
		SortBy:          q.Get("sortBy"),
		SortDesc:        queryBool(r, "sortDesc"),
	}
}

func (h *IncidentHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), incidentFilterFromQuery(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *IncidentHandler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *IncidentHandler) create(w http.ResponseWriter, r *http.Request) {
	var body models.Incident
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

func (h *IncidentHandler) update(w http.ResponseWriter, r *http.Request) {
	var body models.IncidentUpdate
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

func (h *IncidentHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *IncidentHandler) permanentDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.PermanentDelete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *IncidentHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.IncidentStatus `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.service.SetStatus(r.Context(), r.PathValue("id"), body.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// addNote attributes the note to the authenticated caller.
func (h *IncidentHandler) addNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Body string `json:"body"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	author := "system"
	if p, ok := auth.PrincipalFromContext(r.Context()); ok {
		author = p.DisplayName
		if author == "" {
			author = p.Email
		}
	}
	updated, err := h.service.AddNote(r.Context(), r.PathValue("id"), author, body.Body)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *IncidentHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
