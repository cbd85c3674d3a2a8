package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/hrms/internal/hr/auth"
	"github.com/gartstein/hrms/internal/hr/controller"
	e "github.com/gartstein/hrms/internal/hr/errors"
	"github.com/gartstein/hrms/internal/hr/models"
	"go.uber.org/zap"
)

// UserController defines the business logic interface the user routes
// invoke.
type UserController interface {
	List(ctx context.Context, filter *models.UserFilter) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	EnsureProfile(ctx context.Context, p controller.Principal) (*models.User, error)
	Update(ctx context.Context, id string, u *models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error)
	Stats(ctx context.Context) (*controller.UserStats, error)
}

// UserHandler serves the user profile routes.
type UserHandler struct {
	service UserController
	logger  *zap.Logger
}

func NewUserHandler(service UserController, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.Named("user_handler"),
	}
}

func (h *UserHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/users", h.list)
	mux.HandleFunc("GET /v1/users/stats", h.stats)
	mux.HandleFunc("GET /v1/users/me", h.me)
	mux.HandleFunc("GET /v1/users/{id}", h.get)
	mux.HandleFunc("POST /v1/users", h.create)
	mux.HandleFunc("PATCH /v1/users/{id}", h.update)
	mux.HandleFunc("DELETE /v1/users/{id}", h.delete)
	mux.HandleFunc("DELETE /v1/users/{id}/permanent", h.permanentDelete)
	mux.HandleFunc("POST /v1/users/{id}/status", h.setStatus)
}

func userFilterFromQuery(r *http.Request) *models.UserFilter {
	q := r.URL.Query()
	return &models.UserFilter{
		Search:          q.Get("search"),
		Role:            models.Role(q.Get("role")),
		Department:      q.Get("department"),
		Status:          models.UserStatus(q.Get("status")),
		IncludeInactive: queryBool(r, "includeInactive"),
		SortBy:          q.Get("sortBy"),
		SortDesc:        queryBool(r, "sortDesc"),
	}
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), userFilterFromQuery(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// me returns the profile for the authenticated caller, creating it on
// first sight.
func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, e.ErrNotFound)
		return
	}
	profile, err := h.service.EnsureProfile(r.Context(), controller.Principal{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var body models.User
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

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	var body models.UserUpdate
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

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *UserHandler) permanentDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.PermanentDelete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *UserHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.UserStatus `json:"status"`
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

func (h *UserHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
