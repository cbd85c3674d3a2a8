package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/hrms/internal/hr/controller"
	"github.com/gartstein/hrms/internal/hr/listview"
	"github.com/gartstein/hrms/internal/hr/models"
	"go.uber.org/zap"
)

// EmployeeController defines the business logic interface the employee
// directory routes invoke.
type EmployeeController interface {
	List(ctx context.Context, filter *models.EmployeeFilter) ([]models.Employee, error)
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	Create(ctx context.Context, emp *models.Employee) (*models.Employee, error)
	Update(ctx context.Context, id string, u *models.EmployeeUpdate) (*models.Employee, error)
	Delete(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*controller.EmployeeStats, error)
}

// EmployeeHandler serves the employee directory routes.
type EmployeeHandler struct {
	service EmployeeController
	logger  *zap.Logger
}

func NewEmployeeHandler(service EmployeeController, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		logger:  logger.Named("employee_handler"),
	}
}

func (h *EmployeeHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/employees", h.list)
	mux.HandleFunc("GET /v1/employees/stats", h.stats)
	mux.HandleFunc("GET /v1/employees/export", h.export)
	mux.HandleFunc("GET /v1/employees/{id}", h.get)
	mux.HandleFunc("POST /v1/employees", h.create)
	mux.HandleFunc("PATCH /v1/employees/{id}", h.update)
	mux.HandleFunc("DELETE /v1/employees/{id}", h.delete)
	mux.HandleFunc("DELETE /v1/employees/{id}/permanent", h.permanentDelete)
}

func employeeFilterFromQuery(r *http.Request) *models.EmployeeFilter {
	q := r.URL.Query()
	return &models.EmployeeFilter{
		Search:          q.Get("search"),
		Department:      q.Get("department"),
		Position:        q.Get("position"),
		Status:          models.EmploymentStatus(q.Get("status")),
		IncludeInactive: queryBool(r, "includeInactive"),
		SortBy:          q.Get("sortBy"),
		SortDesc:        queryBool(r, "sortDesc"),
	}
}

func (h *EmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), employeeFilterFromQuery(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *EmployeeHandler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *EmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var body models.Employee
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

func (h *EmployeeHandler) update(w http.ResponseWriter, r *http.Request) {
	var body models.EmployeeUpdate
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

func (h *EmployeeHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *EmployeeHandler) permanentDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.PermanentDelete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *EmployeeHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// export serializes the filtered directory as a CSV download.
func (h *EmployeeHandler) export(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), employeeFilterFromQuery(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	view := listview.New[models.Employee]()
	view.BeginLoad()
	view.Resolve(items, nil)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="employees.csv"`)
	err = view.ExportCSV(w,
		[]string{"id", "firstName", "lastName", "email", "department", "position", "status"},
		func(emp models.Employee) []string {
			return []string{emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.Department, emp.Position, string(emp.Status)}
		})
	if err != nil {
		h.logger.Error("csv export failed", zap.Error(err))
	}
}
