package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gartstein/hrms/internal/hr/controller"
	e "github.com/gartstein/hrms/internal/hr/errors"
	"github.com/gartstein/hrms/internal/hr/models"
	"go.uber.org/zap"
)

// DocumentController defines the business logic interface the document
// routes invoke.
type DocumentController interface {
	List(ctx context.Context, filter *models.DocumentFilter) ([]models.Document, error)
	GetByID(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, d *models.Document, fileData []byte) (*models.Document, error)
	FileBytes(ctx context.Context, id string) ([]byte, *models.Document, error)
	Update(ctx context.Context, id string, u *models.DocumentUpdate) (*models.Document, error)
	Delete(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*controller.DocumentStats, error)
}

// DocumentHandler serves the document routes.
type DocumentHandler struct {
	service DocumentController
	logger  *zap.Logger
}

func NewDocumentHandler(service DocumentController, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger.Named("document_handler"),
	}
}

func (h *DocumentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/documents", h.list)
	mux.HandleFunc("GET /v1/documents/stats", h.stats)
	mux.HandleFunc("GET /v1/documents/{id}", h.get)
	mux.HandleFunc("GET /v1/documents/{id}/file", h.downloadFile)
	mux.HandleFunc("POST /v1/documents", h.create)
	mux.HandleFunc("PATCH /v1/documents/{id}", h.update)
	mux.HandleFunc("DELETE /v1/documents/{id}", h.delete)
	mux.HandleFunc("DELETE /v1/documents/{id}/permanent", h.permanentDelete)
}

func documentFilterFromQuery(r *http.Request) *models.DocumentFilter {
	q := r.URL.Query()
	return &models.DocumentFilter{
		Search:          q.Get("search"),
		Type:            models.DocumentType(q.Get("type")),
		Category:        q.Get("category"),
		AccessLevel:     models.AccessLevel(q.Get("accessLevel")),
		UploadedBy:      q.Get("uploadedBy"),
		IncludeInactive: queryBool(r, "includeInactive"),
		SortBy:          q.Get("sortBy"),
		SortDesc:        queryBool(r, "sortDesc"),
	}
}

func (h *DocumentHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), documentFilterFromQuery(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *DocumentHandler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// create accepts the document metadata plus an optional base64 file
// body in the same JSON payload.
func (h *DocumentHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		models.Document
		FileData string `json:"fileData,omitempty"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	var fileData []byte
	if body.FileData != "" {
		decoded, err := base64.StdEncoding.DecodeString(body.FileData)
		if err != nil {
			writeError(w, h.logger, errors.Join(e.ErrInvalidInput, err))
			return
		}
		fileData = decoded
	}
	created, err := h.service.Create(r.Context(), &body.Document, fileData)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// downloadFile streams the stored file body back with its original
// name and content type.
func (h *DocumentHandler) downloadFile(w http.ResponseWriter, r *http.Request) {
	data, doc, err := h.service.FileBytes(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	contentType := doc.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to stream document file",
			zap.String("document_id", doc.ID),
			zap.Error(err),
		)
	}
}

func (h *DocumentHandler) update(w http.ResponseWriter, r *http.Request) {
	var body models.DocumentUpdate
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

func (h *DocumentHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *DocumentHandler) permanentDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.PermanentDelete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *DocumentHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
