package storage

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"antiplagiarism/internal/errdefs"
	"antiplagiarism/internal/httperr"
	"antiplagiarism/internal/urlparam"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

const defaultMaxUploadSize = 32 << 20

type Handler struct {
	svc           *Service
	maxUploadSize int64
}

func NewHandler(svc *Service, maxUploadSize int64) *Handler {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &Handler{
		svc:           svc,
		maxUploadSize: maxUploadSize,
	}
}

// Register mounts the storage routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/works", func(rt chi.Router) {
		rt.Post("/", h.CreateWork)
		rt.Get("/{id}", h.GetWork)
		rt.Get("/{id}/content", h.GetWorkContent)
	})
	r.Get("/assignments/{assignmentID}/works", h.ListAssignmentWorks)
}

// CreateWork accepts a multipart form with assignment_id, author_id and file.
func (h *Handler) CreateWork(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		httperr.Write(w, r, fmt.Errorf("parse multipart form: %v: %w", err, errdefs.ErrInvalidInput))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httperr.Write(w, r, fmt.Errorf("file is required: %w", errdefs.ErrInvalidInput))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		httperr.Write(w, r, fmt.Errorf("read upload: %v: %w", err, errdefs.ErrInvalidInput))
		return
	}

	sub, err := h.svc.Store(r.Context(), r.FormValue("assignment_id"), r.FormValue("author_id"), header.Filename, content)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sub)
}

func (h *Handler) GetWork(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	sub, err := h.svc.GetMetadata(r.Context(), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, sub)
}

func (h *Handler) GetWorkContent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	sub, err := h.svc.GetMetadata(r.Context(), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	content, err := h.svc.GetContent(r.Context(), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	if sub.OriginalName != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": sub.OriginalName}))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (h *Handler) ListAssignmentWorks(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := urlparam.Required(r, "assignmentID")
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	subs, err := h.svc.ListByAssignment(r.Context(), assignmentID)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, subs)
}

func parseID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("id is required: %w", errdefs.ErrInvalidInput)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", raw, errdefs.ErrInvalidInput)
	}
	return id, nil
}
