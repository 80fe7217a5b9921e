package analysis

import (
	"fmt"
	"log/slog"
	"net/http"

	"antiplagiarism/internal/errdefs"
	"antiplagiarism/internal/httperr"
	"antiplagiarism/internal/urlparam"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type Handler struct {
	detector *Detector
}

func NewHandler(detector *Detector) *Handler {
	return &Handler{
		detector: detector,
	}
}

// Register mounts the analysis routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/reports", func(rt chi.Router) {
		rt.Post("/", h.CreateReport)
		rt.Get("/{id}", h.GetReport)
	})
	r.Get("/assignments/{assignmentID}/reports", h.ListAssignmentReports)
}

type createReportRequest struct {
	WorkID string `json:"work_id"`
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		slog.Error("failed to decode request", "err", err)
		httperr.Write(w, r, fmt.Errorf("invalid json: %w", errdefs.ErrInvalidInput))
		return
	}

	workID, err := parseID(req.WorkID)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	report, err := h.detector.Analyze(r.Context(), workID)
	if err != nil {
		slog.Error("failed to analyze work", "work_id", workID, "err", err)
		httperr.Write(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, report)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	report, err := h.detector.Report(r.Context(), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}

func (h *Handler) ListAssignmentReports(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := urlparam.Required(r, "assignmentID")
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	reports, err := h.detector.ReportsForAssignment(r.Context(), assignmentID)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, reports)
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
