package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"antiplagiarism/internal/urlparam"

	"github.com/go-chi/chi/v5"
)

// CreateWorkAndReport forwards the multipart upload to storage and then asks
// analysis for a report. A stored work is returned even if analysis fails.
func (g *Gateway) CreateWorkAndReport(w http.ResponseWriter, r *http.Request) {
	storageURL := g.storageBaseURL + "/works"

	stReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, storageURL, r.Body)
	if err != nil {
		slog.Error("failed to create storage request", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	stReq.Header.Set("Content-Type", r.Header.Get("Content-Type"))
	stReq.ContentLength = r.ContentLength

	stResp, err := g.httpClient.Do(stReq)
	if err != nil {
		slog.Error("storage request failed", "err", err)
		http.Error(w, "storage service unavailable", http.StatusServiceUnavailable)
		return
	}
	defer stResp.Body.Close()

	if stResp.StatusCode != http.StatusCreated {
		slog.Error("storage returned non-201", "status", stResp.StatusCode)
		copyResponse(w, stResp)
		return
	}

	var createdWork Work
	if err := json.NewDecoder(stResp.Body).Decode(&createdWork); err != nil {
		slog.Error("failed to decode storage response", "err", err)
		http.Error(w, "invalid response from storage", http.StatusBadGateway)
		return
	}

	combined := CombinedWorkResponse{Work: createdWork}
	report, err := g.createReport(r, createdWork.ID)
	if err != nil {
		slog.Warn("analysis failed, returning work without report", "work_id", createdWork.ID, "err", err)
	} else {
		combined.Report = report
	}

	writeJSON(w, http.StatusCreated, combined)
}

func (g *Gateway) createReport(r *http.Request, workID string) (*Report, error) {
	body, err := json.Marshal(CreateReportRequest{WorkID: workID})
	if err != nil {
		return nil, err
	}

	anReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, g.analysisBaseURL+"/reports", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	anReq.Header.Set("Content-Type", "application/json")

	anResp, err := g.httpClient.Do(anReq)
	if err != nil {
		return nil, err
	}
	defer anResp.Body.Close()

	if anResp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(anResp.Body, 1024))
		return nil, &statusError{status: anResp.StatusCode, body: string(msg)}
	}

	var report Report
	if err := json.NewDecoder(anResp.Body).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (g *Gateway) GetWorkProxy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	g.proxyGet(w, r, g.storageBaseURL+"/works/"+url.PathEscape(id))
}

func (g *Gateway) GetWorkContentProxy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	g.proxyGet(w, r, g.storageBaseURL+"/works/"+url.PathEscape(id)+"/content")
}

func (g *Gateway) ListWorksProxy(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := urlparam.Required(r, "assignmentID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	g.proxyGet(w, r, g.storageBaseURL+"/assignments/"+url.PathEscape(assignmentID)+"/works")
}

func (g *Gateway) ListReportsProxy(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := urlparam.Required(r, "assignmentID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	g.proxyGet(w, r, g.analysisBaseURL+"/assignments/"+url.PathEscape(assignmentID)+"/reports")
}

func (g *Gateway) proxyGet(w http.ResponseWriter, r *http.Request, target string) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		slog.Error("failed to create proxy request", "target", target, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		slog.Error("proxy request failed", "target", target, "err", err)
		http.Error(w, "upstream service unavailable", http.StatusServiceUnavailable)
		return
	}
	defer resp.Body.Close()

	copyResponse(w, resp)
}

func copyResponse(w http.ResponseWriter, resp *http.Response) {
	for _, h := range []string{"Content-Type", "Content-Length", "Content-Disposition"} {
		if v := resp.Header.Get(h); v != "" {
			w.Header().Set(h, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		slog.Error("failed to copy upstream response", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode gateway response", "err", err)
	}
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return "analysis returned " + http.StatusText(e.status) + ": " + e.body
}
