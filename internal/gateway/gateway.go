package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type Gateway struct {
	storageBaseURL  string
	analysisBaseURL string
	httpClient      *http.Client
}

func NewGateway(storageBaseURL, analysisBaseURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		storageBaseURL:  storageBaseURL,
		analysisBaseURL: analysisBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Register mounts the public API on r.
func (g *Gateway) Register(r chi.Router) {
	r.Post("/works", g.CreateWorkAndReport)
	r.Get("/works/{id}", g.GetWorkProxy)
	r.Get("/works/{id}/content", g.GetWorkContentProxy)
	r.Get("/assignments/{assignmentID}/works", g.ListWorksProxy)
	r.Get("/assignments/{assignmentID}/reports", g.ListReportsProxy)
}
