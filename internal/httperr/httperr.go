// Package httperr maps error kinds to HTTP responses and back.
package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"antiplagiarism/internal/errdefs"

	"github.com/go-chi/render"
)

const (
	CodeInvalidInput          = "invalid_input"
	CodeNotFound              = "not_found"
	CodeStorageCorrupted      = "storage_corrupted"
	CodeDependencyUnavailable = "dependency_unavailable"
	CodeInternal              = "internal"
)

type Response struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Status returns the HTTP status and wire code for err.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, errdefs.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidInput
	case errors.Is(err, errdefs.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, errdefs.ErrStorageCorrupted):
		return http.StatusInternalServerError, CodeStorageCorrupted
	case errors.Is(err, errdefs.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, CodeDependencyUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// Write renders err as a JSON error body. Internal errors are logged and
// their message is not exposed.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	status, code := Status(err)
	msg := err.Error()
	if code == CodeInternal {
		slog.Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal server error"
	}
	render.Status(r, status)
	render.JSON(w, r, Response{Error: msg, Code: code})
}

// FromResponse converts a non-2xx response into an error wrapping the
// matching errdefs kind.
func FromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload Response
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == "" {
		payload.Error = string(body)
		payload.Code = codeForStatus(resp.StatusCode)
	}

	var kind error
	switch payload.Code {
	case CodeInvalidInput:
		kind = errdefs.ErrInvalidInput
	case CodeNotFound:
		kind = errdefs.ErrNotFound
	case CodeStorageCorrupted:
		kind = errdefs.ErrStorageCorrupted
	case CodeDependencyUnavailable:
		kind = errdefs.ErrDependencyUnavailable
	default:
		kind = errdefs.ErrInternal
	}
	return fmt.Errorf("remote status %d: %s: %w", resp.StatusCode, payload.Error, kind)
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return CodeInvalidInput
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return CodeDependencyUnavailable
	default:
		return CodeInternal
	}
}
