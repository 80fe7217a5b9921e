package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"antiplagiarism/internal/errdefs"

	"github.com/stretchr/testify/assert"
)

func TestWriteThenFromResponse_PreservesKind(t *testing.T) {
	kinds := []error{
		errdefs.ErrInvalidInput,
		errdefs.ErrNotFound,
		errdefs.ErrStorageCorrupted,
		errdefs.ErrDependencyUnavailable,
		errdefs.ErrInternal,
	}
	for _, kind := range kinds {
		t.Run(kind.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/works/1", nil)
			Write(rec, req, fmt.Errorf("lookup: %w", kind))

			err := FromResponse(rec.Result())
			assert.True(t, errors.Is(err, kind), "got %v", err)
		})
	}
}

func TestWrite_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/works/1", nil)
	Write(rec, req, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestFromResponse_PlainTextBody(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusBadGateway, Body: http.NoBody}
	assert.ErrorIs(t, FromResponse(resp), errdefs.ErrDependencyUnavailable)

	rec := httptest.NewRecorder()
	http.Error(rec, "Not Found", http.StatusNotFound)
	err := FromResponse(rec.Result())
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
	assert.True(t, strings.Contains(err.Error(), "Not Found"))
}
