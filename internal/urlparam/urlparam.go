// Package urlparam reads decoded chi path parameters.
package urlparam

import (
	"fmt"
	"net/http"
	"net/url"

	"antiplagiarism/internal/errdefs"

	"github.com/go-chi/chi/v5"
)

// Value returns the path parameter key with percent-escapes decoded.
// chi matches on r.URL.RawPath when it is set, so parameters such as
// "cs101%3Bhw1" or "a%2Fb" reach handlers still escaped.
func Value(r *http.Request, key string) (string, error) {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw, nil
	}
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", key, raw, errdefs.ErrInvalidInput)
	}
	return value, nil
}

// Required is Value that also rejects an empty parameter.
func Required(r *http.Request, key string) (string, error) {
	value, err := Value(r, key)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("%s is required: %w", key, errdefs.ErrInvalidInput)
	}
	return value, nil
}
