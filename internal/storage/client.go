package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"antiplagiarism/internal/errdefs"
	"antiplagiarism/internal/httperr"

	"github.com/google/uuid"
)

// Client reads submissions from a remote storage service. Transport failures
// wrap errdefs.ErrDependencyUnavailable; remote error kinds are preserved.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) GetMetadata(ctx context.Context, id uuid.UUID) (*Submission, error) {
	var sub Submission
	if err := c.getJSON(ctx, "/works/"+id.String(), &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) GetContent(ctx context.Context, id uuid.UUID) ([]byte, error) {
	resp, err := c.get(ctx, "/works/"+id.String()+"/content")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read content of %s: %v: %w", id, err, errdefs.ErrDependencyUnavailable)
	}
	return content, nil
}

func (c *Client) ListByAssignment(ctx context.Context, assignmentID string) ([]*Submission, error) {
	subs := []*Submission{}
	if err := c.getJSON(ctx, "/assignments/"+url.PathEscape(assignmentID)+"/works", &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	resp, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode storage response: %v: %w", err, errdefs.ErrDependencyUnavailable)
	}
	return nil
}

// get returns the response only on 200; the caller closes the body.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage request failed: %v: %w", err, errdefs.ErrDependencyUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, httperr.FromResponse(resp)
	}
	return resp, nil
}
