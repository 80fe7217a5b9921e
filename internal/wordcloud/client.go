// Package wordcloud renders submission text as a QuickChart word cloud.
package wordcloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"antiplagiarism/internal/errdefs"
)

// maxTextLength keeps the generated URL within what browsers and proxies accept.
const maxTextLength = 1000

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Summarize returns a word cloud URL for text after checking that the
// service renders it. Every failure wraps errdefs.ErrDependencyUnavailable.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	text = prepareText(text)
	if text == "" {
		return "", fmt.Errorf("no text to summarize: %w", errdefs.ErrDependencyUnavailable)
	}

	cloudURL := c.URL(text)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cloudURL, nil)
	if err != nil {
		return "", fmt.Errorf("create wordcloud request: %v: %w", err, errdefs.ErrDependencyUnavailable)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wordcloud request failed: %v: %w", err, errdefs.ErrDependencyUnavailable)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("wordcloud returned status %d: %w", resp.StatusCode, errdefs.ErrDependencyUnavailable)
	}
	return cloudURL, nil
}

// URL builds the rendering link for already prepared text.
func (c *Client) URL(text string) string {
	q := url.Values{}
	q.Set("text", text)
	q.Set("format", "png")
	q.Set("width", "500")
	q.Set("height", "500")
	q.Set("fontScale", "15")
	q.Set("removeStopwords", "true")
	q.Set("minWordLength", "4")
	return c.baseURL + "/wordcloud?" + q.Encode()
}

// prepareText drops invalid UTF-8 and surrounding whitespace and keeps at
// most maxTextLength characters. Only the kept prefix of text is decoded.
func prepareText(text string) string {
	var b strings.Builder
	for i, n := 0, 0; i < len(text) && n < maxTextLength; {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if n == 0 && unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}
