// Package media removes avatar assets referenced by deleted persons. Cleanup
// is strictly best-effort: the coordinator logs failures and keeps going, so
// implementations never need retry loops of their own.
package media

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Cleaner deletes a referenced media object.
type Cleaner interface {
	Remove(ctx context.Context, ref string) error
}

// HTTPCleaner issues DELETE calls against the media service.
type HTTPCleaner struct {
	baseURL string
	client  *http.Client
}

func NewHTTP(baseURL string) *HTTPCleaner {
	return &HTTPCleaner{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPCleaner) Remove(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	endpoint := fmt.Sprintf("%s/media/%s", c.baseURL, url.PathEscape(ref))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build media delete request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete media %q: %w", ref, err)
	}
	defer resp.Body.Close()

	// Already-gone counts as cleaned.
	if resp.StatusCode == http.StatusNotFound || (resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return nil
	}
	return fmt.Errorf("delete media %q: unexpected status %d", ref, resp.StatusCode)
}

// NoopCleaner is used in tests and when no media service is configured.
type NoopCleaner struct{}

func (NoopCleaner) Remove(context.Context, string) error { return nil }
