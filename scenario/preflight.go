package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrUnreachable = errors.New("target unreachable")

// Preflight requests the start URL once before a browser is launched.
// Redirects are followed; a final status of 400 or above fails.
func Preflight(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building preflight request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %s returned %s", ErrUnreachable, url, resp.Status)
	}
	return nil
}
