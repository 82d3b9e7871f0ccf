package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPChecker probes the backend the service aggregates over.
type HTTPChecker struct {
	BaseURL string
	HTTP    *http.Client
}

func (c HTTPChecker) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// PingBackend issues a lightweight request against the backend root. Any
// response counts as alive; only transport failures and 5xx fail the probe.
func (c HTTPChecker) PingBackend(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}
	return nil
}
