package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrNotFound indicates the requested cart could not be located upstream.
var ErrNotFound = errors.New("cart not found")

// Client fetches cart snapshots from the commerce backend and requests
// line removal after a purchase. It owns no state of its own.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c != nil && c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// Lines returns the ordered cart snapshot for a user.
func (c *Client) Lines(ctx context.Context, userID string) ([]Line, error) {
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return nil, errors.New("cart client not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id is required")
	}
	endpoint := fmt.Sprintf("%s/carts/%s/items", strings.TrimRight(c.BaseURL, "/"), url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch cart: unexpected status %d", resp.StatusCode)
	}
	var payload struct {
		Data []Line `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return payload.Data, nil
}

// RemoveLine deletes a single cart line by its identifier.
func (c *Client) RemoveLine(ctx context.Context, lineID string) error {
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("cart client not configured")
	}
	if strings.TrimSpace(lineID) == "" {
		return errors.New("line id is required")
	}
	endpoint := fmt.Sprintf("%s/cart-items/%s", strings.TrimRight(c.BaseURL, "/"), url.PathEscape(lineID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("remove cart line: unexpected status %d", resp.StatusCode)
	}
	return nil
}
