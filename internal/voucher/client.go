package voucher

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

// ErrNotFound indicates the voucher code is unknown upstream.
var ErrNotFound = errors.New("voucher not found")

// Client fetches voucher records from the commerce backend.
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

// List returns all voucher records visible to the shopper.
func (c *Client) List(ctx context.Context) ([]Voucher, error) {
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return nil, errors.New("voucher client not configured")
	}
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/vouchers"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch vouchers: %w", err)
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch vouchers: unexpected status %d", resp.StatusCode)
	}
	var payload []Voucher
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode vouchers: %w", err)
	}
	return payload, nil
}

// GetByCode looks up a single voucher by its code.
func (c *Client) GetByCode(ctx context.Context, code string) (Voucher, error) {
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return Voucher{}, errors.New("voucher client not configured")
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return Voucher{}, errors.New("voucher code is required")
	}
	endpoint := fmt.Sprintf("%s/vouchers/%s", strings.TrimRight(c.BaseURL, "/"), url.PathEscape(trimmed))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Voucher{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Voucher{}, fmt.Errorf("fetch voucher: %w", err)
	}
	defer drain(resp)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Voucher{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return Voucher{}, fmt.Errorf("fetch voucher: unexpected status %d", resp.StatusCode)
	}
	var payload Voucher
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Voucher{}, fmt.Errorf("decode voucher: %w", err)
	}
	return payload, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
