package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPCreator submits order requests to the commerce backend over REST.
type HTTPCreator struct {
	BaseURL string
	HTTP    *http.Client
}

func (c *HTTPCreator) httpClient() *http.Client {
	if c != nil && c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// Create posts the seller request and decodes the created order. Error
// responses from the backend are surfaced as a *SubmitError so callers can
// report per-seller reasons instead of a bare transport failure.
func (c *HTTPCreator) Create(ctx context.Context, reqBody SellerRequest) (Created, error) {
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return Created{}, errors.New("order creator not configured")
	}
	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return Created{}, fmt.Errorf("encode order request: %w", err)
	}
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return Created{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Created{}, fmt.Errorf("submit order: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Created{}, fmt.Errorf("read order response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Created{}, decodeFailure(resp.StatusCode, body)
	}

	var payload struct {
		Data Created `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Data.ID == "" {
		// Some backends return the order unwrapped.
		var direct Created
		if err := json.Unmarshal(body, &direct); err != nil || direct.ID == "" {
			return Created{}, &SubmitError{Reasons: []string{"order response missing order id"}}
		}
		return direct, nil
	}
	return payload.Data, nil
}

func decodeFailure(status int, body []byte) error {
	var payload struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	reasons := []string{}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Errors) > 0 {
			reasons = append(reasons, payload.Errors...)
		}
		if payload.Message != "" {
			reasons = append(reasons, payload.Message)
		}
		if payload.Error.Message != "" {
			reasons = append(reasons, payload.Error.Message)
		}
	}
	if len(reasons) == 0 {
		reasons = append(reasons, fmt.Sprintf("order creation failed with status %d", status))
	}
	return &SubmitError{Reasons: reasons}
}
