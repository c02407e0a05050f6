package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

// BackendClient talks to the REST backend that owns the user's records,
// forwarding the caller's bearer token on every request.
type BackendClient struct {
	baseURL string
	client  *http.Client
	retry   utils.RetryConfig
}

func NewBackendClient(baseURL string, client *http.Client, retry utils.RetryConfig) *BackendClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &BackendClient{baseURL: strings.TrimRight(baseURL, "/"), client: client, retry: retry}
}

// Do sends in (if non-nil) as JSON and decodes the response into out (if
// non-nil). GET, PUT and DELETE are retried; POST is attempted once since
// the backend assigns ids.
func (c *BackendClient) Do(ctx context.Context, cred utils.Credentials, method, path string, in, out any) error {
	if cred.Token == "" {
		return apperr.Unauthorized("missing bearer token")
	}
	op := "backend " + method + " " + path

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		payload = b
	}

	cfg := c.retry
	if method == http.MethodPost {
		cfg.MaxAttempts = 1
	}

	body, err := callUpstream(ctx, cfg, "backend", func() ([]byte, error) {
		req, err := newRequest(ctx, method, c.baseURL+path, bytesReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%s: build request: %w", op, err)
		}
		req.Header.Set("Authorization", "Bearer "+cred.Token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, apperr.Upstream(op, 0, err)
		}
		return readResponse(op, resp, true)
	})
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Upstream(op, 0, fmt.Errorf("decode body: %w", err))
	}
	return nil
}
