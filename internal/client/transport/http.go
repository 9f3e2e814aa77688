package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dberzins/budgetsync/internal/common"
	"github.com/dberzins/budgetsync/internal/logging"
	"github.com/dberzins/budgetsync/internal/protocol"
	"github.com/sethvargo/go-retry"
)

const requestTimeout = 15 * time.Second

// HTTPClient implements Client against the server's JSON API. Connection
// failures are retried with a short fibonacci backoff before the round is
// declared failed; a rejection from the server is never retried.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   string
	logger  logging.Logger
}

func NewHTTPClient(baseURL string, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger.With("module", "transport"),
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) Sync(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync request: %w", err)
	}

	resp := &protocol.Response{}
	if err := c.post(ctx, "/api/sync", body, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/ping", nil)
	if err != nil {
		return err
	}
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer httpResp.Body.Close()
	_, _ = io.Copy(io.Discard, httpResp.Body)

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %s", common.ErrRejected, httpResp.Status)
	}
	return nil
}

func (c *HTTPClient) RegisterDevice(ctx context.Context, deviceID string) (string, error) {
	body, err := json.Marshal(map[string]string{"deviceId": deviceID})
	if err != nil {
		return "", err
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/api/devices", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// post sends one JSON request and decodes the JSON response into out.
// Connection-level failures are retryable; a response is final.
func (c *HTTPClient) post(ctx context.Context, path string, body []byte, out any) error {
	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(300*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			httpReq.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.token)
		}

		httpResp, err := c.http.Do(httpReq)
		if err != nil {
			c.logger.Warn(ctx, "request failed, retrying", "path", path, "error", err)
			return retry.RetryableError(fmt.Errorf("%w: %v", common.ErrUnavailable, err))
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1024))
			return fmt.Errorf("%w: status %s: %s", common.ErrRejected, httpResp.Status, payload)
		}

		if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: undecodable response: %v", common.ErrRejected, err)
		}
		return nil
	})
	return err
}
