package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/logger"
)

const serviceName = "library-api"

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// Client talks to the library REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type request struct {
	method  string
	path    string
	body    any
	headers map[string]string
}

// do sends req and returns the body of a 2xx response. Transport failures and
// non-2xx statuses come back as *domain.DependencyError.
func (c *Client) do(ctx context.Context, auth domain.AuthContext, req request) ([]byte, error) {
	op := req.method + " " + req.path

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if h := auth.BearerHeader(); h != "" {
		httpReq.Header.Set("Authorization", h)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	started := time.Now()
	logger.ExternalServiceCall(serviceName, op)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		depErr := &domain.DependencyError{Op: op, Err: err}
		logger.ExternalServiceResult(serviceName, op, started, depErr, "timeout", depErr.Timeout())
		return nil, depErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		depErr := &domain.DependencyError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
		logger.ExternalServiceResult(serviceName, op, started, depErr)
		return nil, depErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		depErr := &domain.DependencyError{Op: op, Status: resp.StatusCode, Err: statusError(resp.StatusCode, data)}
		logger.ExternalServiceResult(serviceName, op, started, depErr, "status", resp.StatusCode)
		return nil, depErr
	}

	logger.ExternalServiceResult(serviceName, op, started, nil, "status", resp.StatusCode)
	return data, nil
}

func statusError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrInvalidState, msg)
	}
	return fmt.Errorf("%s", msg)
}
