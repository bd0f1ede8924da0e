// Package api submits create-account records to the accounts service.
package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zarlcorp/core/pkg/zcrypto"
	"github.com/zarlcorp/zenroll/internal/account"
)

// Config holds the accounts service endpoint and credentials.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client communicates with the accounts REST API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given service.
func NewClient(cfg Config) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateAccount posts a record to /accounts.
func (c *Client) CreateAccount(ctx context.Context, r account.Record) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("create account: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/accounts", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create account: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req); err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (c *Client) do(req *http.Request) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if id, err := requestID(); err == nil {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return &Error{
			StatusCode: resp.StatusCode,
			Code:       apiErr.Code,
			Message:    apiErr.Message,
		}
	}

	return &Error{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
}

// Error represents a rejection from the accounts service.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("accounts: %s (code %s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("accounts: %s (status %d)", e.Message, e.StatusCode)
}

// VerifyMessage returns the service's own message when err is a client-side
// rejection (4xx), for display to the user as-is.
func VerifyMessage(err error) (string, bool) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "", false
	}
	if apiErr.StatusCode < 400 || apiErr.StatusCode >= 500 {
		return "", false
	}
	return apiErr.Message, true
}

func requestID() (string, error) {
	b, err := zcrypto.RandBytes(8)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

type apiErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
