package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/healthease/portal/internal/loginflow"
)

const loginPath = "/auth/login"

// Client talks to the HealthEase authentication service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the portal at baseURL, e.g. https://portal.healthease.io/api.
// Session cookies set by the service live in an in-memory jar for the life of the client.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar: jar,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// APIError is a non-2xx answer from the service
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("login failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("login failed (status %d): %s", e.StatusCode, e.Body)
}

// UserMessage returns the message the service wants shown to the user
func (e *APIError) UserMessage() string {
	return e.Message
}

// errorBody is the shape of error responses
type errorBody struct {
	Message string `json:"message"`
}

// Authenticate posts the credentials to the login endpoint. A 2xx answer is
// decoded into the auth response; anything else is returned as *APIError.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*loginflow.AuthResponse, error) {
	jsonData, err := json.Marshal(LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Message = eb.Message
		}
		return nil, apiErr
	}

	return decodeAuthResponse(body), nil
}

// successBody holds the fields of a 2xx answer before their types are known
type successBody struct {
	Role        json.RawMessage `json:"role"`
	Status      json.RawMessage `json:"status"`
	Requires2FA json.RawMessage `json:"requires2FA"`
}

// decodeAuthResponse reads a 2xx body without ever failing. A 2xx is a
// completed login whatever the body holds: unreadable bodies count as an
// empty response, role and status are kept when they carry a truthy
// scalar, and any truthy requires2FA asks for the second factor.
func decodeAuthResponse(body []byte) *loginflow.AuthResponse {
	var raw successBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return &loginflow.AuthResponse{}
	}

	return &loginflow.AuthResponse{
		Role:        scalarText(raw.Role),
		Status:      scalarText(raw.Status),
		Requires2FA: truthy(raw.Requires2FA),
	}
}

// truthy follows JavaScript truthiness for a JSON value.
// Missing, null, false, 0 and "" are false; everything else is true.
func truthy(raw json.RawMessage) bool {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return false
	}

	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		// objects and arrays
		return true
	}
}

// scalarText returns the text of a truthy string, number or boolean.
// Falsy values and objects/arrays yield "".
func scalarText(raw json.RawMessage) string {
	if !truthy(raw) {
		return ""
	}

	var v any
	_ = json.Unmarshal(raw, &v)
	switch val := v.(type) {
	case string:
		return val
	case float64, bool:
		return string(bytes.TrimSpace(raw))
	default:
		return ""
	}
}
