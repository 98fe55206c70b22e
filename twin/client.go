package twin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds each twin API call.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is quoted in errors.
const maxErrorBody = 512

// ResourceDescriptor describes one resource to mirror into the twin.
type ResourceDescriptor struct {
	// Type is the resource type, e.g. "storage_bucket".
	Type string `json:"type"`

	// Name is the resource identifier.
	Name string `json:"name"`

	// Attributes carries provider-specific configuration to mirror.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Twin identifies a created digital twin.
type Twin struct {
	// ID is the twin identifier assigned by the service.
	ID string `json:"id"`

	// ChangeSetID is the change set the twin's components live in.
	ChangeSetID string `json:"change_set_id,omitempty"`

	// Components is the number of mirrored resources.
	Components int `json:"components"`

	// Status is the twin's lifecycle state.
	Status string `json:"status,omitempty"`
}

// Client talks to the digital-twin service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-call timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a Client for the service at baseURL authenticating
// with the given bearer token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateTwin mirrors the given resources into a new twin in the named
// workspace and returns its identity.
func (c *Client) CreateTwin(ctx context.Context, workspace string, resources []ResourceDescriptor) (*Twin, error) {
	if len(resources) == 0 {
		return nil, fmt.Errorf("create twin: no resources to mirror")
	}

	body := struct {
		Resources []ResourceDescriptor `json:"resources"`
	}{Resources: resources}

	var created Twin
	path := fmt.Sprintf("/v1/workspaces/%s/twins", workspace)
	if err := c.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return nil, fmt.Errorf("create twin: %w", err)
	}

	c.logger.Info("digital twin created",
		"twin_id", created.ID,
		"workspace", workspace,
		"components", created.Components)
	return &created, nil
}

// DeleteTwin removes a twin and its mirrored components.
func (c *Client) DeleteTwin(ctx context.Context, workspace, twinID string) error {
	path := fmt.Sprintf("/v1/workspaces/%s/twins/%s", workspace, twinID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete twin %s: %w", twinID, err)
	}
	c.logger.Info("digital twin deleted", "twin_id", twinID, "workspace", workspace)
	return nil
}

// GetTwin fetches the current state of a twin.
func (c *Client) GetTwin(ctx context.Context, workspace, twinID string) (*Twin, error) {
	var twin Twin
	path := fmt.Sprintf("/v1/workspaces/%s/twins/%s", workspace, twinID)
	if err := c.do(ctx, http.MethodGet, path, nil, &twin); err != nil {
		return nil, fmt.Errorf("get twin %s: %w", twinID, err)
	}
	return &twin, nil
}

// do executes one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("twin service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
