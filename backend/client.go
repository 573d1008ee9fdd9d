// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deskbridge/deskbridge/lib/netutil"
	"github.com/deskbridge/deskbridge/lib/schema/backendapi"
)

// Options configures a Client.
type Options struct {
	// HTTPClient sends every request. Defaults to http.DefaultClient,
	// whose transport defaults are the only timeouts applied.
	HTTPClient *http.Client

	// Logger receives one debug record per call. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client issues typed calls against one backend base URL. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New returns a client for the backend at baseURL, e.g.
// "http://127.0.0.1:8080". The URL must be absolute http or https.
func New(baseURL string, options Options) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing backend address %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("backend address %q must use http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("backend address %q has no host", baseURL)
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the backend address the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*backendapi.HealthStatus, error) {
	var result backendapi.HealthStatus
	if err := c.call(ctx, OperationHealth, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SystemInfo fetches GET /system.
func (c *Client) SystemInfo(ctx context.Context) (*backendapi.SystemInfo, error) {
	var result backendapi.SystemInfo
	if err := c.call(ctx, OperationSystemInfo, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Greet fetches GET /greet. A blank name is omitted so the backend
// applies its default.
func (c *Client) Greet(ctx context.Context, name string) (*backendapi.Greeting, error) {
	var query url.Values
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		query = url.Values{backendapi.GreetNameParameter: {trimmed}}
	}
	var result backendapi.Greeting
	if err := c.call(ctx, OperationGreet, query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Compute posts number to /compute. Inputs outside
// [backendapi.MinComputeInput, backendapi.MaxComputeInput] fail with
// KindValidation before any request is made.
func (c *Client) Compute(ctx context.Context, number int) (*backendapi.ComputeResult, error) {
	if err := ValidateComputeInput(number); err != nil {
		return nil, err
	}
	var result backendapi.ComputeResult
	request := backendapi.ComputeRequest{Number: &number}
	if err := c.call(ctx, OperationCompute, nil, request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListFiles fetches GET /files.
func (c *Client) ListFiles(ctx context.Context) ([]backendapi.FileEntry, error) {
	var result []backendapi.FileEntry
	if err := c.call(ctx, OperationListFiles, nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ValidateComputeInput applies the compute range check without a
// client.
func ValidateComputeInput(number int) error {
	if number < backendapi.MinComputeInput || number > backendapi.MaxComputeInput {
		return &CallError{
			Operation: OperationCompute,
			Kind:      KindValidation,
			Message: fmt.Sprintf("number must be between %d and %d, got %d",
				backendapi.MinComputeInput, backendapi.MaxComputeInput, number),
		}
	}
	return nil
}

// call sends one request for operation and decodes a successful body
// into result. Every failure is returned as a *CallError.
func (c *Client) call(ctx context.Context, operation Operation, query url.Values, body any, result any) error {
	endpoint, ok := endpointTable[operation]
	if !ok {
		return &CallError{Operation: operation, Kind: KindValidation, Message: "unknown operation"}
	}

	target := c.baseURL + endpoint.Path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &CallError{Operation: operation, Kind: KindValidation, Message: "encoding request", Err: err}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, endpoint.Method, target, bodyReader)
	if err != nil {
		return &CallError{Operation: operation, Kind: KindUnreachable, Message: "building request", Err: err}
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Debug("backend call failed", "operation", operation, "error", err)
		return &CallError{Operation: operation, Kind: KindUnreachable, Err: err}
	}
	defer response.Body.Close()

	c.logger.Debug("backend call",
		"operation", operation,
		"status", response.StatusCode,
		"duration", time.Since(start),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return &CallError{
			Operation:  operation,
			Kind:       KindBackendRejected,
			StatusCode: response.StatusCode,
			Message:    netutil.ErrorBody(response.Body),
		}
	}

	data, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return &CallError{Operation: operation, Kind: KindUnreachable, Message: "reading response", Err: err}
	}
	if err := checkShape(endpoint, data); err != nil {
		return &CallError{Operation: operation, Kind: KindMalformed, Err: err}
	}
	if err := json.Unmarshal(data, result); err != nil {
		return &CallError{Operation: operation, Kind: KindMalformed, Err: err}
	}
	return nil
}

// checkShape verifies that data is a JSON object (or array of objects)
// carrying every required field of endpoint with a non-null value.
func checkShape(endpoint Endpoint, data []byte) error {
	if !endpoint.ResponseIsList {
		var object map[string]json.RawMessage
		if err := json.Unmarshal(data, &object); err != nil {
			return fmt.Errorf("expected a JSON object: %w", err)
		}
		if object == nil {
			return fmt.Errorf("expected a JSON object, got null")
		}
		return requireFields(object, endpoint.RequiredFields)
	}

	var list []map[string]json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected a JSON array of objects: %w", err)
	}
	if list == nil {
		return fmt.Errorf("expected a JSON array, got null")
	}
	for index, object := range list {
		if err := requireFields(object, endpoint.RequiredFields); err != nil {
			return fmt.Errorf("element %d: %w", index, err)
		}
	}
	return nil
}

func requireFields(object map[string]json.RawMessage, fields []string) error {
	for _, field := range fields {
		value, ok := object[field]
		if !ok || string(value) == "null" {
			return fmt.Errorf("missing required field %q", field)
		}
	}
	return nil
}
