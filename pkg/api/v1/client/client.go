// Package client provides the API client for the studyforge API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/studyforge/studyforge/pkg/api/v1/middleware"
	"github.com/studyforge/studyforge/pkg/api/v1/routes"
	"github.com/studyforge/studyforge/pkg/types"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for the API client. Owner methods authenticate
// with an owner token; worker methods with the shared worker token.
type Client interface {
	// Health check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Owner endpoints
	SubmitGeneration(ctx context.Context, sourceURL string) (types.SubmitGenerationResponse, error)
	GetGeneration(ctx context.Context, id string) (types.GenerationResponse, error)
	ListGenerations(ctx context.Context, opts *ListGenerationsOptions) (types.ListResponse[types.GenerationResponse], error)
	CancelGeneration(ctx context.Context, id string) (types.CancelGenerationResponse, error)

	// Worker endpoints
	ClaimGeneration(ctx context.Context, id string) (types.ApplyResponse, error)
	ReportProgress(ctx context.Context, id string, req types.ProgressRequest) (types.ApplyResponse, error)
	CompleteGeneration(ctx context.Context, id string, req types.CompleteRequest) (types.ApplyResponse, error)
	FailGeneration(ctx context.Context, id string, req types.FailRequest) (types.ApplyResponse, error)
}

var _ Client = &APIClient{}

// ListGenerationsOptions holds query options for listing generations
type ListGenerationsOptions struct {
	Page   int
	Limit  int
	Status string
}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration

	// APIKey authenticates every request
	APIKey string
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	timeout time.Duration
	apiKey  string
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: timeout,
		apiKey:  opts.APIKey,
	}, nil
}

// createAgent creates a new fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")
	if c.apiKey != "" {
		agent.Set(middleware.HeaderAPIKey, c.apiKey)
	}

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and decodes the response into v
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	if statusCode < 200 || statusCode >= 300 {
		var errResp types.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return &fiber.Error{Code: statusCode, Message: errResp.Error}
		}
		return &fiber.Error{Code: statusCode, Message: string(body)}
	}

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

// HealthCheck checks the API server health
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, routes.HealthCheckURL(), nil)
	if err != nil {
		return nil, err
	}
	var resp map[string]string
	err = c.doRequest(agent, &resp)
	return resp, err
}

// SubmitGeneration submits a new generation job
func (c *APIClient) SubmitGeneration(ctx context.Context, sourceURL string) (types.SubmitGenerationResponse, error) {
	var resp types.SubmitGenerationResponse
	agent, err := c.createAgent(ctx, http.MethodPost, routes.SubmitGenerationURL(),
		types.SubmitGenerationRequest{SourceURL: sourceURL})
	if err != nil {
		return resp, err
	}
	err = c.doRequest(agent, &resp)
	return resp, err
}

// GetGeneration retrieves a generation job by ID
func (c *APIClient) GetGeneration(ctx context.Context, id string) (types.GenerationResponse, error) {
	var resp types.GenerationResponse
	agent, err := c.createAgent(ctx, http.MethodGet, routes.GetGenerationURL(id), nil)
	if err != nil {
		return resp, err
	}
	err = c.doRequest(agent, &resp)
	return resp, err
}

// ListGenerations lists the caller's generation jobs, newest first
func (c *APIClient) ListGenerations(ctx context.Context, opts *ListGenerationsOptions) (types.ListResponse[types.GenerationResponse], error) {
	var resp types.ListResponse[types.GenerationResponse]

	query := url.Values{}
	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.Limit > 0 {
			query.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Status != "" {
			query.Set("status", opts.Status)
		}
	}

	agent, err := c.createAgent(ctx, http.MethodGet, routes.ListGenerationsURL(query), nil)
	if err != nil {
		return resp, err
	}
	err = c.doRequest(agent, &resp)
	return resp, err
}

// CancelGeneration cancels a generation job the caller owns
func (c *APIClient) CancelGeneration(ctx context.Context, id string) (types.CancelGenerationResponse, error) {
	var resp types.CancelGenerationResponse
	agent, err := c.createAgent(ctx, http.MethodDelete, routes.CancelGenerationURL(id), nil)
	if err != nil {
		return resp, err
	}
	err = c.doRequest(agent, &resp)
	return resp, err
}

// ClaimGeneration claims a queued job for processing
func (c *APIClient) ClaimGeneration(ctx context.Context, id string) (types.ApplyResponse, error) {
	var resp types.ApplyResponse
	agent, err := c.createAgent(ctx, http.MethodPost, routes.ClaimGenerationURL(id), nil)
	if err != nil {
		return resp, err
	}
	err = c.doRequest(agent, &resp)
	return resp, err
}

// ReportProgress reports progress on a processing job
func (c *APIClient) ReportProgress(ctx context.Context, id string, req types.ProgressRequest) (types.ApplyResponse, error) {
	var resp types.ApplyResponse
	agent, err := c.createAgent(ctx, http.MethodPost, routes.ReportProgressURL(id), req)
	if err != nil {
		return resp, err
	}
	err = c.doRequest(agent, &resp)
	return resp, err
}

// CompleteGeneration reports successful completion of a processing job
func (c *APIClient) CompleteGeneration(ctx context.Context, id string, req types.CompleteRequest) (types.ApplyResponse, error) {
	var resp types.ApplyResponse
	agent, err := c.createAgent(ctx, http.MethodPost, routes.CompleteGenerationURL(id), req)
	if err != nil {
		return resp, err
	}
	err = c.doRequest(agent, &resp)
	return resp, err
}

// FailGeneration reports a pipeline failure on a job
func (c *APIClient) FailGeneration(ctx context.Context, id string, req types.FailRequest) (types.ApplyResponse, error) {
	var resp types.ApplyResponse
	agent, err := c.createAgent(ctx, http.MethodPost, routes.FailGenerationURL(id), req)
	if err != nil {
		return resp, err
	}
	err = c.doRequest(agent, &resp)
	return resp, err
}
