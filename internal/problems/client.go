// Package problems provides the client for the problem-bank service.
package problems

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/interview-labs/internal/domain"
)

// Client fetches coding problems from the problem-bank service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given problem-bank base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Random fetches a randomly selected problem.
func (c *Client) Random(ctx context.Context) (*domain.Problem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/random", nil)
	if err != nil {
		return nil, fmt.Errorf("create random problem request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch random problem: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("problem service: unexpected status %d", resp.StatusCode)
	}

	var problem domain.Problem
	if err := json.NewDecoder(resp.Body).Decode(&problem); err != nil {
		return nil, fmt.Errorf("decode problem: %w", err)
	}
	if problem.Title == "" {
		return nil, fmt.Errorf("problem service: response missing title")
	}
	return &problem, nil
}
