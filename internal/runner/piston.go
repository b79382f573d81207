// Package runner provides the client for the Piston remote code-execution API.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// NoOutput is substituted when an execution produces no stdout/stderr.
const NoOutput = "No output"

// Runtime is one language/version pair supported by the execution service.
type Runtime struct {
	Language string `json:"language"`
	Version  string `json:"version"`
}

// Client executes candidate code via the Piston API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given Piston base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type executeRequest struct {
	Language string        `json:"language"`
	Version  string        `json:"version"`
	Files    []executeFile `json:"files"`
}

type executeFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type executeResponse struct {
	Run struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Output string `json:"output"`
	} `json:"run"`
	Message string `json:"message,omitempty"`
}

// Execute runs the given source and returns its combined output. An empty
// output is reported as NoOutput so the interviewer always has something to
// review.
func (c *Client) Execute(ctx context.Context, code, language, version string) (string, error) {
	body, err := json.Marshal(executeRequest{
		Language: language,
		Version:  version,
		Files:    []executeFile{{Name: "main.py", Content: code}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal execute request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute code: %w", err)
	}
	defer resp.Body.Close()

	var result executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode execute response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := result.Message
		if msg == "" {
			msg = "execution failed"
		}
		return "", fmt.Errorf("execution service status %d: %s", resp.StatusCode, msg)
	}

	if result.Run.Output == "" {
		return NoOutput, nil
	}
	return result.Run.Output, nil
}

// Runtimes lists the language/version pairs the execution service supports.
func (c *Client) Runtimes(ctx context.Context) ([]Runtime, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/runtimes", nil)
	if err != nil {
		return nil, fmt.Errorf("create runtimes request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch runtimes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("execution service: unexpected status %d", resp.StatusCode)
	}

	var runtimes []Runtime
	if err := json.NewDecoder(resp.Body).Decode(&runtimes); err != nil {
		return nil, fmt.Errorf("decode runtimes: %w", err)
	}
	return runtimes, nil
}
