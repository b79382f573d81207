// Package groq provides an HTTP client for the Groq chat-completions API.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/interview-labs/internal/domain"
)

// ChatRequest is one chat-completion call: an ordered message transcript plus
// model parameters.
type ChatRequest struct {
	Model               string           `json:"model"`
	Messages            []domain.Message `json:"messages"`
	Temperature         float64          `json:"temperature"`
	MaxCompletionTokens int              `json:"max_completion_tokens,omitempty"`
}

// chatResponse mirrors the OpenAI-compatible completion response body.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Client communicates with the Groq API over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client targeting the given base URL.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ChatCompletion sends the request and returns the generated text together
// with the rate-limit snapshot read from the response headers. The header
// snapshot is returned even when the API responds with an error status, since
// quota fields are present on throttled responses too.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (string, *domain.RateLimitInfo, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", nil, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", nil, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	info := rateLimitFromHeaders(resp.Header, req.Model)

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", info, fmt.Errorf("decode chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := "unknown error"
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return "", info, fmt.Errorf("groq api status %d: %s", resp.StatusCode, msg)
	}

	if len(result.Choices) == 0 {
		return "", info, fmt.Errorf("groq api returned no choices")
	}

	return result.Choices[0].Message.Content, info, nil
}

// rateLimitFromHeaders copies the quota headers verbatim. Absent headers map
// to empty strings.
func rateLimitFromHeaders(h http.Header, model string) *domain.RateLimitInfo {
	return &domain.RateLimitInfo{
		RemainingRequests: h.Get("x-ratelimit-remaining-requests"),
		RemainingTokens:   h.Get("x-ratelimit-remaining-tokens"),
		ResetRequests:     h.Get("x-ratelimit-reset-requests"),
		ResetTokens:       h.Get("x-ratelimit-reset-tokens"),
		LimitRequests:     h.Get("x-ratelimit-limit-requests"),
		LimitTokens:       h.Get("x-ratelimit-limit-tokens"),
		RequestID:         h.Get("x-request-id"),
		Model:             model,
	}
}
