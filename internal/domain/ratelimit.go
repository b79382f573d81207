package domain

import "time"

// RateLimitInfo is a snapshot of one model endpoint's quota, copied verbatim
// from response headers. Header values are numeric-as-text or reset countdowns
// with a trailing unit (e.g. "7.66s"); an absent header is the empty string.
type RateLimitInfo struct {
	RemainingRequests string `json:"remainingRequests"`
	RemainingTokens   string `json:"remainingTokens"`
	ResetRequests     string `json:"resetRequests"`
	ResetTokens       string `json:"resetTokens"`
	LimitRequests     string `json:"limitRequests"`
	LimitTokens       string `json:"limitTokens"`
	RequestID         string `json:"requestId"`
	Model             string `json:"model"`
}

// GroqRateLimitInfo pairs a rate-limit snapshot with its capture time.
// Only the response-generator call's headers are captured; the stage
// classifier's quota is deliberately not tracked.
type GroqRateLimitInfo struct {
	ResponseModel RateLimitInfo `json:"responseModel"`
	Timestamp     int64         `json:"timestamp"` // epoch millis
}

// NewGroqRateLimitInfo wraps a snapshot with the current capture time.
func NewGroqRateLimitInfo(info RateLimitInfo) *GroqRateLimitInfo {
	return &GroqRateLimitInfo{
		ResponseModel: info,
		Timestamp:     time.Now().UnixMilli(),
	}
}

// CapturedAt returns the capture time as a time.Time.
func (g *GroqRateLimitInfo) CapturedAt() time.Time {
	return time.UnixMilli(g.Timestamp)
}
