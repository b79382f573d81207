// Package domain contains core domain types for the interview application.
package domain

// Message roles used in the interview transcript and model calls.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry in the interview transcript.
// System messages are synthesized per model call and never persisted.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ValidRole reports whether role is one of the three known message roles.
func ValidRole(role string) bool {
	return role == RoleSystem || role == RoleUser || role == RoleAssistant
}
