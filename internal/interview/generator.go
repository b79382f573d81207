package interview

import (
	"context"
	"fmt"

	"github.com/ashureev/interview-labs/internal/domain"
	"github.com/ashureev/interview-labs/internal/groq"
)

// Generator produces the interviewer's next conversational turn using the
// larger response model. It also surfaces the rate-limit snapshot from the
// call's response headers; this is the only call whose quota is tracked.
type Generator struct {
	client CompletionClient
	model  string
}

// NewGenerator creates a response generator using the given model ID.
func NewGenerator(client CompletionClient, model string) *Generator {
	return &Generator{client: client, model: model}
}

// Generate sends the interviewer system prompt plus the full transcript and
// returns the reply text with the captured rate-limit snapshot.
func (g *Generator) Generate(ctx context.Context, transcript []domain.Message, ictx domain.Context) (string, *domain.GroqRateLimitInfo, error) {
	messages := make([]domain.Message, 0, len(transcript)+1)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: interviewerPrompt(ictx)})
	messages = append(messages, transcript...)

	reply, info, err := g.client.ChatCompletion(ctx, groq.ChatRequest{
		Model:               g.model,
		Messages:            messages,
		Temperature:         completionTemperature,
		MaxCompletionTokens: replyMaxTokens,
	})
	if err != nil {
		return "", nil, fmt.Errorf("generate interviewer reply: %w", err)
	}

	var snapshot *domain.GroqRateLimitInfo
	if info != nil {
		snapshot = domain.NewGroqRateLimitInfo(*info)
	}
	return reply, snapshot, nil
}
