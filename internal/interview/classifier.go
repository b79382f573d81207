// Package interview implements the interview turn orchestration: stage
// classification, interviewer response generation, and end-of-interview
// performance evaluation against the model-completion service.
package interview

import (
	"context"
	"fmt"

	"github.com/ashureev/interview-labs/internal/domain"
	"github.com/ashureev/interview-labs/internal/groq"
)

// CompletionClient is the model-completion service dependency shared by the
// classifier, generator, and evaluator.
type CompletionClient interface {
	ChatCompletion(ctx context.Context, req groq.ChatRequest) (string, *domain.RateLimitInfo, error)
}

const (
	completionTemperature = 0.7
	stageMaxTokens        = 50
	replyMaxTokens        = 750
	evalMaxTokens         = 700
)

// Classifier asks the fast stage model which interview stage the conversation
// has reached. It is a thin pass-through: the raw model output is returned
// untouched and the orchestrator performs the trim-and-match validation.
type Classifier struct {
	client CompletionClient
	model  string
}

// NewClassifier creates a stage classifier using the given model ID.
func NewClassifier(client CompletionClient, model string) *Classifier {
	return &Classifier{client: client, model: model}
}

// Classify sends the stage prompt plus the last two transcript entries,
// labeled as interviewer and candidate turns. Callers only invoke this with
// at least two transcript entries; the labels assume the second-to-last entry
// is the interviewer's and the last is the candidate's.
func (c *Classifier) Classify(ctx context.Context, transcript []domain.Message, ictx domain.Context) (string, error) {
	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: stagePrompt(ictx)},
	}
	if len(transcript) >= 2 {
		messages = append(messages,
			domain.Message{
				Role:    domain.RoleUser,
				Content: "Interviewer: " + transcript[len(transcript)-2].Content,
			},
			domain.Message{
				Role:    domain.RoleUser,
				Content: "Candidate: " + transcript[len(transcript)-1].Content,
			},
		)
	}

	raw, _, err := c.client.ChatCompletion(ctx, groq.ChatRequest{
		Model:               c.model,
		Messages:            messages,
		Temperature:         completionTemperature,
		MaxCompletionTokens: stageMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("classify stage: %w", err)
	}
	return raw, nil
}
