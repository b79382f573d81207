package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ashureev/interview-labs/internal/domain"
	"github.com/ashureev/interview-labs/internal/groq"
)

// Evaluator scores the finished interview against a fixed rubric. It runs
// once, outside the per-turn loop. Unlike Advance, a failure here is a hard
// error surfaced to the caller: no partial report is ever synthesized.
type Evaluator struct {
	client CompletionClient
	model  string
}

// NewEvaluator creates a performance evaluator using the given model ID.
func NewEvaluator(client CompletionClient, model string) *Evaluator {
	return &Evaluator{client: client, model: model}
}

// Evaluate asks the model to score the transcript and code, then parses the
// returned JSON into a report. One layer of code fencing and surrounding
// blank lines are stripped before parsing; anything unparseable after that
// fails the report outright.
func (e *Evaluator) Evaluate(ctx context.Context, problem *domain.Problem, userCode string, transcript []domain.Message, durationSeconds int) (*domain.PerformanceReport, error) {
	if problem == nil {
		return nil, fmt.Errorf("evaluate performance: problem is required")
	}

	raw, _, err := e.client.ChatCompletion(ctx, groq.ChatRequest{
		Model: e.model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: evaluationPrompt(problem, userCode, transcript, durationSeconds)},
		},
		Temperature:         completionTemperature,
		MaxCompletionTokens: evalMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate performance: %w", err)
	}

	clean := cleanModelJSON(raw)

	var report domain.PerformanceReport
	if err := json.Unmarshal([]byte(clean), &report); err != nil {
		return nil, fmt.Errorf("parse evaluation output: %w", err)
	}
	return &report, nil
}

// cleanModelJSON strips surrounding blank lines and one layer of ``` or
// ```json fencing. Already-clean JSON passes through unchanged.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
