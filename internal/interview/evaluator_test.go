package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/ashureev/interview-labs/internal/domain"
)

const reportJSON = `{
  "overallScore": 72,
  "problemUnderstanding": 80,
  "codeQuality": 65,
  "communicationSkills": 75,
  "optimizationSkills": 60,
  "feedback": [
    {"category": "Communication", "comment": "Explained the approach clearly."}
  ],
  "improvementAreas": ["Edge case handling"],
  "problemName": "Two Sum",
  "problemDifficulty": "Easy",
  "communicationEfficiency": "Concise and well structured"
}`

func testProblem() *domain.Problem {
	return &domain.Problem{Title: "Two Sum", Difficulty: "Easy", Content: "<p>...</p>"}
}

func TestEvaluateParsesCleanJSON(t *testing.T) {
	client := &fakeCompletionClient{reply: reportJSON}
	e := NewEvaluator(client, testReplyModel)

	report, err := e.Evaluate(context.Background(), testProblem(), "code", twoTurnTranscript(), 600)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if report.OverallScore != 72 {
		t.Errorf("OverallScore = %d, want 72", report.OverallScore)
	}
	if report.ProblemName != "Two Sum" {
		t.Errorf("ProblemName = %q", report.ProblemName)
	}
	if len(report.Feedback) != 1 || report.Feedback[0].Category != "Communication" {
		t.Errorf("Feedback = %+v", report.Feedback)
	}
}

func TestEvaluateStripsCodeFence(t *testing.T) {
	client := &fakeCompletionClient{reply: "```json\n" + reportJSON + "\n```"}
	e := NewEvaluator(client, testReplyModel)

	report, err := e.Evaluate(context.Background(), testProblem(), "code", twoTurnTranscript(), 600)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if report.CodeQuality != 65 {
		t.Errorf("CodeQuality = %d, want 65", report.CodeQuality)
	}
}

func TestEvaluateStripsBareFence(t *testing.T) {
	client := &fakeCompletionClient{reply: "```\n" + reportJSON + "\n```"}
	e := NewEvaluator(client, testReplyModel)

	if _, err := e.Evaluate(context.Background(), testProblem(), "code", twoTurnTranscript(), 600); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
}

func TestEvaluateFailsOnUnparseableOutput(t *testing.T) {
	client := &fakeCompletionClient{reply: "I would rate this candidate a solid 7 out of 10."}
	e := NewEvaluator(client, testReplyModel)

	if _, err := e.Evaluate(context.Background(), testProblem(), "code", twoTurnTranscript(), 600); err == nil {
		t.Fatal("expected error for prose output")
	}
}

func TestEvaluateFailsOnModelError(t *testing.T) {
	client := &fakeCompletionClient{replyErr: errors.New("timeout")}
	e := NewEvaluator(client, testReplyModel)

	if _, err := e.Evaluate(context.Background(), testProblem(), "code", twoTurnTranscript(), 600); err == nil {
		t.Fatal("expected error when the model call fails")
	}
}

func TestEvaluateRequiresProblem(t *testing.T) {
	client := &fakeCompletionClient{reply: reportJSON}
	e := NewEvaluator(client, testReplyModel)

	if _, err := e.Evaluate(context.Background(), nil, "code", twoTurnTranscript(), 600); err == nil {
		t.Fatal("expected error for nil problem")
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean passthrough", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "\n\n  {\"a\":1}  \n", `{"a":1}`},
		{"idempotent on cleaned", cleanModelJSON("```json\n{\"a\":1}\n```"), `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.in); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
