package domain

import "testing"

func TestSessionContextCarriesProblemFields(t *testing.T) {
	sess := &InterviewSession{
		Problem: &Problem{
			Title:      "Two Sum",
			Difficulty: "Easy",
			Content:    "<p>Given an array...</p>",
		},
		UserCode: "def two_sum(nums, target):\n    pass",
		Language: "python3",
		Stage:    StageProblemSolving,
	}

	ctx := sess.Context()
	if ctx.ProblemTitle != "Two Sum" {
		t.Errorf("ProblemTitle = %q", ctx.ProblemTitle)
	}
	if ctx.Stage != StageProblemSolving {
		t.Errorf("Stage = %q", ctx.Stage)
	}
	if ctx.UserCode != sess.UserCode {
		t.Errorf("UserCode not carried over")
	}
}

func TestSessionContextWithoutProblem(t *testing.T) {
	sess := &InterviewSession{Stage: StageIntroduction}
	ctx := sess.Context()
	if ctx.ProblemTitle != "" || ctx.ProblemDifficulty != "" {
		t.Errorf("expected empty problem fields, got %+v", ctx)
	}
}

func TestClosingMessage(t *testing.T) {
	sess := &InterviewSession{ElapsedSeconds: 754}
	want := "The interview is over. You completed it in 12 minutes 34 seconds. Please press the button below to see your report."
	if got := sess.ClosingMessage(); got != want {
		t.Errorf("ClosingMessage() = %q, want %q", got, want)
	}
}

func TestStarterCode(t *testing.T) {
	p := &Problem{CodeSnippets: []CodeSnippet{
		{Lang: "Python3", LangSlug: "python3", Code: "class Solution:"},
		{Lang: "Go", LangSlug: "golang", Code: "func solve() {}"},
	}}

	if got := p.StarterCode("golang"); got != "func solve() {}" {
		t.Errorf("StarterCode(golang) = %q", got)
	}
	if got := p.StarterCode("rust"); got != "" {
		t.Errorf("StarterCode(rust) = %q, want empty", got)
	}
}
