package domain

import (
	"fmt"
	"time"
)

// InterviewSession is the aggregate owning one interview's transcript, stage,
// and code-under-edit. It is created at session start, mutated only through
// the orchestration layer, and checkpointed to the store at turn completion,
// code saves, and termination.
type InterviewSession struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Problem        *Problem   `json:"problem"`
	Transcript     []Message  `json:"transcript"`
	UserCode       string     `json:"user_code"`
	Language       string     `json:"language"`
	RuntimeVersion string     `json:"runtime_version"`
	Stage          Stage      `json:"stage"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Append adds a message to the transcript.
func (s *InterviewSession) Append(role, content string) {
	s.Transcript = append(s.Transcript, Message{Role: role, Content: content})
}

// Finished reports whether the session has reached the terminal stage.
// Once finished, no further interviewer turns are issued.
func (s *InterviewSession) Finished() bool {
	return s.Stage.Terminal()
}

// Context rebuilds the per-call model context snapshot from current state.
func (s *InterviewSession) Context() Context {
	ctx := Context{
		UserCode: s.UserCode,
		Language: s.Language,
		Stage:    s.Stage,
	}
	if s.Problem != nil {
		ctx.ProblemTitle = s.Problem.Title
		ctx.ProblemDifficulty = s.Problem.Difficulty
		ctx.ProblemDescription = s.Problem.Content
	}
	return ctx
}

// ClosingMessage is the assistant message appended on early termination.
func (s *InterviewSession) ClosingMessage() string {
	return fmt.Sprintf(
		"The interview is over. You completed it in %d minutes %d seconds. Please press the button below to see your report.",
		s.ElapsedSeconds/60, s.ElapsedSeconds%60,
	)
}
