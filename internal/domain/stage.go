package domain

import "strings"

// Stage is a discrete phase of the interview. It controls both the model's
// behavioral instructions and the UI progress display.
type Stage string

// The six interview stages, in expected (but not enforced) order of progression.
const (
	StageIntroduction   Stage = "introduction"
	StageProblemSolving Stage = "problem-solving"
	StageCodeReview     Stage = "code-review"
	StageFollowUp       Stage = "follow-up"
	StageConclusion     Stage = "conclusion"
	StageFinished       Stage = "finished"
)

// Stages lists every stage in progression order.
var Stages = []Stage{
	StageIntroduction,
	StageProblemSolving,
	StageCodeReview,
	StageFollowUp,
	StageConclusion,
	StageFinished,
}

// Valid reports whether s is a member of the enumerated stage set.
func (s Stage) Valid() bool {
	switch s {
	case StageIntroduction, StageProblemSolving, StageCodeReview,
		StageFollowUp, StageConclusion, StageFinished:
		return true
	}
	return false
}

// Terminal reports whether s is the absorbing finished stage.
func (s Stage) Terminal() bool {
	return s == StageFinished
}

// Progress returns the interview progress percentage shown for this stage.
func (s Stage) Progress() int {
	switch s {
	case StageIntroduction:
		return 5
	case StageProblemSolving:
		return 20
	case StageCodeReview:
		return 50
	case StageFollowUp:
		return 70
	case StageConclusion:
		return 90
	case StageFinished:
		return 100
	}
	return 0
}

// ParseStage trims surrounding whitespace from raw model output and matches it
// exactly against the stage set. The match itself is case-sensitive; only
// trailing newlines and spaces are tolerated.
func ParseStage(raw string) (Stage, bool) {
	s := Stage(strings.TrimSpace(raw))
	return s, s.Valid()
}
