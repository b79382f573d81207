package domain

// Context is the problem/code/stage snapshot passed to each model call.
// It is rebuilt fresh from current session state before every call and
// never stored independently.
type Context struct {
	ProblemTitle       string `json:"problemTitle"`
	ProblemDifficulty  string `json:"problemDifficulty"`
	ProblemDescription string `json:"problemDescription"`
	UserCode           string `json:"userCode"`
	Language           string `json:"language"`
	Stage              Stage  `json:"interviewStage"`
}
