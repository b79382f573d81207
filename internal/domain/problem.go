package domain

// CodeSnippet is a starter-code variant for one language.
type CodeSnippet struct {
	Lang     string `json:"lang"`
	LangSlug string `json:"langSlug"`
	Code     string `json:"code"`
}

// Example is one worked input/output pair attached to a problem.
type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// Problem is a coding problem served by the problem-bank service.
// The content field carries HTML and is rendered verbatim by the frontend.
type Problem struct {
	QuestionID   int           `json:"questionId"`
	Title        string        `json:"title"`
	TitleSlug    string        `json:"titleSlug"`
	Content      string        `json:"content"`
	Difficulty   string        `json:"difficulty"`
	CodeSnippets []CodeSnippet `json:"codeSnippets"`
	Examples     []Example     `json:"examples"`
	Constraints  []string      `json:"constraints"`
}

// StarterCode returns the code snippet for the given language slug,
// or empty string if the problem carries no snippet for it.
func (p *Problem) StarterCode(langSlug string) string {
	for _, s := range p.CodeSnippets {
		if s.LangSlug == langSlug {
			return s.Code
		}
	}
	return ""
}

// ErrorProblem is the generic fallback entity returned when the problem-bank
// fetch fails, so the session can still render something.
func ErrorProblem() *Problem {
	return &Problem{
		QuestionID: 0,
		Title:      "Loading Error",
		TitleSlug:  "loading-error",
		Content:    "There was an error loading the interview problem. Please try refreshing the page.",
		Difficulty: "Easy",
	}
}
