package domain

// FeedbackItem is one scored category in the performance report.
type FeedbackItem struct {
	Category string `json:"category"`
	Comment  string `json:"comment"`
	Score    int    `json:"score"`
}

// PerformanceReport is the end-of-interview scoring produced by the evaluator.
// All numeric scores are on a 0-100 scale. The report is produced once and
// never mutated afterwards.
type PerformanceReport struct {
	OverallScore            int            `json:"overallScore"`
	ProblemUnderstanding    int            `json:"problemUnderstanding"`
	CodeQuality             int            `json:"codeQuality"`
	CommunicationSkills     int            `json:"communicationSkills"`
	OptimizationSkills      int            `json:"optimizationSkills"`
	Feedback                []FeedbackItem `json:"feedback"`
	ImprovementAreas        []string       `json:"improvementAreas"`
	ProblemName             string         `json:"problemName"`
	ProblemDifficulty       string         `json:"problemDifficulty"`
	CommunicationEfficiency string         `json:"communicationEfficiency"`
}
