package models

// QuestionFeedback is the graded verdict for one question, passed through from
// the evaluation collaborator unchanged.
type QuestionFeedback struct {
	Question string `json:"question"`
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback,omitempty"`
}

// Evaluation is the raw grading payload returned by the evaluation collaborator.
type Evaluation struct {
	CorrectAnswers   int                `json:"correctAnswers"`
	TotalQuestions   int                `json:"totalQuestions"`
	Percentage       int                `json:"percentage"`
	QuestionFeedback []QuestionFeedback `json:"questionFeedback"`
}

// TimeParts is a whole-unit breakdown of an elapsed duration.
type TimeParts struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Result is the terminal record of a completed session: the grading payload
// merged with locally computed timing statistics. Built exactly once per
// completed session and never mutated afterwards.
type Result struct {
	CorrectAnswers   int                `json:"correctAnswers"`
	TotalQuestions   int                `json:"totalQuestions"`
	Percentage       int                `json:"percentage"`
	QuestionFeedback []QuestionFeedback `json:"questionFeedback"`

	TimeCompleted      TimeParts `json:"timeCompleted"`
	AvgTimePerQuestion int       `json:"avgTimePerQuestion"` // seconds, rounded
	LongestQuestions   []int     `json:"longestQuestions"`   // 1-based question positions
	TimePerQuestion    int       `json:"timePerQuestion"`    // configured budget, seconds
}
