package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/studyloop/quiz-service/internal/models"
)

// stripCodeFences removes markdown code fences the model sometimes wraps
// around JSON output despite being told not to.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// parseQuestions decodes and structurally validates a generated question list.
// Anything malformed fails as a whole; a partial quiz is never returned.
func parseQuestions(raw string) ([]models.Question, error) {
	var questions []models.Question
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &questions); err != nil {
		return nil, fmt.Errorf("response is not a valid question array: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("response contained no questions")
	}

	for i := range questions {
		q := &questions[i]
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("question %d has empty text", i+1)
		}
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d has %d options, want 4", i+1, len(q.Options))
		}
		if !containsOption(q.Options, q.CorrectAnswer) {
			return nil, fmt.Errorf("question %d: correct answer is not among the options", i+1)
		}
		if q.Type == "" {
			q.Type = models.MultipleChoice
		}
		if strings.TrimSpace(q.ID) == "" {
			q.ID = uuid.New().String()
		}
	}
	return questions, nil
}

// parseEvaluation decodes and structurally validates a grading response.
func parseEvaluation(raw string, questionCount int) (*models.Evaluation, error) {
	var eval models.Evaluation
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &eval); err != nil {
		return nil, fmt.Errorf("response is not a valid evaluation object: %w", err)
	}
	if eval.TotalQuestions != questionCount {
		return nil, fmt.Errorf("evaluation covers %d questions, want %d", eval.TotalQuestions, questionCount)
	}
	if eval.CorrectAnswers < 0 || eval.CorrectAnswers > eval.TotalQuestions {
		return nil, fmt.Errorf("correct answer count %d out of range", eval.CorrectAnswers)
	}
	if len(eval.QuestionFeedback) != questionCount {
		return nil, fmt.Errorf("feedback covers %d questions, want %d", len(eval.QuestionFeedback), questionCount)
	}
	return &eval, nil
}

func containsOption(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
