package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studyloop/quiz-service/internal/models"
)

func TestBuildResult_TimeBreakdown(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    models.TimeParts
	}{
		{"seconds only", 42 * time.Second, models.TimeParts{Seconds: 42}},
		{"minutes and seconds", 90 * time.Second, models.TimeParts{Minutes: 1, Seconds: 30}},
		{"hours rollover", 3661 * time.Second, models.TimeParts{Hours: 1, Minutes: 1, Seconds: 1}},
		{"exact hour", time.Hour, models.TimeParts{Hours: 1}},
		{"zero", 0, models.TimeParts{}},
	}

	questions := testQuestions(3)
	eval := testEvaluation(3)
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildResult(eval, nil, start, start.Add(tt.elapsed), DefaultTimeLimit, questions)
			assert.Equal(t, tt.want, result.TimeCompleted)
		})
	}
}

func TestBuildResult_AverageRounds(t *testing.T) {
	questions := testQuestions(3)
	eval := testEvaluation(3)
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// 100s over 3 questions rounds 33.33 down to 33.
	result := BuildResult(eval, nil, start, start.Add(100*time.Second), DefaultTimeLimit, questions)
	assert.Equal(t, 33, result.AvgTimePerQuestion)

	// 110s over 3 questions rounds 36.67 up to 37.
	result = BuildResult(eval, nil, start, start.Add(110*time.Second), DefaultTimeLimit, questions)
	assert.Equal(t, 37, result.AvgTimePerQuestion)
}

func TestBuildResult_NoQuestions(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	result := BuildResult(&models.Evaluation{}, nil, start, start.Add(time.Minute), DefaultTimeLimit, nil)
	assert.Equal(t, 0, result.AvgTimePerQuestion)
	assert.Empty(t, result.LongestQuestions)
}

func TestBuildResult_PassesGradingThrough(t *testing.T) {
	eval := &models.Evaluation{
		CorrectAnswers: 2,
		TotalQuestions: 3,
		Percentage:     67,
		QuestionFeedback: []models.QuestionFeedback{
			{Question: "Question A", Correct: true},
			{Question: "Question B", Correct: false, Feedback: "Review chapter 2"},
			{Question: "Question C", Correct: true},
		},
	}
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	result := BuildResult(eval, nil, start, start.Add(time.Minute), DefaultTimeLimit, testQuestions(3))
	assert.Equal(t, eval.CorrectAnswers, result.CorrectAnswers)
	assert.Equal(t, eval.TotalQuestions, result.TotalQuestions)
	assert.Equal(t, eval.Percentage, result.Percentage)
	assert.Equal(t, eval.QuestionFeedback, result.QuestionFeedback)
}

func TestBuildResult_Idempotent(t *testing.T) {
	questions := testQuestions(4)
	eval := testEvaluation(4)
	times := map[string]time.Duration{
		"a": 10 * time.Second,
		"b": 40 * time.Second,
		"c": 25 * time.Second,
		"d": 5 * time.Second,
	}
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(80 * time.Second)

	first := BuildResult(eval, times, start, end, DefaultTimeLimit, questions)
	second := BuildResult(eval, times, start, end, DefaultTimeLimit, questions)
	assert.Equal(t, first, second)
}

func TestLongestQuestions(t *testing.T) {
	questions := testQuestions(5)

	tests := []struct {
		name  string
		times map[string]time.Duration
		want  []int
	}{
		{
			name: "top three descending",
			times: map[string]time.Duration{
				"a": 10 * time.Second,
				"b": 50 * time.Second,
				"c": 30 * time.Second,
				"d": 40 * time.Second,
				"e": 20 * time.Second,
			},
			want: []int{2, 4, 3},
		},
		{
			name: "ties break by question order",
			times: map[string]time.Duration{
				"a": 30 * time.Second,
				"c": 30 * time.Second,
				"e": 30 * time.Second,
				"b": 10 * time.Second,
			},
			want: []int{1, 3, 5},
		},
		{
			name: "fewer entries than three",
			times: map[string]time.Duration{
				"d": 15 * time.Second,
			},
			want: []int{4},
		},
		{
			name: "stale identifiers skipped",
			times: map[string]time.Duration{
				"a":       20 * time.Second,
				"removed": 99 * time.Second,
				"b":       10 * time.Second,
			},
			want: []int{1, 2},
		},
		{
			name:  "no recorded times",
			times: map[string]time.Duration{},
			want:  []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, longestQuestions(tt.times, questions))
		})
	}
}
