package session

import (
	"math"
	"sort"
	"time"

	"github.com/studyloop/quiz-service/internal/models"
)

// BuildResult merges the raw grading payload with locally computed timing
// statistics into the terminal Result. It is a pure function: no side effects,
// identical inputs yield an identical Result.
func BuildResult(
	eval *models.Evaluation,
	times map[string]time.Duration,
	start, end time.Time,
	budget time.Duration,
	questions []models.Question,
) models.Result {
	totalSeconds := int(end.Sub(start) / time.Second)
	if totalSeconds < 0 {
		totalSeconds = 0
	}

	avg := 0
	if len(questions) > 0 {
		avg = int(math.Round(float64(totalSeconds) / float64(len(questions))))
	}

	return models.Result{
		CorrectAnswers:   eval.CorrectAnswers,
		TotalQuestions:   eval.TotalQuestions,
		Percentage:       eval.Percentage,
		QuestionFeedback: eval.QuestionFeedback,

		TimeCompleted: models.TimeParts{
			Hours:   totalSeconds / 3600,
			Minutes: (totalSeconds % 3600) / 60,
			Seconds: totalSeconds % 60,
		},
		AvgTimePerQuestion: avg,
		LongestQuestions:   longestQuestions(times, questions),
		TimePerQuestion:    int(budget / time.Second),
	}
}

// longestQuestions returns the 1-based positions of the up-to-three questions
// with the most recorded time, descending. Ties break by original question
// order; identifiers no longer present in the question list are skipped.
func longestQuestions(times map[string]time.Duration, questions []models.Question) []int {
	positions := make(map[string]int, len(questions))
	for i, q := range questions {
		positions[q.ID] = i
	}

	type entry struct {
		pos  int
		time time.Duration
	}
	entries := make([]entry, 0, len(times))
	for id, d := range times {
		pos, ok := positions[id]
		if !ok {
			continue
		}
		entries = append(entries, entry{pos: pos, time: d})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].time != entries[j].time {
			return entries[i].time > entries[j].time
		}
		return entries[i].pos < entries[j].pos
	})

	if len(entries) > 3 {
		entries = entries[:3]
	}

	result := make([]int, len(entries))
	for i, e := range entries {
		result[i] = e.pos + 1
	}
	return result
}
