package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/studyloop/quiz-service/internal/models"
)

// ExportService produces downloadable spreadsheets from quiz results.
type ExportService interface {
	ExportResultToExcel(ctx context.Context, sessionID string, result *models.Result) ([]byte, error)
}

type exportService struct {
	logger *slog.Logger
}

func NewExportService(logger *slog.Logger) ExportService {
	return &exportService{logger: logger}
}

// ExportResultToExcel renders a result as a two-sheet workbook: a summary
// sheet with score and timing totals, and a per-question breakdown.
func (s *exportService) ExportResultToExcel(ctx context.Context, sessionID string, result *models.Result) ([]byte, error) {
	if result == nil {
		return nil, ErrResultNotFound
	}

	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Summary"
	f.SetSheetName("Sheet1", summarySheet)

	summaryRows := [][]interface{}{
		{"Session ID", sessionID},
		{"Score", fmt.Sprintf("%d / %d", result.CorrectAnswers, result.TotalQuestions)},
		{"Percentage", fmt.Sprintf("%d%%", result.Percentage)},
		{"Time Completed", formatTimeParts(result.TimeCompleted)},
		{"Avg Time Per Question", fmt.Sprintf("%ds", result.AvgTimePerQuestion)},
		{"Time Limit", fmt.Sprintf("%ds", result.TimePerQuestion)},
	}
	for i, row := range summaryRows {
		for j, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+j, i+1)
			f.SetCellValue(summarySheet, cell, value)
		}
	}

	questionSheet := "Questions"
	if _, err := f.NewSheet(questionSheet); err != nil {
		return nil, fmt.Errorf("failed to create questions sheet: %w", err)
	}

	headers := []string{"#", "Question", "Correct", "Feedback"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(questionSheet, cell, header)
	}

	// Header styling
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err == nil {
		f.SetCellStyle(questionSheet, "A1", fmt.Sprintf("%c1", 'A'+len(headers)-1), headerStyle)
	}

	for i, feedback := range result.QuestionFeedback {
		row := i + 2
		verdict := "No"
		if feedback.Correct {
			verdict = "Yes"
		}
		values := []interface{}{
			i + 1,
			feedback.Question,
			verdict,
			feedback.Feedback,
		}
		for j, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+j, row)
			f.SetCellValue(questionSheet, cell, value)
		}
	}

	f.SetColWidth(questionSheet, "B", "B", 60)
	f.SetColWidth(questionSheet, "D", "D", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}

	s.logger.Info("Exported result to excel",
		"session_id", sessionID,
		"questions", result.TotalQuestions,
		"size_bytes", buf.Len())
	return buf.Bytes(), nil
}

func formatTimeParts(t models.TimeParts) string {
	var b strings.Builder
	if t.Hours > 0 {
		fmt.Fprintf(&b, "%dh ", t.Hours)
	}
	if t.Minutes > 0 || t.Hours > 0 {
		fmt.Fprintf(&b, "%dm ", t.Minutes)
	}
	fmt.Fprintf(&b, "%ds", t.Seconds)
	return b.String()
}
