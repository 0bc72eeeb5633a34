package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryability(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"generation always retryable", NewGenerationError("model unavailable", nil), true},
		{"evaluation always retryable", NewEvaluationError("model unavailable", nil), true},
		{"transient extraction", NewExtractionError("fetch failed", true, nil), true},
		{"permanent extraction", NewExtractionError("unsupported file type", false, nil), false},
		{"plain error", fmt.Errorf("boom"), false},
		{"wrapped generation", fmt.Errorf("request failed: %w", NewGenerationError("model unavailable", nil)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestClassification(t *testing.T) {
	gen := NewGenerationError("bad output", nil)
	eval := NewEvaluationError("bad output", nil)
	extract := NewExtractionError("empty page", false, nil)

	assert.True(t, IsGeneration(gen))
	assert.False(t, IsGeneration(eval))

	assert.True(t, IsEvaluation(eval))
	assert.False(t, IsEvaluation(extract))

	assert.True(t, IsExtraction(extract))
	assert.False(t, IsExtraction(gen))

	wrapped := fmt.Errorf("handler: %w", eval)
	assert.True(t, IsEvaluation(wrapped))
}

func TestErrorMessages(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	assert.Equal(t, "quiz generation failed: model call failed: connection refused",
		NewGenerationError("model call failed", cause).Error())
	assert.Equal(t, "quiz generation failed: empty response",
		NewGenerationError("empty response", nil).Error())
	assert.Equal(t, "extraction failed: fetch failed: connection refused",
		NewExtractionError("fetch failed", true, cause).Error())
}
