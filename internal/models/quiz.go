package models

import (
	"encoding/json"
	"fmt"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	MultiSelect    QuestionType = "multi-select"
)

// Question is a single generated quiz question. Immutable once generated.
type Question struct {
	ID            string       `json:"id" validate:"required"`
	Question      string       `json:"question" validate:"required"`
	Type          QuestionType `json:"type" validate:"required,question_type"`
	Options       []string     `json:"options" validate:"required,len=4,dive,required"`
	CorrectAnswer string       `json:"correctAnswer" validate:"required"`
}

// AnswerValue holds the user's selection for one question: a single option for
// multiple-choice, one or more options for multi-select. Absence of a key in the
// answer map means "unanswered".
type AnswerValue struct {
	Selected []string
}

func SingleAnswer(option string) AnswerValue {
	return AnswerValue{Selected: []string{option}}
}

// MarshalJSON keeps the wire shape of the original API: a bare string for a
// single selection, an array otherwise.
func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if len(a.Selected) == 1 {
		return json.Marshal(a.Selected[0])
	}
	return json.Marshal(a.Selected)
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		a.Selected = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		a.Selected = many
		return nil
	}
	return fmt.Errorf("answer must be a string or an array of strings")
}

func (a AnswerValue) IsEmpty() bool {
	return len(a.Selected) == 0
}
