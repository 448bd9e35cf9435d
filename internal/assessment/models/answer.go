package models

import (
	"fmt"
	"strings"
	"time"

	id "conform/pkg/domain"
	dErrors "conform/pkg/domain-errors"
)

const maxQuestionIDLength = 100

// Answer is a response to one assessment question. Value is any
// JSON-serializable shape; Text is a plain rendering for reporting.
type Answer struct {
	AssessmentID id.AssessmentID
	QuestionID   string
	Value        any
	Text         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAnswer validates inputs and constructs an answer.
func NewAnswer(assessmentID id.AssessmentID, questionID string, value any, now time.Time) (*Answer, error) {
	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "question id is required")
	}
	if len(questionID) > maxQuestionIDLength {
		return nil, dErrors.New(dErrors.CodeValidation, "question id must be at most 100 characters")
	}
	return &Answer{
		AssessmentID: assessmentID,
		QuestionID:   questionID,
		Value:        value,
		Text:         renderAnswerText(value),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// EvaluationValue returns the value the rule engine should see. Answers
// stored as {"value": x} envelopes are unwrapped; everything else passes
// through as is.
func (a *Answer) EvaluationValue() any {
	if wrapped, ok := a.Value.(map[string]any); ok {
		if inner, ok := wrapped["value"]; ok && len(wrapped) == 1 {
			return inner
		}
	}
	return a.Value
}

func renderAnswerText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
