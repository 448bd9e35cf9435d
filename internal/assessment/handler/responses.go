package handler

import (
	"time"

	"conform/internal/assessment/models"
)

// AssessmentResponse is the HTTP representation of an assessment.
type AssessmentResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	RiskLevel   *string    `json:"risk_level"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FromAssessment converts a domain assessment to an HTTP response.
func FromAssessment(assessment *models.Assessment) AssessmentResponse {
	resp := AssessmentResponse{
		ID:          assessment.ID.String(),
		ProjectID:   assessment.ProjectID.String(),
		Title:       assessment.Title,
		Status:      string(assessment.Status),
		CompletedAt: assessment.CompletedAt,
		CreatedAt:   assessment.CreatedAt,
		UpdatedAt:   assessment.UpdatedAt,
	}
	if assessment.RiskLevel != "" {
		level := assessment.RiskLevel
		resp.RiskLevel = &level
	}
	return resp
}

// FromAssessments converts a listing.
func FromAssessments(assessments []*models.Assessment) []AssessmentResponse {
	out := make([]AssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, FromAssessment(a))
	}
	return out
}

// AnswerResponse is the HTTP representation of a saved answer.
type AnswerResponse struct {
	AssessmentID string    `json:"assessment_id"`
	QuestionID   string    `json:"question_id"`
	Value        any       `json:"answer_value"`
	Text         string    `json:"answer_text"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FromAnswer converts a domain answer to an HTTP response.
func FromAnswer(answer *models.Answer) AnswerResponse {
	return AnswerResponse{
		AssessmentID: answer.AssessmentID.String(),
		QuestionID:   answer.QuestionID,
		Value:        answer.Value,
		Text:         answer.Text,
		UpdatedAt:    answer.UpdatedAt,
	}
}

// FromAnswers converts a batch result.
func FromAnswers(answers []*models.Answer) []AnswerResponse {
	out := make([]AnswerResponse, 0, len(answers))
	for _, a := range answers {
		out = append(out, FromAnswer(a))
	}
	return out
}
