package handler

import (
	"strings"

	"conform/internal/assessment/service"
	id "conform/pkg/domain"
	dErrors "conform/pkg/domain-errors"
)

// CreateAssessmentRequest is the HTTP request body for POST /assessments.
type CreateAssessmentRequest struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`

	parsedProjectID id.ProjectID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateAssessmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(r.ProjectID) == "" {
		return dErrors.New(dErrors.CodeValidation, "project_id is required")
	}
	projectID, err := id.ParseProjectID(r.ProjectID)
	if err != nil {
		return err
	}
	r.parsedProjectID = projectID
	return nil
}

// ParsedProjectID returns the validated project ID.
func (r *CreateAssessmentRequest) ParsedProjectID() id.ProjectID {
	return r.parsedProjectID
}

// SubmitAnswerRequest is the HTTP request body for
// POST /assessments/{id}/answers.
type SubmitAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Value      any    `json:"answer_value"`
}

func (r *SubmitAnswerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.QuestionID = strings.TrimSpace(r.QuestionID)
	if r.QuestionID == "" {
		return dErrors.New(dErrors.CodeValidation, "question_id is required")
	}
	return nil
}

// SubmitAnswersBatchRequest is the HTTP request body for
// POST /assessments/{id}/answers/batch.
type SubmitAnswersBatchRequest struct {
	Answers []SubmitAnswerRequest `json:"answers"`
}

func (r *SubmitAnswersBatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Answers) == 0 {
		return dErrors.New(dErrors.CodeValidation, "answers must not be empty")
	}
	for i := range r.Answers {
		if err := r.Answers[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Inputs converts the batch to the service's input shape.
func (r *SubmitAnswersBatchRequest) Inputs() []service.AnswerInput {
	inputs := make([]service.AnswerInput, 0, len(r.Answers))
	for _, a := range r.Answers {
		inputs = append(inputs, service.AnswerInput{QuestionID: a.QuestionID, Value: a.Value})
	}
	return inputs
}
