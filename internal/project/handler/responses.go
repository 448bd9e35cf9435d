package handler

import (
	"time"

	"conform/internal/project/models"
	"conform/internal/project/service"
)

// ProjectResponse is the HTTP representation of a project.
type ProjectResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Organization string    `json:"organization,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProjectSummaryResponse is a project listing entry with its assessment count.
type ProjectSummaryResponse struct {
	ProjectResponse
	AssessmentCount int `json:"assessment_count"`
}

// FromProject converts a domain project to an HTTP response.
func FromProject(project *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:           project.ID.String(),
		Name:         project.Name,
		Description:  project.Description,
		Organization: project.Organization,
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
	}
}

// FromSummaries converts listing summaries to HTTP responses.
func FromSummaries(summaries []service.Summary) []ProjectSummaryResponse {
	out := make([]ProjectSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, ProjectSummaryResponse{
			ProjectResponse: FromProject(s.Project),
			AssessmentCount: s.AssessmentCount,
		})
	}
	return out
}
