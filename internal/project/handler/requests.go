package handler

import (
	"strings"

	"conform/internal/project/models"
	dErrors "conform/pkg/domain-errors"
)

// CreateProjectRequest is the HTTP request body for POST /projects.
type CreateProjectRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Organization string `json:"organization"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateProjectRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// UpdateProjectRequest is the HTTP request body for PATCH /projects/{id}.
// All fields are optional; absent fields are left untouched.
type UpdateProjectRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Organization *string `json:"organization"`
}

func (r *UpdateProjectRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Name == nil && r.Description == nil && r.Organization == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name must not be empty")
	}
	return nil
}

// Update converts the request to the domain update.
func (r *UpdateProjectRequest) Update() models.Update {
	return models.Update{
		Name:         r.Name,
		Description:  r.Description,
		Organization: r.Organization,
	}
}
