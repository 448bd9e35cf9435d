package models

import (
	"strings"
	"time"
	"unicode/utf8"

	id "conform/pkg/domain"
	dErrors "conform/pkg/domain-errors"
)

const maxNameLength = 255

// Project is an AI system undergoing compliance assessment, such as a
// chatbot, a credit scoring model, or a recruitment screening tool.
type Project struct {
	ID           id.ProjectID
	Name         string
	Description  string
	Organization string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProject validates inputs and constructs a project.
func NewProject(projectID id.ProjectID, name, description, organization string, now time.Time) (*Project, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(organization) > maxNameLength {
		return nil, dErrors.New(dErrors.CodeValidation, "organization must be at most 255 characters")
	}
	return &Project{
		ID:           projectID,
		Name:         name,
		Description:  description,
		Organization: organization,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Update carries the mutable fields of a project. Nil means "leave as is",
// so a PATCH can clear a description without touching the name.
type Update struct {
	Name         *string
	Description  *string
	Organization *string
}

// ApplyUpdate mutates the project with the provided fields.
func (p *Project) ApplyUpdate(update Update, now time.Time) error {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if err := validateName(name); err != nil {
			return err
		}
		p.Name = name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Organization != nil {
		if utf8.RuneCountInString(*update.Organization) > maxNameLength {
			return dErrors.New(dErrors.CodeValidation, "organization must be at most 255 characters")
		}
		p.Organization = *update.Organization
	}
	p.UpdatedAt = now
	return nil
}

func validateName(name string) error {
	if name == "" {
		return dErrors.New(dErrors.CodeValidation, "project name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "project name must be at most 255 characters")
	}
	return nil
}
