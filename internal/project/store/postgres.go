package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"conform/internal/project/models"
	id "conform/pkg/domain"
	"conform/pkg/platform/sentinel"
	txcontext "conform/pkg/platform/tx"
)

// Postgres persists projects in PostgreSQL. Assessments, answers, and flags
// hang off projects with ON DELETE CASCADE, so Delete needs no sweeping.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, name, description, organization, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(project.ID),
		project.Name,
		project.Description,
		project.Organization,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, projectID id.ProjectID) (*models.Project, error) {
	query := `
		SELECT id, name, description, organization, created_at, updated_at
		FROM projects
		WHERE id = $1
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(projectID))

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return project, nil
}

func (s *Postgres) List(ctx context.Context, offset, limit int) ([]*models.Project, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, name, description, organization, created_at, updated_at
		FROM projects
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func (s *Postgres) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3, organization = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(project.ID),
		project.Name,
		project.Description,
		project.Organization,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, projectID id.ProjectID) error {
	result, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1`, uuid.UUID(projectID))
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		project      models.Project
		rawID        uuid.UUID
		description  sql.NullString
		organization sql.NullString
	)
	err := row.Scan(
		&rawID,
		&project.Name,
		&description,
		&organization,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	project.ID = id.ProjectID(rawID)
	project.Description = description.String
	project.Organization = organization.String
	return &project, nil
}
