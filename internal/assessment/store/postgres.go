package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"conform/internal/assessment/models"
	id "conform/pkg/domain"
	"conform/pkg/platform/sentinel"
	txcontext "conform/pkg/platform/tx"
)

// Postgres persists assessments, answers, and regulatory flags.
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

func (s *Postgres) CreateAssessment(ctx context.Context, assessment *models.Assessment) error {
	query := `
		INSERT INTO assessments (id, project_id, title, status, risk_level, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(assessment.ID),
		uuid.UUID(assessment.ProjectID),
		assessment.Title,
		string(assessment.Status),
		nullString(assessment.RiskLevel),
		assessment.CompletedAt,
		assessment.CreatedAt,
		assessment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (s *Postgres) GetAssessment(ctx context.Context, assessmentID id.AssessmentID) (*models.Assessment, error) {
	query := `
		SELECT id, project_id, title, status, risk_level, completed_at, created_at, updated_at
		FROM assessments
		WHERE id = $1
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(assessmentID))

	assessment, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find assessment by id: %w", err)
	}
	return assessment, nil
}

func (s *Postgres) ListAssessments(ctx context.Context, projectID id.ProjectID) ([]*models.Assessment, error) {
	query := `
		SELECT id, project_id, title, status, risk_level, completed_at, created_at, updated_at
		FROM assessments
	`
	args := []any{}
	if !projectID.IsNil() {
		query += ` WHERE project_id = $1`
		args = append(args, uuid.UUID(projectID))
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*models.Assessment
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		assessments = append(assessments, assessment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return assessments, nil
}

func (s *Postgres) UpdateAssessment(ctx context.Context, assessment *models.Assessment) error {
	query := `
		UPDATE assessments
		SET title = $2, status = $3, risk_level = $4, completed_at = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(assessment.ID),
		assessment.Title,
		string(assessment.Status),
		nullString(assessment.RiskLevel),
		assessment.CompletedAt,
		assessment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update assessment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assessment rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) CountByProject(ctx context.Context, projectID id.ProjectID) (int, error) {
	var count int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assessments WHERE project_id = $1`,
		uuid.UUID(projectID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return count, nil
}

// DeleteByProject relies on ON DELETE CASCADE from assessments to answers
// and regulatory_flags, so a single statement suffices.
func (s *Postgres) DeleteByProject(ctx context.Context, projectID id.ProjectID) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM assessments WHERE project_id = $1`, uuid.UUID(projectID))
	if err != nil {
		return fmt.Errorf("delete assessments by project: %w", err)
	}
	return nil
}

func (s *Postgres) UpsertAnswer(ctx context.Context, answer *models.Answer) error {
	valueBytes, err := json.Marshal(answer.Value)
	if err != nil {
		return fmt.Errorf("marshal answer value: %w", err)
	}
	query := `
		INSERT INTO answers (assessment_id, question_id, answer_value, answer_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (assessment_id, question_id)
		DO UPDATE SET answer_value = EXCLUDED.answer_value,
		              answer_text = EXCLUDED.answer_text,
		              updated_at = EXCLUDED.updated_at
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(answer.AssessmentID),
		answer.QuestionID,
		valueBytes,
		answer.Text,
		answer.CreatedAt,
		answer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}
	return nil
}

func (s *Postgres) ListAnswers(ctx context.Context, assessmentID id.AssessmentID) ([]models.Answer, error) {
	query := `
		SELECT assessment_id, question_id, answer_value, answer_text, created_at, updated_at
		FROM answers
		WHERE assessment_id = $1
		ORDER BY created_at, question_id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(assessmentID))
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var (
			answer     models.Answer
			rawID      uuid.UUID
			valueBytes []byte
			text       sql.NullString
		)
		err := rows.Scan(&rawID, &answer.QuestionID, &valueBytes, &text, &answer.CreatedAt, &answer.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answer.AssessmentID = id.AssessmentID(rawID)
		answer.Text = text.String
		if len(valueBytes) > 0 {
			if err := json.Unmarshal(valueBytes, &answer.Value); err != nil {
				return nil, fmt.Errorf("unmarshal answer value: %w", err)
			}
		}
		answers = append(answers, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return answers, nil
}

func (s *Postgres) ReplaceFlags(ctx context.Context, assessmentID id.AssessmentID, flags []models.RegulatoryFlag) error {
	execer := s.execer(ctx)

	_, err := execer.ExecContext(ctx,
		`DELETE FROM regulatory_flags WHERE assessment_id = $1`, uuid.UUID(assessmentID))
	if err != nil {
		return fmt.Errorf("clear regulatory flags: %w", err)
	}

	query := `
		INSERT INTO regulatory_flags (id, assessment_id, regulation, category, severity, title, description, rule_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, flag := range flags {
		_, err := execer.ExecContext(ctx, query,
			uuid.New(),
			uuid.UUID(flag.AssessmentID),
			flag.Regulation,
			flag.Category,
			string(flag.Severity),
			flag.Title,
			flag.Description,
			flag.RuleID,
			flag.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert regulatory flag: %w", err)
		}
	}
	return nil
}

func (s *Postgres) ListFlags(ctx context.Context, assessmentID id.AssessmentID) ([]models.RegulatoryFlag, error) {
	query := `
		SELECT assessment_id, regulation, category, severity, title, description, rule_id, created_at
		FROM regulatory_flags
		WHERE assessment_id = $1
		ORDER BY created_at, rule_id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(assessmentID))
	if err != nil {
		return nil, fmt.Errorf("list regulatory flags: %w", err)
	}
	defer rows.Close()

	var flags []models.RegulatoryFlag
	for rows.Next() {
		var (
			flag     models.RegulatoryFlag
			rawID    uuid.UUID
			severity string
			ruleID   sql.NullString
		)
		err := rows.Scan(&rawID, &flag.Regulation, &flag.Category, &severity, &flag.Title, &flag.Description, &ruleID, &flag.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan regulatory flag: %w", err)
		}
		flag.AssessmentID = id.AssessmentID(rawID)
		flag.Severity = models.FlagSeverity(severity)
		flag.RuleID = ruleID.String
		flags = append(flags, flag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regulatory flags: %w", err)
	}
	return flags, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (*models.Assessment, error) {
	var (
		assessment models.Assessment
		rawID      uuid.UUID
		rawProject uuid.UUID
		status     string
		riskLevel  sql.NullString
		completed  sql.NullTime
	)
	err := row.Scan(
		&rawID,
		&rawProject,
		&assessment.Title,
		&status,
		&riskLevel,
		&completed,
		&assessment.CreatedAt,
		&assessment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	assessment.ID = id.AssessmentID(rawID)
	assessment.ProjectID = id.ProjectID(rawProject)
	assessment.Status = models.Status(status)
	assessment.RiskLevel = riskLevel.String
	if completed.Valid {
		t := completed.Time
		assessment.CompletedAt = &t
	}
	return &assessment, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
