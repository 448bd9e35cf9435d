package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"conform/internal/assessment/models"
	id "conform/pkg/domain"
	dErrors "conform/pkg/domain-errors"
	"conform/pkg/platform/audit"
	"conform/pkg/platform/sentinel"
)

// Report is the full compliance report for an assessment: the assessment
// itself, the assessed project, every answer, the regulatory flags raised,
// and the rule engine's evaluation breakdown for completed assessments.
type Report struct {
	Assessment ReportAssessment `json:"assessment"`
	Project    ReportProject    `json:"project"`
	Answers    []ReportAnswer   `json:"answers"`
	Flags      []ReportFlag     `json:"regulatory_flags"`
	Evaluation json.RawMessage  `json:"evaluation,omitempty"`
	Summary    string           `json:"summary"`
}

type ReportAssessment struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	RiskLevel   string     `json:"risk_level,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type ReportProject struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
}

type ReportAnswer struct {
	QuestionID string `json:"question_id"`
	AnswerText string `json:"answer_text"`
	Value      any    `json:"answer_value"`
}

type ReportFlag struct {
	Regulation  string `json:"regulation"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	RuleID      string `json:"rule_id,omitempty"`
}

// GetReport assembles the compliance report for an assessment. Reports for
// completed assessments are immutable, so they are served from the cache
// when one is configured.
func (s *Service) GetReport(ctx context.Context, assessmentID id.AssessmentID) (*Report, error) {
	if assessmentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "assessment id is required")
	}

	ctx, span := s.tracer.Start(ctx, "assessment.report")
	defer span.End()

	cacheKey := reportCacheKey(assessmentID)
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			var report Report
			if err := json.Unmarshal(payload, &report); err == nil {
				s.metrics.IncrementReportCacheHit()
				return &report, nil
			}
			// Corrupt cache entry: fall through and rebuild.
		case !errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "report cache read failed",
				"assessment_id", assessmentID,
				"error", err,
			)
		}
		s.metrics.IncrementReportCacheMiss()
	}

	assessment, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, wrapAssessmentErr(err)
	}
	project, err := s.projects.FindByID(ctx, assessment.ProjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load project")
	}
	answers, err := s.store.ListAnswers(ctx, assessmentID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load answers")
	}
	flags, err := s.store.ListFlags(ctx, assessmentID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load regulatory flags")
	}

	report := &Report{
		Assessment: ReportAssessment{
			ID:          assessment.ID.String(),
			Title:       assessment.Title,
			Status:      string(assessment.Status),
			RiskLevel:   assessment.RiskLevel,
			CreatedAt:   assessment.CreatedAt,
			CompletedAt: assessment.CompletedAt,
		},
		Project: ReportProject{
			ID:           project.ID.String(),
			Name:         project.Name,
			Organization: project.Organization,
		},
		Answers: reportAnswers(answers),
		Flags:   reportFlags(flags),
		Summary: reportSummary(assessment, flags),
	}

	if assessment.IsCompleted() {
		// Evaluation is a pure function of the answers, so rebuilding it
		// here yields exactly the breakdown recorded at completion.
		riskLevel, results, err := s.engine.EvaluateAssessment(ctx, answerSet(answers))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "rule evaluation failed")
		}
		evaluation, err := json.Marshal(s.engine.GenerateReport(riskLevel, results))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to serialize evaluation")
		}
		report.Evaluation = evaluation

		if s.cache != nil {
			payload, err := json.Marshal(report)
			if err == nil {
				if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
					s.logger.WarnContext(ctx, "report cache write failed",
						"assessment_id", assessmentID,
						"error", err,
					)
				}
			}
		}
	}

	if err := s.emit(ctx, audit.EventReportGenerated, assessmentID.String(), assessment.RiskLevel); err != nil {
		return nil, err
	}
	return report, nil
}

func reportCacheKey(assessmentID id.AssessmentID) string {
	return "conform:report:" + assessmentID.String()
}

func reportAnswers(answers []models.Answer) []ReportAnswer {
	out := make([]ReportAnswer, 0, len(answers))
	for _, answer := range answers {
		out = append(out, ReportAnswer{
			QuestionID: answer.QuestionID,
			AnswerText: answer.Text,
			Value:      answer.Value,
		})
	}
	return out
}

func reportFlags(flags []models.RegulatoryFlag) []ReportFlag {
	out := make([]ReportFlag, 0, len(flags))
	for _, flag := range flags {
		out = append(out, ReportFlag{
			Regulation:  flag.Regulation,
			Category:    flag.Category,
			Severity:    string(flag.Severity),
			Title:       flag.Title,
			Description: flag.Description,
			RuleID:      flag.RuleID,
		})
	}
	return out
}

// reportSummary renders the one-line digest shown at the top of a report.
func reportSummary(assessment *models.Assessment, flags []models.RegulatoryFlag) string {
	if assessment.RiskLevel == "" {
		return "Assessment not yet completed."
	}

	parts := []string{
		fmt.Sprintf("Risk Level: %s", strings.ToUpper(assessment.RiskLevel)),
		fmt.Sprintf("Regulatory Flags: %d", len(flags)),
	}

	if len(flags) > 0 {
		seen := make(map[string]struct{})
		var regulations []string
		for _, flag := range flags {
			if _, ok := seen[flag.Regulation]; ok {
				continue
			}
			seen[flag.Regulation] = struct{}{}
			regulations = append(regulations, flag.Regulation)
		}
		sort.Strings(regulations)
		parts = append(parts, fmt.Sprintf("Applicable Regulations: %s", strings.Join(regulations, ", ")))
	}

	return strings.Join(parts, " | ")
}
