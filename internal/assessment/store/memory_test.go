package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"conform/internal/assessment/models"
	id "conform/pkg/domain"
	"conform/pkg/platform/sentinel"
)

type AssessmentStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *AssessmentStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestAssessmentStoreSuite(t *testing.T) {
	suite.Run(t, new(AssessmentStoreSuite))
}

func (s *AssessmentStoreSuite) newAssessment(projectID id.ProjectID) *models.Assessment {
	assessment, err := models.NewAssessment(id.AssessmentID(uuid.New()), projectID, "Review", time.Now())
	s.Require().NoError(err)
	return assessment
}

func (s *AssessmentStoreSuite) TestCreateAndGet() {
	projectID := id.ProjectID(uuid.New())

	s.Run("creates and fetches by ID", func() {
		assessment := s.newAssessment(projectID)
		s.Require().NoError(s.store.CreateAssessment(s.ctx, assessment))

		found, err := s.store.GetAssessment(s.ctx, assessment.ID)
		s.Require().NoError(err)
		s.Equal(assessment.Title, found.Title)
		s.Equal(models.StatusDraft, found.Status)
	})

	s.Run("unknown ID returns ErrNotFound", func() {
		_, err := s.store.GetAssessment(s.ctx, id.AssessmentID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("duplicate ID returns ErrConflict", func() {
		assessment := s.newAssessment(projectID)
		s.Require().NoError(s.store.CreateAssessment(s.ctx, assessment))
		s.Require().ErrorIs(s.store.CreateAssessment(s.ctx, assessment), sentinel.ErrConflict)
	})
}

func (s *AssessmentStoreSuite) TestListAndCount() {
	projectA := id.ProjectID(uuid.New())
	projectB := id.ProjectID(uuid.New())

	for range 2 {
		s.Require().NoError(s.store.CreateAssessment(s.ctx, s.newAssessment(projectA)))
	}
	s.Require().NoError(s.store.CreateAssessment(s.ctx, s.newAssessment(projectB)))

	s.Run("filters by project", func() {
		assessments, err := s.store.ListAssessments(s.ctx, projectA)
		s.Require().NoError(err)
		s.Len(assessments, 2)
	})

	s.Run("nil project lists everything", func() {
		assessments, err := s.store.ListAssessments(s.ctx, id.ProjectID{})
		s.Require().NoError(err)
		s.Len(assessments, 3)
	})

	s.Run("counts per project", func() {
		count, err := s.store.CountByProject(s.ctx, projectA)
		s.Require().NoError(err)
		s.Equal(2, count)

		count, err = s.store.CountByProject(s.ctx, id.ProjectID(uuid.New()))
		s.Require().NoError(err)
		s.Equal(0, count)
	})
}

func (s *AssessmentStoreSuite) TestAnswerUpsert() {
	projectID := id.ProjectID(uuid.New())
	assessment := s.newAssessment(projectID)
	s.Require().NoError(s.store.CreateAssessment(s.ctx, assessment))

	first, err := models.NewAnswer(assessment.ID, "system_purpose", "weather", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.UpsertAnswer(s.ctx, first))

	s.Run("second upsert replaces the value, keeps creation time", func() {
		updated, err := models.NewAnswer(assessment.ID, "system_purpose", "social_scoring", time.Now().Add(time.Second))
		s.Require().NoError(err)
		s.Require().NoError(s.store.UpsertAnswer(s.ctx, updated))

		answers, err := s.store.ListAnswers(s.ctx, assessment.ID)
		s.Require().NoError(err)
		s.Require().Len(answers, 1)
		s.Equal("social_scoring", answers[0].Value)
		s.Equal(first.CreatedAt, answers[0].CreatedAt)
	})

	s.Run("answers list in creation order", func() {
		second, err := models.NewAnswer(assessment.ID, "uses_manipulation", true, time.Now().Add(2*time.Second))
		s.Require().NoError(err)
		s.Require().NoError(s.store.UpsertAnswer(s.ctx, second))

		answers, err := s.store.ListAnswers(s.ctx, assessment.ID)
		s.Require().NoError(err)
		s.Require().Len(answers, 2)
		s.Equal("system_purpose", answers[0].QuestionID)
		s.Equal("uses_manipulation", answers[1].QuestionID)
	})
}

func (s *AssessmentStoreSuite) TestFlagsReplace() {
	projectID := id.ProjectID(uuid.New())
	assessment := s.newAssessment(projectID)
	s.Require().NoError(s.store.CreateAssessment(s.ctx, assessment))

	flags := []models.RegulatoryFlag{
		{AssessmentID: assessment.ID, Regulation: "EU_AI_ACT", RuleID: "RULE_A", Severity: models.SeverityHigh},
		{AssessmentID: assessment.ID, Regulation: "EU_AI_ACT", RuleID: "RULE_B", Severity: models.SeverityMedium},
	}
	s.Require().NoError(s.store.ReplaceFlags(s.ctx, assessment.ID, flags))

	s.Run("replace swaps the whole set", func() {
		replacement := []models.RegulatoryFlag{
			{AssessmentID: assessment.ID, Regulation: "EU_AI_ACT", RuleID: "RULE_C", Severity: models.SeverityCritical},
		}
		s.Require().NoError(s.store.ReplaceFlags(s.ctx, assessment.ID, replacement))

		stored, err := s.store.ListFlags(s.ctx, assessment.ID)
		s.Require().NoError(err)
		s.Require().Len(stored, 1)
		s.Equal("RULE_C", stored[0].RuleID)
	})
}

func (s *AssessmentStoreSuite) TestDeleteByProjectSweepsEverything() {
	projectID := id.ProjectID(uuid.New())
	assessment := s.newAssessment(projectID)
	s.Require().NoError(s.store.CreateAssessment(s.ctx, assessment))

	answer, err := models.NewAnswer(assessment.ID, "q", true, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.UpsertAnswer(s.ctx, answer))
	s.Require().NoError(s.store.ReplaceFlags(s.ctx, assessment.ID, []models.RegulatoryFlag{
		{AssessmentID: assessment.ID, RuleID: "RULE_A"},
	}))

	s.Require().NoError(s.store.DeleteByProject(s.ctx, projectID))

	_, err = s.store.GetAssessment(s.ctx, assessment.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	answers, err := s.store.ListAnswers(s.ctx, assessment.ID)
	s.Require().NoError(err)
	s.Empty(answers)

	flags, err := s.store.ListFlags(s.ctx, assessment.ID)
	s.Require().NoError(err)
	s.Empty(flags)
}
