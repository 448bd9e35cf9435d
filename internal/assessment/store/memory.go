package store

import (
	"context"
	"sort"
	"sync"

	"conform/internal/assessment/models"
	id "conform/pkg/domain"
	"conform/pkg/platform/sentinel"
)

// InMemory keeps assessments, answers, and flags in process memory.
type InMemory struct {
	mu          sync.RWMutex
	assessments map[id.AssessmentID]*models.Assessment
	answers     map[id.AssessmentID]map[string]*models.Answer
	flags       map[id.AssessmentID][]models.RegulatoryFlag
}

func NewInMemory() *InMemory {
	return &InMemory{
		assessments: make(map[id.AssessmentID]*models.Assessment),
		answers:     make(map[id.AssessmentID]map[string]*models.Answer),
		flags:       make(map[id.AssessmentID][]models.RegulatoryFlag),
	}
}

func (s *InMemory) CreateAssessment(_ context.Context, assessment *models.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assessments[assessment.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *assessment
	s.assessments[assessment.ID] = &copied
	return nil
}

func (s *InMemory) GetAssessment(_ context.Context, assessmentID id.AssessmentID) (*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assessment, ok := s.assessments[assessmentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *assessment
	return &copied, nil
}

// ListAssessments returns assessments in creation order. A nil projectID
// lists everything.
func (s *InMemory) ListAssessments(_ context.Context, projectID id.ProjectID) ([]*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*models.Assessment
	for _, assessment := range s.assessments {
		if !projectID.IsNil() && assessment.ProjectID != projectID {
			continue
		}
		copied := *assessment
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}

func (s *InMemory) UpdateAssessment(_ context.Context, assessment *models.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assessments[assessment.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copied := *assessment
	s.assessments[assessment.ID] = &copied
	return nil
}

func (s *InMemory) CountByProject(_ context.Context, projectID id.ProjectID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, assessment := range s.assessments {
		if assessment.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

// DeleteByProject removes a project's assessments with their answers and
// flags. The explicit sweep mirrors the FK cascade in the postgres store.
func (s *InMemory) DeleteByProject(_ context.Context, projectID id.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for assessmentID, assessment := range s.assessments {
		if assessment.ProjectID != projectID {
			continue
		}
		delete(s.assessments, assessmentID)
		delete(s.answers, assessmentID)
		delete(s.flags, assessmentID)
	}
	return nil
}

func (s *InMemory) UpsertAnswer(_ context.Context, answer *models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byQuestion, ok := s.answers[answer.AssessmentID]
	if !ok {
		byQuestion = make(map[string]*models.Answer)
		s.answers[answer.AssessmentID] = byQuestion
	}

	copied := *answer
	if existing, ok := byQuestion[answer.QuestionID]; ok {
		copied.CreatedAt = existing.CreatedAt
	}
	byQuestion[answer.QuestionID] = &copied
	return nil
}

func (s *InMemory) ListAnswers(_ context.Context, assessmentID id.AssessmentID) ([]models.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var answers []models.Answer
	for _, answer := range s.answers[assessmentID] {
		answers = append(answers, *answer)
	}
	sort.Slice(answers, func(i, j int) bool {
		if answers[i].CreatedAt.Equal(answers[j].CreatedAt) {
			return answers[i].QuestionID < answers[j].QuestionID
		}
		return answers[i].CreatedAt.Before(answers[j].CreatedAt)
	})
	return answers, nil
}

// ReplaceFlags swaps the flag set for an assessment. Completion re-runs write
// a fresh set rather than appending duplicates.
func (s *InMemory) ReplaceFlags(_ context.Context, assessmentID id.AssessmentID, flags []models.RegulatoryFlag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[assessmentID] = append([]models.RegulatoryFlag{}, flags...)
	return nil
}

func (s *InMemory) ListFlags(_ context.Context, assessmentID id.AssessmentID) ([]models.RegulatoryFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RegulatoryFlag{}, s.flags[assessmentID]...), nil
}
