package store

import (
	"context"
	"sort"
	"sync"

	"conform/internal/project/models"
	id "conform/pkg/domain"
	"conform/pkg/platform/sentinel"
)

// InMemory keeps projects in process memory. Used in tests and local dev
// when no DATABASE_URL is configured.
type InMemory struct {
	mu       sync.RWMutex
	projects map[id.ProjectID]*models.Project
}

func NewInMemory() *InMemory {
	return &InMemory{projects: make(map[id.ProjectID]*models.Project)}
}

func (s *InMemory) Create(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.projects[project.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *project
	s.projects[project.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, projectID id.ProjectID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[projectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *project
	return &copied, nil
}

func (s *InMemory) List(_ context.Context, offset, limit int) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Project, 0, len(s.projects))
	for _, project := range s.projects {
		copied := *project
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *InMemory) Update(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[project.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copied := *project
	s.projects[project.ID] = &copied
	return nil
}

func (s *InMemory) Delete(_ context.Context, projectID id.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[projectID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.projects, projectID)
	return nil
}
