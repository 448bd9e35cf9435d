package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"conform/internal/project/models"
	id "conform/pkg/domain"
	"conform/pkg/platform/sentinel"
)

type ProjectStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *ProjectStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestProjectStoreSuite(t *testing.T) {
	suite.Run(t, new(ProjectStoreSuite))
}

func (s *ProjectStoreSuite) newProject(name string) *models.Project {
	project, err := models.NewProject(id.ProjectID(uuid.New()), name, "", "ACME", time.Now())
	s.Require().NoError(err)
	return project
}

func (s *ProjectStoreSuite) TestCreateAndFind() {
	s.Run("creates and finds project by ID", func() {
		project := s.newProject("Support Chatbot")
		s.Require().NoError(s.store.Create(s.ctx, project))

		found, err := s.store.FindByID(s.ctx, project.ID)
		s.Require().NoError(err)
		s.Equal(project.Name, found.Name)
		s.Equal(project.Organization, found.Organization)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.ProjectID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate IDs", func() {
		project := s.newProject("Duplicated")
		s.Require().NoError(s.store.Create(s.ctx, project))
		s.Require().ErrorIs(s.store.Create(s.ctx, project), sentinel.ErrConflict)
	})
}

func (s *ProjectStoreSuite) TestListPagination() {
	base := time.Now()
	for i, name := range []string{"First", "Second", "Third"} {
		project, err := models.NewProject(id.ProjectID(uuid.New()), name, "", "", base.Add(time.Duration(i)*time.Second))
		s.Require().NoError(err)
		s.Require().NoError(s.store.Create(s.ctx, project))
	}

	s.Run("lists in creation order", func() {
		projects, err := s.store.List(s.ctx, 0, 0)
		s.Require().NoError(err)
		s.Require().Len(projects, 3)
		s.Equal("First", projects[0].Name)
		s.Equal("Third", projects[2].Name)
	})

	s.Run("applies offset and limit", func() {
		projects, err := s.store.List(s.ctx, 1, 1)
		s.Require().NoError(err)
		s.Require().Len(projects, 1)
		s.Equal("Second", projects[0].Name)
	})

	s.Run("offset beyond range yields empty list", func() {
		projects, err := s.store.List(s.ctx, 10, 0)
		s.Require().NoError(err)
		s.Empty(projects)
	})
}

func (s *ProjectStoreSuite) TestUpdateAndDelete() {
	project := s.newProject("Original")
	s.Require().NoError(s.store.Create(s.ctx, project))

	s.Run("updates stored fields", func() {
		project.Name = "Renamed"
		s.Require().NoError(s.store.Update(s.ctx, project))

		found, err := s.store.FindByID(s.ctx, project.ID)
		s.Require().NoError(err)
		s.Equal("Renamed", found.Name)
	})

	s.Run("update of unknown project returns ErrNotFound", func() {
		missing := s.newProject("Ghost")
		s.Require().ErrorIs(s.store.Update(s.ctx, missing), sentinel.ErrNotFound)
	})

	s.Run("deletes project", func() {
		s.Require().NoError(s.store.Delete(s.ctx, project.ID))
		_, err := s.store.FindByID(s.ctx, project.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("delete of unknown project returns ErrNotFound", func() {
		s.Require().ErrorIs(s.store.Delete(s.ctx, project.ID), sentinel.ErrNotFound)
	})
}

func (s *ProjectStoreSuite) TestReturnsCopies() {
	project := s.newProject("Isolated")
	s.Require().NoError(s.store.Create(s.ctx, project))

	found, err := s.store.FindByID(s.ctx, project.ID)
	s.Require().NoError(err)
	found.Name = "Mutated"

	again, err := s.store.FindByID(s.ctx, project.ID)
	s.Require().NoError(err)
	s.Equal("Isolated", again.Name)
}
