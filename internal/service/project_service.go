package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"alcyxob/portfolio-api/internal/domain"
	"alcyxob/portfolio-api/internal/repository"
	"alcyxob/portfolio-api/internal/upload"
)

// NewProject carries the text fields of a student project being created.
type NewProject struct {
	ProjectTitle string
	StudentName  string
	RollNo       string
	Department   string
	Year         string
	Description  string
}

type ProjectService interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, in NewProject, file *upload.File) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch, file *upload.File) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	uploader    FileUploader
	logger      *slog.Logger
}

func NewProjectService(projectRepo repository.ProjectRepository, uploader FileUploader, logger *slog.Logger) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *projectService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.projectRepo.List(ctx)
}

func (s *projectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (s *projectService) CreateProject(ctx context.Context, in NewProject, file *upload.File) (*domain.Project, error) {
	if file == nil {
		return nil, upload.ErrMissingFile
	}
	project := &domain.Project{
		ProjectTitle: strings.TrimSpace(in.ProjectTitle),
		StudentName:  strings.TrimSpace(in.StudentName),
		RollNo:       strings.TrimSpace(in.RollNo),
		Department:   strings.TrimSpace(in.Department),
		Year:         strings.TrimSpace(in.Year),
		Description:  strings.TrimSpace(in.Description),
	}
	if err := requireFields(map[string]string{
		"projectTitle": project.ProjectTitle,
		"studentName":  project.StudentName,
		"rollNo":       project.RollNo,
		"department":   project.Department,
		"year":         project.Year,
		"description":  project.Description,
	}); err != nil {
		return nil, err
	}

	ref, err := s.uploader.Process(ctx, upload.Target{Collection: domain.CollectionProjects}, file)
	if err != nil {
		return nil, err
	}
	project.FileRef = *ref

	if err := s.projectRepo.Create(ctx, project); err != nil {
		s.uploader.Discard(ctx, *ref)
		return nil, err
	}

	s.logger.InfoContext(ctx, "project created", slog.String("id", project.ID.Hex()))
	return project, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch, file *upload.File) (*domain.Project, error) {
	existing, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	var newRef *domain.FileRef
	if file != nil {
		if newRef, err = s.uploader.Process(ctx, upload.Target{Collection: domain.CollectionProjects}, file); err != nil {
			return nil, err
		}
	}

	updated, err := s.projectRepo.Update(ctx, id, patch, newRef)
	if err != nil {
		if newRef != nil {
			s.uploader.Discard(ctx, *newRef)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if newRef != nil && existing.RemoteID != newRef.RemoteID {
		s.uploader.Discard(ctx, existing.FileRef)
	}
	return updated, nil
}

func (s *projectService) DeleteProject(ctx context.Context, id string) error {
	removed, err := s.projectRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	s.uploader.Discard(ctx, removed.FileRef)
	s.logger.InfoContext(ctx, "project deleted", slog.String("id", id))
	return nil
}
