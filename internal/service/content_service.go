package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"alcyxob/portfolio-api/internal/domain"
	"alcyxob/portfolio-api/internal/repository"
	"alcyxob/portfolio-api/internal/upload"
)

// NewContent carries the text fields of a content record being created.
type NewContent struct {
	Title       string
	Description string
	Category    string
}

type ContentService interface {
	ListByCategory(ctx context.Context, category string) ([]domain.Content, error)
	GetContent(ctx context.Context, id string) (*domain.Content, error)
	CreateContent(ctx context.Context, in NewContent, file *upload.File) (*domain.Content, error)
	// UpdateContent overwrites the non-nil patch fields; a non-nil file replaces
	// the stored one and the previous remote file is discarded.
	UpdateContent(ctx context.Context, id string, patch domain.ContentPatch, file *upload.File) (*domain.Content, error)
	DeleteContent(ctx context.Context, id string) error
}

// contentService implements the ContentService interface.
type contentService struct {
	contentRepo repository.ContentRepository
	uploader    FileUploader
	logger      *slog.Logger
}

// NewContentService creates a new instance of contentService.
func NewContentService(contentRepo repository.ContentRepository, uploader FileUploader, logger *slog.Logger) ContentService {
	return &contentService{
		contentRepo: contentRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *contentService) ListByCategory(ctx context.Context, category string) ([]domain.Content, error) {
	return s.contentRepo.ListByCategory(ctx, category)
}

func (s *contentService) GetContent(ctx context.Context, id string) (*domain.Content, error) {
	content, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return content, nil
}

// CreateContent uploads the file and then writes the record. A record is
// never written without a stored file.
func (s *contentService) CreateContent(ctx context.Context, in NewContent, file *upload.File) (*domain.Content, error) {
	if file == nil {
		return nil, upload.ErrMissingFile
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if err := requireFields(map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"category":    in.Category,
	}); err != nil {
		return nil, err
	}

	ref, err := s.uploader.Process(ctx, upload.Target{Collection: domain.CollectionContent, Category: in.Category}, file)
	if err != nil {
		return nil, err
	}

	content := &domain.Content{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		FileRef:     *ref,
	}
	if err := s.contentRepo.Create(ctx, content); err != nil {
		s.uploader.Discard(ctx, *ref)
		return nil, err
	}

	s.logger.InfoContext(ctx, "content created",
		slog.String("id", content.ID.Hex()), slog.String("category", content.Category))
	return content, nil
}

func (s *contentService) UpdateContent(ctx context.Context, id string, patch domain.ContentPatch, file *upload.File) (*domain.Content, error) {
	existing, err := s.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}

	var newRef *domain.FileRef
	if file != nil {
		newRef, err = s.uploader.Process(ctx, upload.Target{Collection: domain.CollectionContent, Category: existing.Category}, file)
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.contentRepo.Update(ctx, id, patch, newRef)
	if err != nil {
		if newRef != nil {
			s.uploader.Discard(ctx, *newRef)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	if newRef != nil && existing.RemoteID != newRef.RemoteID {
		s.uploader.Discard(ctx, existing.FileRef)
	}
	return updated, nil
}

// DeleteContent removes the record first; its remote file is removed best-effort.
func (s *contentService) DeleteContent(ctx context.Context, id string) error {
	removed, err := s.contentRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContentNotFound
		}
		return err
	}

	s.uploader.Discard(ctx, removed.FileRef)
	s.logger.InfoContext(ctx, "content deleted", slog.String("id", id))
	return nil
}

// requireFields fails with ErrValidationFailed naming every empty field.
func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s required", ErrValidationFailed, strings.Join(missing, ", "))
}
