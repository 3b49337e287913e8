package repository

import (
	"alcyxob/portfolio-api/internal/domain"
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ContentRepository defines the interface for interacting with content records.
// Ids are the hex form of the store-generated ObjectID; malformed ids behave
// like unknown ones and yield ErrNotFound.
type ContentRepository interface {
	// ListByCategory returns the records of one category, newest first.
	ListByCategory(ctx context.Context, category string) ([]domain.Content, error)
	GetByID(ctx context.Context, id string) (*domain.Content, error)
	// Create sets the id and both timestamps on content and inserts it.
	Create(ctx context.Context, content *domain.Content) error
	// Update applies the non-nil patch fields and, when file is non-nil, the new
	// file reference. It returns the record as stored after the update.
	Update(ctx context.Context, id string, patch domain.ContentPatch, file *domain.FileRef) (*domain.Content, error)
	// Delete removes the record and returns it as it was.
	Delete(ctx context.Context, id string) (*domain.Content, error)
}

// ProjectRepository defines the interface for interacting with student projects.
type ProjectRepository interface {
	// List returns all projects, newest first.
	List(ctx context.Context) ([]domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, id string, patch domain.ProjectPatch, file *domain.FileRef) (*domain.Project, error)
	Delete(ctx context.Context, id string) (*domain.Project, error)
}
