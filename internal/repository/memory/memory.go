// Package memory provides map-backed repositories with the same ordering and
// patch semantics as the MongoDB ones. The API and service tests run on it.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/portfolio-api/internal/domain"
	"alcyxob/portfolio-api/internal/repository"
)

// Clock returns the current time; tests replace it to control timestamps.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// advance returns the clock reading, or one millisecond past prev when the
// clock has not moved on since the last write.
func advance(now Clock, prev time.Time) time.Time {
	t := now()
	if !t.After(prev) {
		t = prev.Add(time.Millisecond)
	}
	return t
}

// ContentRepository is a map-backed repository.ContentRepository.
type ContentRepository struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]domain.Content
	now   Clock
}

// NewContentRepository returns an empty repository; a nil clock uses the wall clock.
func NewContentRepository(now Clock) *ContentRepository {
	if now == nil {
		now = utcNow
	}
	return &ContentRepository{items: make(map[primitive.ObjectID]domain.Content), now: now}
}

var _ repository.ContentRepository = (*ContentRepository)(nil)

func (r *ContentRepository) ListByCategory(_ context.Context, category string) ([]domain.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Content{}
	for _, c := range r.items {
		if c.Category == category {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (r *ContentRepository) GetByID(_ context.Context, id string) (*domain.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	c, ok := r.items[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *ContentRepository) Create(_ context.Context, content *domain.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	content.ID = primitive.NewObjectID()
	now := r.now()
	content.CreatedAt = now
	content.UpdatedAt = now
	r.items[content.ID] = *content
	return nil
}

func (r *ContentRepository) Update(_ context.Context, id string, patch domain.ContentPatch, file *domain.FileRef) (*domain.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	c, ok := r.items[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	apply(&c.Title, patch.Title)
	apply(&c.Description, patch.Description)
	if file != nil {
		c.FileRef = *file
	}
	c.UpdatedAt = advance(r.now, c.UpdatedAt)
	r.items[oid] = c
	return &c, nil
}

func (r *ContentRepository) Delete(_ context.Context, id string) (*domain.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	c, ok := r.items[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.items, oid)
	return &c, nil
}

// ProjectRepository is a map-backed repository.ProjectRepository.
type ProjectRepository struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]domain.Project
	now   Clock
}

// NewProjectRepository returns an empty repository; a nil clock uses the wall clock.
func NewProjectRepository(now Clock) *ProjectRepository {
	if now == nil {
		now = utcNow
	}
	return &ProjectRepository{items: make(map[primitive.ObjectID]domain.Project), now: now}
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)

func (r *ProjectRepository) List(_ context.Context) ([]domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Project, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (r *ProjectRepository) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	p, ok := r.items[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *ProjectRepository) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project.ID = primitive.NewObjectID()
	now := r.now()
	project.CreatedAt = now
	project.UpdatedAt = now
	r.items[project.ID] = *project
	return nil
}

func (r *ProjectRepository) Update(_ context.Context, id string, patch domain.ProjectPatch, file *domain.FileRef) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	p, ok := r.items[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	apply(&p.ProjectTitle, patch.ProjectTitle)
	apply(&p.StudentName, patch.StudentName)
	apply(&p.RollNo, patch.RollNo)
	apply(&p.Department, patch.Department)
	apply(&p.Year, patch.Year)
	apply(&p.Description, patch.Description)
	if file != nil {
		p.FileRef = *file
	}
	p.UpdatedAt = advance(r.now, p.UpdatedAt)
	r.items[oid] = p
	return &p, nil
}

func (r *ProjectRepository) Delete(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	p, ok := r.items[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.items, oid)
	return &p, nil
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// newer orders by creation time descending, ties broken by id descending.
func newer(at time.Time, id primitive.ObjectID, bt time.Time, bid primitive.ObjectID) bool {
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return id.Hex() > bid.Hex()
}
