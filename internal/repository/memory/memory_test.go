package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/portfolio-api/internal/domain"
	"alcyxob/portfolio-api/internal/repository"
)

// stepClock advances one second per call.
func stepClock() Clock {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestListByCategoryNewestFirst(t *testing.T) {
	repo := NewContentRepository(stepClock())
	ctx := context.Background()

	for _, c := range []struct{ title, category string }{
		{"a", "hobbies"}, {"b", "curriculum"}, {"c", "hobbies"}, {"d", "hobbies"},
	} {
		require.NoError(t, repo.Create(ctx, &domain.Content{Title: c.title, Category: c.category}))
	}

	hobbies, err := repo.ListByCategory(ctx, "hobbies")
	require.NoError(t, err)
	titles := []string{}
	for _, c := range hobbies {
		assert.Equal(t, "hobbies", c.Category)
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"d", "c", "a"}, titles)

	none, err := repo.ListByCategory(ctx, "travel")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListTiesAreStable(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewProjectRepository(func() time.Time { return fixed })
	ctx := context.Background()

	for range 5 {
		require.NoError(t, repo.Create(ctx, &domain.Project{ProjectTitle: "p"}))
	}

	first, err := repo.List(ctx)
	require.NoError(t, err)
	for range 3 {
		again, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	for i := 1; i < len(first); i++ {
		assert.Greater(t, first[i-1].ID.Hex(), first[i].ID.Hex())
	}
}

func TestUpdateKeepsOmittedFields(t *testing.T) {
	repo := NewContentRepository(stepClock())
	ctx := context.Background()

	c := &domain.Content{Title: "A", Description: "d", Category: "hobbies",
		FileRef: domain.FileRef{URL: "u", MimeType: "image/png", RemoteID: "r"}}
	require.NoError(t, repo.Create(ctx, c))

	desc := "new"
	updated, err := repo.Update(ctx, c.ID.Hex(), domain.ContentPatch{Description: &desc}, nil)
	require.NoError(t, err)

	assert.Equal(t, "A", updated.Title)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, c.FileRef, updated.FileRef)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt))
}

func TestUnknownAndMalformedIDs(t *testing.T) {
	repo := NewProjectRepository(nil)
	ctx := context.Background()

	for _, id := range []string{"zzz", "507f1f77bcf86cd799439011"} {
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = repo.Update(ctx, id, domain.ProjectPatch{}, nil)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = repo.Delete(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}
}

func TestUpdateAdvancesUpdatedAtOnFrozenClock(t *testing.T) {
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return frozen }
	ctx := context.Background()

	contents := NewContentRepository(clock)
	c := &domain.Content{Title: "A", Description: "d", Category: "hobbies",
		FileRef: domain.FileRef{URL: "u", MimeType: "image/png", RemoteID: "r"}}
	require.NoError(t, contents.Create(ctx, c))

	first, err := contents.Update(ctx, c.ID.Hex(), domain.ContentPatch{}, nil)
	require.NoError(t, err)
	second, err := contents.Update(ctx, c.ID.Hex(), domain.ContentPatch{}, nil)
	require.NoError(t, err)
	assert.True(t, first.UpdatedAt.After(c.UpdatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, frozen, second.CreatedAt)

	projects := NewProjectRepository(clock)
	p := &domain.Project{ProjectTitle: "Robot",
		FileRef: domain.FileRef{URL: "u", MimeType: "application/pdf", RemoteID: "r"}}
	require.NoError(t, projects.Create(ctx, p))
	updated, err := projects.Update(ctx, p.ID.Hex(), domain.ProjectPatch{}, nil)
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
}
