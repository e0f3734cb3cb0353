//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"trendforge/internal/db"
	"trendforge/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := db.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}

func TestPostRepository(t *testing.T) {
	conn := setupDB(t)
	repo := NewPostRepository(conn)
	ctx := context.Background()

	score := 8.5
	post := &models.SavedPost{Content: "hello", Hashtags: models.StringList{"#a"}, ViralScore: &score}
	require.NoError(t, repo.Create(ctx, "alice", post))
	require.NotEmpty(t, post.ID)

	got, err := repo.GetByID(ctx, "alice", post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, models.StringList{"#a"}, got.Hashtags)
	require.NotNil(t, got.ViralScore)
	assert.InDelta(t, 8.5, *got.ViralScore, 0.001)

	t.Run("other owner cannot see or touch it", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "bob", post.ID)
		assert.True(t, errors.Is(err, ErrNotFound))

		content := "hijacked"
		assert.ErrorIs(t, repo.Update(ctx, "bob", post.ID, models.PostPatch{Content: &content}), ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "bob", post.ID), ErrNotFound)
	})

	t.Run("partial update keeps other columns", func(t *testing.T) {
		comment := "first!"
		require.NoError(t, repo.Update(ctx, "alice", post.ID, models.PostPatch{FirstComment: &comment}))
		got, err := repo.GetByID(ctx, "alice", post.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello", got.Content)
		assert.Equal(t, "first!", got.FirstComment)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "alice", post.ID))
		_, err := repo.GetByID(ctx, "alice", post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestIdeaRepositoryPagination(t *testing.T) {
	conn := setupDB(t)
	repo := NewIdeaRepository(conn)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		idea := &models.SavedIdea{Title: string(rune('a' + i)), ViralPotential: 5, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, "alice", idea))
	}
	require.NoError(t, repo.Create(ctx, "bob", &models.SavedIdea{Title: "bob's", ViralPotential: 5}))

	first, err := repo.ListByOwner(ctx, "alice", 2, "")
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "e", first.Items[0].Title)
	assert.Equal(t, "d", first.Items[1].Title)
	assert.True(t, first.HasMore)

	second, err := repo.ListByOwner(ctx, "alice", 2, first.NextCursor)
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Equal(t, "c", second.Items[0].Title)

	third, err := repo.ListByOwner(ctx, "alice", 2, second.NextCursor)
	require.NoError(t, err)
	require.Len(t, third.Items, 1)
	assert.Equal(t, "a", third.Items[0].Title)
	assert.False(t, third.HasMore)
	assert.Empty(t, third.NextCursor)

	_, err = repo.ListByOwner(ctx, "alice", 2, "%%%")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestUserRepositoryUpsert(t *testing.T) {
	conn := setupDB(t)
	repo := NewUserRepository(conn)
	ctx := context.Background()

	created, err := repo.UpsertGoogleUser(ctx, models.User{GoogleID: "g-1", Email: "a@example.com", Name: "A"})
	require.NoError(t, err)

	updated, err := repo.UpsertGoogleUser(ctx, models.User{GoogleID: "g-1", Email: "a@example.com", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
