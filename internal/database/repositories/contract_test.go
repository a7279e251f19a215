package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sixia/internal/apperr"
	"sixia/internal/database/models"
)

// repoFixture bundles one implementation of every repository.
type repoFixture struct {
	users UserRepository
	notes NoteRepository
	prefs PreferencesRepository
}

func newOwner(t *testing.T, users UserRepository) uuid.UUID {
	t.Helper()
	user := &models.User{
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Name:     "Owner",
		Password: "hash",
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user.ID
}

func runRepositoryContract(t *testing.T, fx repoFixture) {
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		user := &models.User{Email: "Case@Example.com", Name: "Ada", Password: "hash"}
		require.NoError(t, fx.users.Create(ctx, user))
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.False(t, user.CreatedAt.IsZero())

		err := fx.users.Create(ctx, &models.User{Email: "Case@Example.com", Name: "Other", Password: "x"})
		assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)

		got, err := fx.users.GetByEmail(ctx, "Case@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Name)
		assert.Equal(t, "hash", got.Password)

		byID, err := fx.users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)

		_, err = fx.users.GetByEmail(ctx, "case@example.com")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		_, err = fx.users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("note round trip", func(t *testing.T) {
		owner := newOwner(t, fx.users)
		blocks := models.Blocks{
			models.TextBlock("hello"),
			{Type: models.BlockImage, Src: "data:image/png;base64,AAAA", FileKey: "k/1"},
			models.TextBlock(""),
		}

		created, err := fx.notes.Create(ctx, owner, blocks)
		require.NoError(t, err)
		assert.Equal(t, owner, created.UserID)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		got, err := fx.notes.GetOwned(ctx, created.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, blocks, got.Content)
	})

	t.Run("ownership", func(t *testing.T) {
		owner := newOwner(t, fx.users)
		stranger := newOwner(t, fx.users)
		note, err := fx.notes.Create(ctx, owner, models.Blocks{models.TextBlock("mine")})
		require.NoError(t, err)

		_, err = fx.notes.GetOwned(ctx, note.ID, stranger)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		_, err = fx.notes.UpdateContent(ctx, note.ID, stranger, models.Blocks{models.TextBlock("theirs")})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.ErrorIs(t, fx.notes.Delete(ctx, note.ID, stranger), apperr.ErrNotFound)

		got, err := fx.notes.GetOwned(ctx, note.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, models.Blocks{models.TextBlock("mine")}, got.Content)

		list, err := fx.notes.ListOwned(ctx, stranger)
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.NotNil(t, list)
	})

	t.Run("update replaces content", func(t *testing.T) {
		owner := newOwner(t, fx.users)
		note, err := fx.notes.Create(ctx, owner, models.Blocks{models.TextBlock("v1"), models.ImageBlock("img")})
		require.NoError(t, err)

		updated, err := fx.notes.UpdateContent(ctx, note.ID, owner, models.Blocks{models.TextBlock("v2")})
		require.NoError(t, err)
		assert.Equal(t, models.Blocks{models.TextBlock("v2")}, updated.Content)
		assert.True(t, updated.CreatedAt.Equal(note.CreatedAt))
		assert.True(t, updated.UpdatedAt.After(note.UpdatedAt))
	})

	t.Run("delete is permanent", func(t *testing.T) {
		owner := newOwner(t, fx.users)
		note, err := fx.notes.Create(ctx, owner, models.Blocks{models.TextBlock("bye")})
		require.NoError(t, err)

		require.NoError(t, fx.notes.Delete(ctx, note.ID, owner))
		_, err = fx.notes.GetOwned(ctx, note.ID, owner)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.ErrorIs(t, fx.notes.Delete(ctx, note.ID, owner), apperr.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		owner := newOwner(t, fx.users)
		var ids []uuid.UUID
		for i := 0; i < 5; i++ {
			note, err := fx.notes.Create(ctx, owner, models.Blocks{models.TextBlock(fmt.Sprintf("note %d", i))})
			require.NoError(t, err)
			ids = append(ids, note.ID)
		}

		list, err := fx.notes.ListOwned(ctx, owner)
		require.NoError(t, err)
		require.Len(t, list, 5)
		for i, note := range list {
			assert.Equal(t, ids[len(ids)-1-i], note.ID)
			if i > 0 {
				assert.True(t, list[i-1].CreatedAt.After(note.CreatedAt))
			}
		}
	})

	t.Run("search", func(t *testing.T) {
		owner := newOwner(t, fx.users)
		stranger := newOwner(t, fx.users)
		walk, err := fx.notes.Create(ctx, owner, models.Blocks{models.ImageBlock("x"), models.TextBlock("Morning WALK by the river")})
		require.NoError(t, err)
		_, err = fx.notes.Create(ctx, owner, models.Blocks{models.TextBlock("groceries"), models.ImageBlock("walk.png")})
		require.NoError(t, err)
		percent, err := fx.notes.Create(ctx, owner, models.Blocks{models.TextBlock("100% done")})
		require.NoError(t, err)
		_, err = fx.notes.Create(ctx, stranger, models.Blocks{models.TextBlock("walk")})
		require.NoError(t, err)

		found, err := fx.notes.Search(ctx, owner, "walk")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, walk.ID, found[0].ID)

		found, err = fx.notes.Search(ctx, owner, "0%")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, percent.ID, found[0].ID)

		found, err = fx.notes.Search(ctx, owner, "zebra")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("preferences", func(t *testing.T) {
		owner := newOwner(t, fx.users)

		prefs, err := fx.prefs.Get(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, models.ThemeDefault, prefs.Theme)
		assert.Equal(t, models.LayoutList, prefs.Layout)

		prefs.Theme = models.ThemeDark
		prefs.Layout = models.LayoutMasonry
		require.NoError(t, fx.prefs.Put(ctx, prefs))
		assert.False(t, prefs.UpdatedAt.IsZero())

		prefs.Theme = models.ThemeWarm
		require.NoError(t, fx.prefs.Put(ctx, prefs))

		got, err := fx.prefs.Get(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, models.ThemeWarm, got.Theme)
		assert.Equal(t, models.LayoutMasonry, got.Layout)
	})
}
