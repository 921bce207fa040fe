package interactions

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	on, err := s.ToggleLike(ctx, "a")
	require.NoError(t, err)
	assert.True(t, on)

	liked, err := s.Liked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, liked)

	on, err = s.ToggleLike(ctx, "a")
	require.NoError(t, err)
	assert.False(t, on)

	liked, err = s.Liked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestLikesAndBookmarksAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	_, err := s.ToggleLike(ctx, "a")
	require.NoError(t, err)
	_, err = s.ToggleBookmark(ctx, "a")
	require.NoError(t, err)
	_, err = s.ToggleBookmark(ctx, "b")
	require.NoError(t, err)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Likes: 1, Bookmarks: 2}, counts)

	state, err := s.State(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]State{
		"a": {Liked: true, Bookmarked: true},
		"b": {Bookmarked: true},
	}, state)

	bookmarked, err := s.Bookmarked(ctx, "c")
	require.NoError(t, err)
	assert.False(t, bookmarked)
}

func TestStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "climg.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.ToggleBookmark(ctx, "keep")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	ok, err := s.Bookmarked(ctx, "keep")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.ToggleLike(ctx, "a")
	require.ErrorIs(t, err, ErrClosed)
	_, err = s.Liked(ctx, "a")
	require.ErrorIs(t, err, ErrClosed)
	_, err = s.Counts(ctx)
	require.ErrorIs(t, err, ErrClosed)
	_, err = s.State(ctx, nil)
	require.ErrorIs(t, err, ErrClosed)
}
