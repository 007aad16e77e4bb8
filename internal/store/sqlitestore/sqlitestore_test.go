package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/wt/internal/store"
)

func TestMemoryDatabase(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, err = s.Get(ctx, "@todos")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "@todos", []byte("one")))
	require.NoError(t, s.Set(ctx, "@todos", []byte("two")))

	got, err := s.Get(ctx, "@todos")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}

func TestFileDatabaseSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "wt.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "@todos", []byte(`{"version":1,"todos":{}}`)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "@todos")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"todos":{}}`, string(got))
}
