package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec, err := s.Save(ctx, "weekly", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	loaded, err := s.Load(ctx, "weekly")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, loaded.ID)
	assert.Equal(t, []byte(`{"a":1}`), loaded.Payload)
}

func TestStore_SaveUpsertsByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "doc", []byte("v1"))
	require.NoError(t, err)
	second, err := s.Save(ctx, "doc", []byte("v2"))
	require.NoError(t, err)

	// Same record, new payload.
	assert.Equal(t, first.ID, second.ID)
	assert.WithinDuration(t, first.CreatedAt, second.CreatedAt, time.Second)

	loaded, err := s.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), loaded.Payload)

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_LoadMissingName(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(context.Background(), "absent")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStore_ListOrdersByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "zeta", []byte("z"))
	require.NoError(t, err)
	_, err = s.Save(ctx, "alpha", []byte("a"))
	require.NoError(t, err)

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alpha", records[0].Name)
	assert.Equal(t, "zeta", records[1].Name)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "doc", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "doc"))

	_, err = s.Load(ctx, "doc")
	require.ErrorIs(t, err, sql.ErrNoRows)
}
