package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SQLiteDocuments {
	t.Helper()
	docs, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "data", "scenetic.db"))
	require.NoError(t, err)
	t.Cleanup(func() { docs.Close() })
	return docs
}

func TestAddAndListMatchesNewestFirst(t *testing.T) {
	docs := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 4, 24, 9, 22, 0, 0, time.UTC)

	older, err := docs.AddMatch(ctx, Match{ItemName: "neon alley", Monitor: 2, Confidence: 75, UserTags: []string{"night", "rain"}, CreatedAt: base})
	require.NoError(t, err)
	newer, err := docs.AddMatch(ctx, Match{ItemName: "misty ruins", Monitor: 1, Confidence: 91, UserTags: []string{"forest"}, CreatedAt: base.Add(72 * time.Hour)})
	require.NoError(t, err)
	assert.NotEmpty(t, older.ID)
	assert.NotEqual(t, older.ID, newer.ID)

	matches, err := docs.ListMatches(ctx, 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, newer.ID, matches[0].ID)
	assert.Equal(t, []string{"forest"}, matches[0].UserTags)
	assert.Equal(t, 91, matches[0].Confidence)
	assert.True(t, matches[1].CreatedAt.Equal(base))

	limited, err := docs.ListMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, newer.ID, limited[0].ID)
}

func TestAddMatchNilTagsStoredEmpty(t *testing.T) {
	docs := openTestDB(t)
	_, err := docs.AddMatch(context.Background(), Match{ItemName: "x"})
	require.NoError(t, err)

	matches, err := docs.ListMatches(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{}, matches[0].UserTags)
	assert.False(t, matches[0].CreatedAt.IsZero())
}

func TestListMatchesReportsCorruptTags(t *testing.T) {
	docs := openTestDB(t)
	ctx := context.Background()
	m, err := docs.AddMatch(ctx, Match{ItemName: "x", UserTags: []string{"fog"}})
	require.NoError(t, err)
	_, err = docs.db.ExecContext(ctx, `UPDATE matches SET user_tags = ? WHERE id = ?`, `["fog"`, m.ID)
	require.NoError(t, err)

	_, err = docs.ListMatches(ctx, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode tags of match "+m.ID)
}

func TestDeleteMatch(t *testing.T) {
	docs := openTestDB(t)
	ctx := context.Background()
	m, err := docs.AddMatch(ctx, Match{ItemName: "x"})
	require.NoError(t, err)

	require.NoError(t, docs.DeleteMatch(ctx, m.ID))
	assert.ErrorIs(t, docs.DeleteMatch(ctx, m.ID), ErrNotFound)

	matches, err := docs.ListMatches(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestProfileUpsert(t *testing.T) {
	docs := openTestDB(t)
	ctx := context.Background()

	_, err := docs.GetProfile(ctx, "uid-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, docs.PutProfile(ctx, Profile{UID: "uid-1", FirstName: "Ada", Email: "ada@example.com"}))
	require.NoError(t, docs.PutProfile(ctx, Profile{UID: "uid-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}))

	p, err := docs.GetProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", p.LastName)
	assert.False(t, p.UpdatedAt.IsZero())

	assert.Error(t, docs.PutProfile(ctx, Profile{}))
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenetic.db")
	ctx := context.Background()
	docs, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	_, err = docs.AddMatch(ctx, Match{ItemName: "kept"})
	require.NoError(t, err)
	require.NoError(t, docs.Close())

	docs, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer docs.Close()
	matches, err := docs.ListMatches(ctx, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "kept", matches[0].ItemName)
}
