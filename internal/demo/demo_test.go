package demo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/gridpager/internal/source"
)

func newTestRepository(t *testing.T, n int) Repository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "demo.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, Close(db)) })

	repo := NewRepository(db)
	require.NoError(t, repo.Seed(context.Background(), n))
	return repo
}

func TestSeed(t *testing.T) {
	repo := newTestRepository(t, 50)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(50), count)

	// Reseeding replaces the set.
	require.NoError(t, repo.Seed(context.Background(), 10))
	count, err = repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), count)

	require.NoError(t, repo.Seed(context.Background(), 0))
	count, err = repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestList(t *testing.T) {
	repo := newTestRepository(t, 50)
	ctx := context.Background()

	tests := []struct {
		name      string
		offset    int
		limit     int
		filter    Filter
		wantIDs   []uint
		wantTotal int64
	}{
		{name: "first page", offset: 0, limit: 3, wantIDs: []uint{1, 2, 3}, wantTotal: 50},
		{name: "page five of eight", offset: 32, limit: 2, wantIDs: []uint{33, 34}, wantTotal: 50},
		{name: "short last page", offset: 48, limit: 8, wantIDs: []uint{49, 50}, wantTotal: 50},
		{name: "past the end", offset: 100, limit: 8, wantIDs: []uint{}, wantTotal: 50},
		{name: "filtered", offset: 0, limit: 3, filter: Filter{Category: "games"}, wantIDs: []uint{2, 6, 10}, wantTotal: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.List(ctx, tt.offset, tt.limit, tt.filter)
			require.NoError(t, err)

			ids := []uint{}
			for _, it := range items {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestList_InvalidWindow(t *testing.T) {
	repo := newTestRepository(t, 5)

	_, _, err := repo.List(context.Background(), -1, 5, Filter{})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, _, err = repo.List(context.Background(), 0, 0, Filter{})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestNewSource(t *testing.T) {
	repo := newTestRepository(t, 20)
	src := NewSource(repo, Filter{})

	page, err := src.FetchPage(context.Background(), source.PageRequest{Page: 2, PageSize: 8})
	require.NoError(t, err)
	assert.Equal(t, 20, page.Total)
	require.Len(t, page.Records, 8)
	assert.Equal(t, uint(9), page.Records[0].ID)
	assert.Equal(t, "Item 009", page.Records[0].Name)

	_, err = src.FetchPage(context.Background(), source.PageRequest{Page: 0, PageSize: 8})
	assert.ErrorIs(t, err, source.ErrInvalidPage)
}

func TestNewRecordSource(t *testing.T) {
	repo := newTestRepository(t, 6)
	src := NewRecordSource(repo, Filter{Category: "books"})

	page, err := src.FetchPage(context.Background(), source.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "Item 001", page.Records[0]["name"])
	assert.Equal(t, "books", page.Records[1]["category"])
}
