package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamelib/lrucache/catalog"
)

func TestGames_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewGames()

	g, err := s.Create(ctx, catalog.Game{Title: "A", Reviews: []catalog.Review{{Rating: 3}}})
	require.NoError(t, err)
	assert.Equal(t, g.ID, g.Reviews[0].GameID)

	g.Reviews[0].Rating = 1
	stored, ok, err := s.FindByID(ctx, g.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, stored.Reviews[0].Rating)
}

func TestGames_RatingQueries(t *testing.T) {
	ctx := context.Background()
	s := NewGames()
	for _, ratings := range [][]int{{5}, {1, 2}, {3, 4}, nil} {
		var rs []catalog.Review
		for _, r := range ratings {
			rs = append(rs, catalog.Review{Rating: r})
		}
		_, err := s.Create(ctx, catalog.Game{Reviews: rs})
		require.NoError(t, err)
	}

	games, err := s.FindByMinimumRating(ctx, 3)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, int64(1), games[0].ID)
	assert.Equal(t, int64(3), games[1].ID)

	games, err = s.FindByRatingRange(ctx, 1, 4)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, int64(2), games[0].ID)

	assert.Equal(t, int64(2), s.Queries())
}

func TestGames_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := NewGames()

	_, err := s.Update(ctx, catalog.Game{ID: 9})
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	g, err := s.Create(ctx, catalog.Game{Title: "A"})
	require.NoError(t, err)
	exists, err := s.ExistsByTitle(ctx, "A")
	require.NoError(t, err)
	assert.True(t, exists)

	deleted, err := s.Delete(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = s.Delete(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCompanies_FindByNames(t *testing.T) {
	ctx := context.Background()
	s := NewCompanies()

	_, err := s.Create(ctx, catalog.Company{Name: "A"}, catalog.Company{Name: "B"}, catalog.Company{Name: "C"})
	require.NoError(t, err)

	found, err := s.FindByNames(ctx, []string{"C", "A", "Z"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "A", found[0].Name)
	assert.Equal(t, "C", found[1].Name)

	exists, err := s.ExistsByName(ctx, "B")
	require.NoError(t, err)
	assert.True(t, exists)
}
