package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallibrary/internal/author"
	"locallibrary/internal/catalog"
	"locallibrary/internal/testutil"
)

func TestPostgresRepo_GenreOrderAndAuthorRemoval(t *testing.T) {
	pool := testutil.NewPool(t)
	ctx := context.Background()

	genres := catalog.NewPostgresRepo(pool, time.Second)
	var ids []int64
	for _, name := range []string{"Poetry", "Epic", "Classics", "Myth"} {
		g := &catalog.Genre{Name: name}
		require.NoError(t, genres.CreateGenre(ctx, g))
		ids = append(ids, g.ID)
	}

	authors := author.NewPostgresRepo(pool, time.Second)
	homer := &catalog.Author{FirstName: "Homer", LastName: "Unknown"}
	require.NoError(t, authors.Create(ctx, homer))

	repo := NewPostgresRepo(pool, time.Second)
	svc := NewService(repo)

	// Stored order follows the order given, not the ids.
	order := []int64{ids[2], ids[0], ids[3], ids[1]}
	id, err := repo.Create(ctx, Draft{
		Title:    "The Odyssey",
		AuthorID: &homer.ID,
		ISBN:     "9780140268867",
		GenreIDs: order,
	})
	require.NoError(t, err)

	detail, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, detail.Genres, 4)
	assert.Equal(t, "Classics", detail.Genres[0].Name)
	assert.Equal(t, "Classics, Poetry, Myth", detail.DisplayGenre)
	require.NotNil(t, detail.Author)
	assert.Equal(t, "Unknown, Homer", detail.Author.String())

	_, err = repo.Create(ctx, Draft{Title: "Copy", ISBN: "9780140268867"})
	assert.ErrorIs(t, err, ErrDuplicateISBN)

	missing := int64(9999)
	_, err = repo.Create(ctx, Draft{Title: "Orphan", ISBN: "9780000000002", AuthorID: &missing})
	assert.ErrorIs(t, err, ErrInvalidRef)

	// Wildcards in the filter match only themselves.
	found, total, err := repo.List(ctx, Query{Title: "_", Limit: 3})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, found)
	_, total, err = repo.List(ctx, Query{Title: "odys", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	require.NoError(t, authors.Delete(ctx, homer.ID))
	b, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, b.AuthorID)
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dune", "%dune%"},
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`back\slash`, `%back\\slash%`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, containsPattern(tt.in))
		})
	}
}
