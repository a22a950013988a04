package author

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"locallibrary/internal/catalog"
)

var dialect = goqu.Dialect("postgres")

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanAuthor(row pgx.Row, a *catalog.Author) error {
	return row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.DateOfBirth, &a.DateOfDeath)
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]catalog.Author, int, error) {
	base := dialect.From("authors")

	countSQL, countArgs, err := base.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build author count: %w", err)
	}
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL, args, err := base.
		Select("id", "first_name", "last_name", "date_of_birth", "date_of_death").
		Order(goqu.I("last_name").Asc(), goqu.I("first_name").Asc(), goqu.I("id").Asc()).
		Limit(uint(q.Limit)).
		Offset(uint(q.Offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build author list: %w", err)
	}

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []catalog.Author
	for rows.Next() {
		var a catalog.Author
		if err := scanAuthor(rows, &a); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (catalog.Author, error) {
	const query = `
		SELECT id, first_name, last_name, date_of_birth, date_of_death
		FROM authors
		WHERE id = $1`

	var a catalog.Author
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := scanAuthor(r.db.QueryRow(timeoutCtx, query, id), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Author{}, ErrNotFound
		}
		return catalog.Author{}, err
	}
	return a, nil
}

func (r *PostgresRepo) ListBooks(ctx context.Context, authorID int64) ([]catalog.Book, error) {
	const booksSQL = `
		SELECT id, title, summary, isbn
		FROM books
		WHERE author_id = $1
		ORDER BY title`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, booksSQL, authorID)
	if err != nil {
		return nil, err
	}
	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Book, error) {
		b := catalog.Book{AuthorID: &authorID}
		err := row.Scan(&b.ID, &b.Title, &b.Summary, &b.ISBN)
		return b, err
	})
	if err != nil || len(books) == 0 {
		return books, err
	}

	ids := make([]int64, len(books))
	index := make(map[int64]int, len(books))
	for i, b := range books {
		ids[i] = b.ID
		index[b.ID] = i
	}

	const genresSQL = `
		SELECT bg.book_id, g.id, g.name
		FROM book_genres bg
		JOIN genres g ON g.id = bg.genre_id
		WHERE bg.book_id = ANY($1)
		ORDER BY bg.book_id, bg.position`

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	genreRows, err := r.db.Query(timeoutCtx2, genresSQL, ids)
	if err != nil {
		return nil, err
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var bookID int64
		var g catalog.Genre
		if err := genreRows.Scan(&bookID, &g.ID, &g.Name); err != nil {
			return nil, err
		}
		i := index[bookID]
		books[i].Genres = append(books[i].Genres, g)
	}
	return books, genreRows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, a *catalog.Author) error {
	const query = `
		INSERT INTO authors (first_name, last_name, date_of_birth, date_of_death)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, a.FirstName, a.LastName, a.DateOfBirth, a.DateOfDeath).Scan(&a.ID)
}

func (r *PostgresRepo) Update(ctx context.Context, a *catalog.Author) error {
	const query = `
		UPDATE authors
		SET first_name = $2, last_name = $3, date_of_birth = $4, date_of_death = $5
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, a.ID, a.FirstName, a.LastName, a.DateOfBirth, a.DateOfDeath)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
