package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

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

// IsUniqueViolation reports whether err is a Postgres unique constraint error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *PostgresRepo) Stats(ctx context.Context, q StatsQuery) (Stats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM books),
			(SELECT COUNT(*) FROM book_instances),
			(SELECT COUNT(*) FROM book_instances WHERE status = $1),
			(SELECT COUNT(*) FROM authors),
			(SELECT COUNT(*) FROM genres WHERE name ILIKE '%' || $2 || '%'),
			(SELECT COUNT(*) FROM books WHERE title ILIKE '%' || $3 || '%')`

	var s Stats
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, string(StatusAvailable), q.GenreWord, q.TitleWord).Scan(
		&s.Books, &s.Instances, &s.InstancesAvailable, &s.Authors, &s.GenresWithWord, &s.BooksWithWord,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("catalog stats: %w", err)
	}
	return s, nil
}

func (r *PostgresRepo) ListGenres(ctx context.Context) ([]Genre, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Genre, error) {
		var g Genre
		err := row.Scan(&g.ID, &g.Name)
		return g, err
	})
}

func (r *PostgresRepo) CreateGenre(ctx context.Context, g *Genre) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, `INSERT INTO genres (name) VALUES ($1) RETURNING id`, g.Name).Scan(&g.ID)
	if IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepo) DeleteGenre(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "genres", id)
}

func (r *PostgresRepo) ListLanguages(ctx context.Context) ([]Language, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT id, name FROM languages ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Language, error) {
		var l Language
		err := row.Scan(&l.ID, &l.Name)
		return l, err
	})
}

func (r *PostgresRepo) CreateLanguage(ctx context.Context, l *Language) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, `INSERT INTO languages (name) VALUES ($1) RETURNING id`, l.Name).Scan(&l.ID)
	if IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepo) DeleteLanguage(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "languages", id)
}

// deleteByID removes one row; table is always a constant from this file.
func (r *PostgresRepo) deleteByID(ctx context.Context, table string, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
