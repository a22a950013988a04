package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

var bookColumns = []any{
	goqu.I("b.id"),
	goqu.I("b.title"),
	goqu.I("b.summary"),
	goqu.I("b.isbn"),
	goqu.I("b.author_id"),
	goqu.I("a.first_name"),
	goqu.I("a.last_name"),
	goqu.I("a.date_of_birth"),
	goqu.I("a.date_of_death"),
	goqu.I("b.language_id"),
	goqu.I("l.name"),
}

func (r *PostgresRepo) baseQuery() *goqu.SelectDataset {
	return dialect.
		From(goqu.T("books").As("b")).
		LeftJoin(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		LeftJoin(goqu.T("languages").As("l"), goqu.On(goqu.I("l.id").Eq(goqu.I("b.language_id"))))
}

func scanBook(row pgx.Row) (catalog.Book, error) {
	var (
		b                   catalog.Book
		firstName, lastName *string
		born, died          *time.Time
		language            *string
	)
	err := row.Scan(&b.ID, &b.Title, &b.Summary, &b.ISBN,
		&b.AuthorID, &firstName, &lastName, &born, &died,
		&b.LanguageID, &language)
	if err != nil {
		return catalog.Book{}, err
	}
	if b.AuthorID != nil {
		b.Author = &catalog.Author{
			ID:          *b.AuthorID,
			FirstName:   deref(firstName),
			LastName:    deref(lastName),
			DateOfBirth: born,
			DateOfDeath: died,
		}
	}
	if b.LanguageID != nil {
		b.Language = &catalog.Language{ID: *b.LanguageID, Name: deref(language)}
	}
	return b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]catalog.Book, int, error) {
	ds := r.baseQuery()
	if q.Title != "" {
		ds = ds.Where(goqu.I("b.title").ILike(containsPattern(q.Title)))
	}

	countSQL, countArgs, err := ds.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build book count: %w", err)
	}
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL, args, err := ds.
		Select(bookColumns...).
		Order(goqu.I("b.title").Asc(), goqu.I("b.id").Asc()).
		Limit(uint(q.Limit)).
		Offset(uint(q.Offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build book list: %w", err)
	}

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Book, error) {
		return scanBook(row)
	})
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachGenres(ctx, books); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (catalog.Book, error) {
	query, args, err := r.baseQuery().
		Select(bookColumns...).
		Where(goqu.I("b.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return catalog.Book{}, fmt.Errorf("build book lookup: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Book{}, ErrNotFound
		}
		return catalog.Book{}, err
	}

	books := []catalog.Book{b}
	if err := r.attachGenres(ctx, books); err != nil {
		return catalog.Book{}, err
	}
	return books[0], nil
}

// attachGenres fills Genres for every book in stored position order.
func (r *PostgresRepo) attachGenres(ctx context.Context, books []catalog.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]int64, len(books))
	index := make(map[int64]int, len(books))
	for i, b := range books {
		ids[i] = b.ID
		index[b.ID] = i
		books[i].Genres = []catalog.Genre{}
	}

	const query = `
		SELECT bg.book_id, g.id, g.name
		FROM book_genres bg
		JOIN genres g ON g.id = bg.genre_id
		WHERE bg.book_id = ANY($1)
		ORDER BY bg.book_id, bg.position`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bookID int64
		var g catalog.Genre
		if err := rows.Scan(&bookID, &g.ID, &g.Name); err != nil {
			return err
		}
		i := index[bookID]
		books[i].Genres = append(books[i].Genres, g)
	}
	return rows.Err()
}

func (r *PostgresRepo) ListInstances(ctx context.Context, bookID int64) ([]catalog.BookInstance, error) {
	const query = `
		SELECT id, book_id, imprint, due_back, status, borrower_id
		FROM book_instances
		WHERE book_id = $1
		ORDER BY due_back NULLS LAST, id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, bookID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.BookInstance, error) {
		var bi catalog.BookInstance
		var status string
		err := row.Scan(&bi.ID, &bi.BookID, &bi.Imprint, &bi.DueBack, &status, &bi.BorrowerID)
		bi.Status = catalog.Status(status)
		return bi, err
	})
}

func (r *PostgresRepo) Create(ctx context.Context, d Draft) (int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(timeoutCtx)

	const insertSQL = `
		INSERT INTO books (title, author_id, summary, isbn, language_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err = tx.QueryRow(timeoutCtx, insertSQL, d.Title, d.AuthorID, d.Summary, d.ISBN, d.LanguageID).Scan(&id)
	if err != nil {
		return 0, mapWriteError(fmt.Errorf("insert book: %w", err))
	}
	if err := replaceGenres(timeoutCtx, tx, id, d.GenreIDs); err != nil {
		return 0, err
	}
	return id, tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, d Draft) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	const updateSQL = `
		UPDATE books
		SET title = $2, author_id = $3, summary = $4, isbn = $5, language_id = $6
		WHERE id = $1`

	tag, err := tx.Exec(timeoutCtx, updateSQL, id, d.Title, d.AuthorID, d.Summary, d.ISBN, d.LanguageID)
	if err != nil {
		return mapWriteError(fmt.Errorf("update book: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := replaceGenres(timeoutCtx, tx, id, d.GenreIDs); err != nil {
		return err
	}
	return tx.Commit(timeoutCtx)
}

func replaceGenres(ctx context.Context, tx pgx.Tx, bookID int64, genreIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM book_genres WHERE book_id = $1`, bookID); err != nil {
		return fmt.Errorf("clear genres: %w", err)
	}
	if len(genreIDs) == 0 {
		return nil
	}

	rows := make([][]any, len(genreIDs))
	for i, gid := range genreIDs {
		rows[i] = []any{bookID, gid, i}
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"book_genres"},
		[]string{"book_id", "genre_id", "position"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return mapWriteError(fmt.Errorf("link genres: %w", err))
	}
	return nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateISBN
		case "23503":
			return ErrInvalidRef
		}
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
