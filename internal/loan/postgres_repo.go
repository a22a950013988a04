package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
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

var instanceColumns = []any{
	goqu.I("bi.id"),
	goqu.I("bi.book_id"),
	goqu.I("b.title"),
	goqu.I("bi.imprint"),
	goqu.I("bi.due_back"),
	goqu.I("bi.status"),
	goqu.I("bi.borrower_id"),
}

func (r *PostgresRepo) baseQuery() *goqu.SelectDataset {
	return dialect.
		From(goqu.T("book_instances").As("bi")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("bi.book_id"))))
}

func scanInstance(row pgx.Row) (catalog.BookInstance, error) {
	var (
		bi     catalog.BookInstance
		title  string
		status string
	)
	if err := row.Scan(&bi.ID, &bi.BookID, &title, &bi.Imprint, &bi.DueBack, &status, &bi.BorrowerID); err != nil {
		return catalog.BookInstance{}, err
	}
	bi.Status = catalog.Status(status)
	bi.Book = &catalog.Book{ID: bi.BookID, Title: title}
	return bi, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id uuid.UUID) (catalog.BookInstance, error) {
	query, args, err := r.baseQuery().
		Select(instanceColumns...).
		Where(goqu.I("bi.id").Eq(id.String())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return catalog.BookInstance{}, fmt.Errorf("build instance lookup: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	bi, err := scanInstance(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.BookInstance{}, ErrNotFound
		}
		return catalog.BookInstance{}, err
	}
	return bi, nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]catalog.BookInstance, int, error) {
	ds := r.baseQuery()
	if q.BookID != nil {
		ds = ds.Where(goqu.I("bi.book_id").Eq(*q.BookID))
	}
	if q.Status != nil {
		ds = ds.Where(goqu.I("bi.status").Eq(string(*q.Status)))
	}
	if q.DueBack != nil {
		ds = ds.Where(goqu.I("bi.due_back").Eq(catalog.FormatDate(*q.DueBack)))
	}
	if q.BorrowerID != nil {
		ds = ds.Where(goqu.I("bi.borrower_id").Eq(*q.BorrowerID))
	}

	countSQL, countArgs, err := ds.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build instance count: %w", err)
	}
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL, args, err := ds.
		Select(instanceColumns...).
		Order(goqu.I("bi.due_back").Asc().NullsLast(), goqu.I("bi.id").Asc()).
		Limit(uint(q.Limit)).
		Offset(uint(q.Offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build instance list: %w", err)
	}

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []catalog.BookInstance
	for rows.Next() {
		bi, err := scanInstance(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, bi)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) UpdateDueBack(ctx context.Context, id uuid.UUID, dueBack time.Time) error {
	const query = `UPDATE book_instances SET due_back = $2 WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, id.String(), catalog.DateOf(dueBack))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Create(ctx context.Context, bi *catalog.BookInstance) error {
	const query = `
		INSERT INTO book_instances (id, book_id, imprint, due_back, status, borrower_id)
		VALUES ($1, $2, $3, $4, $5, $6)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query,
		bi.ID.String(), bi.BookID, bi.Imprint, bi.DueBack, string(bi.Status), bi.BorrowerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrInvalidRef
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM book_instances WHERE id = $1`, id.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
