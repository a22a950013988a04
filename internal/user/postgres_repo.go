package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

func (r *PostgresRepo) Create(ctx context.Context, user *User) error {
	const query = `
	INSERT INTO users (id, email, username, password_hash)
	VALUES (gen_random_uuid(), $1, $2, $3)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, user.Email, user.Username, user.Password).Scan(&user.ID, &user.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}

func (r *PostgresRepo) get(ctx context.Context, where string, arg any) (User, error) {
	query := `
	SELECT id, email, username, password_hash, created_at
	FROM users
	WHERE ` + where + ` = $1
	LIMIT 1
	`
	var user User
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, arg).Scan(
		&user.ID, &user.Email, &user.Username, &user.Password, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.get(ctx, "email", email)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	return r.get(ctx, "id", id)
}

func (r *PostgresRepo) ListCapabilities(ctx context.Context, userID string) ([]string, error) {
	const query = `
	SELECT codename FROM user_permissions
	WHERE user_id = $1
	ORDER BY codename
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *PostgresRepo) GrantCapability(ctx context.Context, userID, codename string) error {
	const query = `
	INSERT INTO user_permissions (user_id, codename)
	VALUES ($1, $2)
	ON CONFLICT (user_id, codename) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, userID, codename)
	return err
}
