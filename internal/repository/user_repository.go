package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandunudayakantha/TransitEquity/internal/domain"
)

// ErrDuplicateEmail is returned when an insert trips the unique email index.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

// UserRepository defines persistence access for user accounts. The store
// provides atomic per-record read and write semantics; the approval update
// is a single statement.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListPending(ctx context.Context) ([]*domain.User, error)
	Approve(ctx context.Context, id string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, is_approved, address, phone_number, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, name, email, password_hash, role, is_approved, address, phone_number)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsApproved,
		user.Address,
		user.PhoneNumber,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *userRepository) ListPending(ctx context.Context) ([]*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE is_approved = FALSE ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Approve flips is_approved in one statement; re-approving an already
// approved record is a no-op success.
func (r *userRepository) Approve(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        UPDATE users SET is_approved = TRUE, updated_at = NOW()
        WHERE id=$1
        RETURNING ` + userColumns
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsApproved,
		&user.Address,
		&user.PhoneNumber,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) scanAll(rows pgx.Rows) ([]*domain.User, error) {
	users := make([]*domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.IsApproved,
			&user.Address,
			&user.PhoneNumber,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
