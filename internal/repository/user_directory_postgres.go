package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homeservices/internal/domain"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

const uniqueViolation = "23505"

type postgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory returns a Postgres-backed implementation.
func NewPostgresDirectory(pool *pgxpool.Pool) UserDirectory {
	return &postgresDirectory{pool: pool}
}

func (r *postgresDirectory) Create(ctx context.Context, account Account) error {
	const query = `
        INSERT INTO accounts (id, email, name, phone, role, profile, password_hash, created_at, updated_at)
        VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, $8, $9)`

	u := account.User
	profile, err := encodeProfile(u)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		u.ID,
		u.Email,
		u.Name,
		u.Phone,
		string(u.Role()),
		profile,
		account.PasswordHash,
		u.CreatedAt,
		u.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return emailTaken(u.Email)
	}
	return err
}

func (r *postgresDirectory) GetByEmail(ctx context.Context, email string) (Account, error) {
	const query = `
        SELECT id, email, name, phone, role, profile, password_hash, created_at, updated_at
        FROM accounts WHERE email = LOWER($1)`

	return r.scan(r.pool.QueryRow(ctx, query, normalizeEmail(email)))
}

func (r *postgresDirectory) GetByID(ctx context.Context, id string) (Account, error) {
	const query = `
        SELECT id, email, name, phone, role, profile, password_hash, created_at, updated_at
        FROM accounts WHERE id = $1`

	return r.scan(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresDirectory) scan(row pgx.Row) (Account, error) {
	var (
		account Account
		role    string
		profile []byte
	)
	u := &account.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Phone,
		&role,
		&profile,
		&account.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, apperrors.NewNotFound("account", nil)
		}
		return Account{}, err
	}

	p, err := decodeProfile(domain.UserRole(role), profile)
	if err != nil {
		return Account{}, err
	}
	u.Profile = p
	return account, nil
}
