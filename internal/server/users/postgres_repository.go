package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/streamly/authd/internal/common"
	"github.com/streamly/authd/internal/dbx"
)

// pgUniqueViolation is the Postgres error code for a unique constraint breach.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {

	query :=
		`INSERT INTO users (id, email, password_hash, mfa_enabled, mfa_secret, email_verified)
         VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.MFAEnabled, user.MFASecret, user.EmailVerified).
		Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrEmailExists
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query :=
		`SELECT id, email, password_hash, mfa_enabled, COALESCE(mfa_secret, ''), email_verified, created_at
		 FROM users
		 WHERE email = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query :=
		`SELECT id, email, password_hash, mfa_enabled, COALESCE(mfa_secret, ''), email_verified, created_at
		 FROM users
		 WHERE id = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, user *User) error {
	query :=
		`UPDATE users
		 SET password_hash = $2, mfa_enabled = $3, mfa_secret = NULLIF($4, ''), email_verified = $5
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.PasswordHash, user.MFAEnabled, user.MFASecret, user.EmailVerified)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash,
		&user.MFAEnabled, &user.MFASecret, &user.EmailVerified, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}
