package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/devconnector/backend/internal/models"
)

const (
	pgUniqueViolation  = "23505"
	pgInvalidTextInput = "22P02"
)

// PostgresUserStore handles user CRUD against PostgreSQL.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

// Migrate creates the users table if it doesn't exist.
func (s *PostgresUserStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name       VARCHAR(100) NOT NULL,
			email      VARCHAR(255) UNIQUE NOT NULL,
			password   VARCHAR(255) NOT NULL,
			avatar     TEXT         NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ  DEFAULT NOW()
		)
	`)
	return err
}

func (s *PostgresUserStore) CreateUser(ctx context.Context, u *models.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password, avatar)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Name, u.Email, u.Password, u.Avatar,
	).Scan(&u.ID, &u.Date)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.queryOne(ctx,
		`SELECT id, name, email, password, avatar, created_at FROM users WHERE email = $1`, email)
}

func (s *PostgresUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.queryOne(ctx,
		`SELECT id, name, email, password, avatar, created_at FROM users WHERE id = $1`, id)
}

func (s *PostgresUserStore) queryOne(ctx context.Context, sql string, arg string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, sql, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Avatar, &u.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextInput {
			return nil, fmt.Errorf("%w: %s", ErrInvalidID, arg)
		}
		return nil, err
	}
	return &u, nil
}
