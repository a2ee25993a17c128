package store

import (
	"context"
	"errors"

	"github.com/hayattan/media-gateway/internal/auth"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// UsersPostgresStore verifies editorial accounts against the users table.
type UsersPostgresStore struct {
	pool *pgxpool.Pool
}

// NewUsersPostgresStore creates a new PostgreSQL-backed user directory.
func NewUsersPostgresStore(pool *pgxpool.Pool) *UsersPostgresStore {
	return &UsersPostgresStore{pool: pool}
}

// Verify checks email and password against the stored bcrypt hash.
// An unknown email and a wrong password both resolve to
// auth.ErrInvalidCredentials, so the response does not reveal which.
func (p *UsersPostgresStore) Verify(ctx context.Context, email, password string) (*auth.User, error) {
	query := `
		SELECT id, email, role, password_hash
		FROM users
		WHERE email = $1
	`

	var (
		user auth.User
		hash string
	)

	err := p.pool.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &user.Role, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	return &user, nil
}
