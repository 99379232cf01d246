package repository

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"zaireen_import/internal/config/connections/postgres"
)

// AccessToken is one row of the access_tokens table. Tokens are stored as
// sha256 hex digests; the plain value never touches the database.
type AccessToken struct {
	ID        int64
	TokenHash string
	UserID    int64
	ExpiresAt *time.Time
}

type AccessTokenRepository struct {
	pg *postgres.Postgres
}

func NewAccessTokenRepository(pg *postgres.Postgres) *AccessTokenRepository {
	return &AccessTokenRepository{pg: pg}
}

// FindByPlainToken hashes the presented bearer token and looks it up,
// filtering out expired rows.
func (r *AccessTokenRepository) FindByPlainToken(ctx context.Context, plainToken string) (*AccessToken, error) {
	plainToken = strings.TrimSpace(plainToken)
	if plainToken == "" {
		return nil, errors.New("empty token")
	}

	sum := sha256.Sum256([]byte(plainToken))
	hash := fmt.Sprintf("%x", sum)

	const query = `
        SELECT id, token, user_id, expires_at
        FROM access_tokens
        WHERE token = $1
          AND (expires_at IS NULL OR expires_at > $2)
        ORDER BY created_at DESC
        LIMIT 1
    `

	var tok AccessToken
	err := r.pg.Pool.QueryRow(ctx, query, hash, time.Now()).Scan(
		&tok.ID,
		&tok.TokenHash,
		&tok.UserID,
		&tok.ExpiresAt,
	)
	if err != nil {
		return nil, errors.New("token not found")
	}
	return &tok, nil
}
