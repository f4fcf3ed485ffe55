package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository persists refresh sessions.
type TokenRepository struct {
	db *pgxpool.Pool
}

// CreateSession inserts a refresh session row.
func (r *TokenRepository) CreateSession(ctx context.Context, t *model.UserToken) (*model.UserToken, error) {
	const q = `
INSERT INTO user_tokens (user_token_id, user_id, refresh_token, device_info, is_revoked, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
`
	_, err := r.db.Exec(ctx, q, t.UserTokenID, t.UserID, t.RefreshToken, t.DeviceInfo, t.IsRevoked, t.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return t, nil
}

// GetSession returns a refresh session by id.
func (r *TokenRepository) GetSession(ctx context.Context, id string) (model.UserToken, error) {
	const q = `
SELECT user_token_id, user_id, refresh_token, device_info, is_revoked, expires_at, created_at
FROM user_tokens
WHERE user_token_id = $1
`
	var t model.UserToken
	row := r.db.QueryRow(ctx, q, id)
	if err := row.Scan(&t.UserTokenID, &t.UserID, &t.RefreshToken, &t.DeviceInfo, &t.IsRevoked, &t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserToken{}, fmt.Errorf("session not found: %w", err)
		}
		return model.UserToken{}, fmt.Errorf("scan session: %w", err)
	}
	return t, nil
}

// DeleteSession removes a refresh session (logout).
func (r *TokenRepository) DeleteSession(ctx context.Context, id string) error {
	const q = `DELETE FROM user_tokens WHERE user_token_id = $1`
	if _, err := r.db.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RevokeSession marks a refresh session revoked without deleting it.
func (r *TokenRepository) RevokeSession(ctx context.Context, id string) error {
	const q = `UPDATE user_tokens SET is_revoked = true WHERE user_token_id = $1`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("session not found")
	}
	return nil
}
