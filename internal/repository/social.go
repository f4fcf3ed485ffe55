package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SocialRepository manages invite codes, follow relationships, and follow
// requests.
type SocialRepository struct {
	db *pgxpool.Pool
}

// CreateInvite mints a new invite code for a user.
func (r *SocialRepository) CreateInvite(ctx context.Context, userID string) (model.Invite, error) {
	// short, shareable slice of a uuid
	code := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	const q = `
INSERT INTO invites (code, user_id, created_at)
VALUES ($1, $2, now())
RETURNING code, user_id, created_at
`
	var inv model.Invite
	row := r.db.QueryRow(ctx, q, code, userID)
	if err := row.Scan(&inv.Code, &inv.UserID, &inv.CreatedAt); err != nil {
		return model.Invite{}, fmt.Errorf("insert invite: %w", err)
	}
	return inv, nil
}

// GetInvite returns the invite for a code.
func (r *SocialRepository) GetInvite(ctx context.Context, code string) (model.Invite, error) {
	const q = `SELECT code, user_id, created_at FROM invites WHERE code = $1`
	var inv model.Invite
	row := r.db.QueryRow(ctx, q, strings.ToUpper(code))
	if err := row.Scan(&inv.Code, &inv.UserID, &inv.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Invite{}, fmt.Errorf("invite not found: %w", err)
		}
		return model.Invite{}, fmt.Errorf("scan invite: %w", err)
	}
	return inv, nil
}

// CreateFollow records follower → followee. Duplicate follows are rejected by
// the primary key.
func (r *SocialRepository) CreateFollow(ctx context.Context, followerID, followeeID string) error {
	const q = `
INSERT INTO follows (follower_id, followee_id, created_at)
VALUES ($1, $2, now())
`
	_, err := r.db.Exec(ctx, q, followerID, followeeID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("already following: %w", err)
		}
		return fmt.Errorf("insert follow: %w", err)
	}
	return nil
}

// DeleteFollow removes a follow edge.
func (r *SocialRepository) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	const q = `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`
	ct, err := r.db.Exec(ctx, q, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("follow not found")
	}
	return nil
}

// ListFollowing returns the users userID follows.
func (r *SocialRepository) ListFollowing(ctx context.Context, userID string) ([]model.UserRes, error) {
	const q = `
SELECT u.user_id, u.email, u.display_name
FROM follows f
JOIN users u ON u.user_id = f.followee_id
WHERE f.follower_id = $1
ORDER BY f.created_at DESC
`
	return r.listUsers(ctx, q, userID)
}

// ListFollowers returns the users following userID.
func (r *SocialRepository) ListFollowers(ctx context.Context, userID string) ([]model.UserRes, error) {
	const q = `
SELECT u.user_id, u.email, u.display_name
FROM follows f
JOIN users u ON u.user_id = f.follower_id
WHERE f.followee_id = $1
ORDER BY f.created_at DESC
`
	return r.listUsers(ctx, q, userID)
}

func (r *SocialRepository) listUsers(ctx context.Context, q, userID string) ([]model.UserRes, error) {
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query follows: %w", err)
	}
	defer rows.Close()

	out := make([]model.UserRes, 0, 8)
	for rows.Next() {
		var u model.UserRes
		if err := rows.Scan(&u.UserID, &u.Email, &u.DisplayName); err != nil {
			return nil, fmt.Errorf("scan follow row: %w", err)
		}
		out = append(out, u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

// CreateFollowRequest records a pending request from one user to another.
func (r *SocialRepository) CreateFollowRequest(ctx context.Context, fromID, toID string) (string, error) {
	id := uuid.New().String()
	const q = `
INSERT INTO follow_requests (id, from_id, to_id, status, created_at)
VALUES ($1, $2, $3, 'pending', now())
`
	_, err := r.db.Exec(ctx, q, id, fromID, toID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("request already exists: %w", err)
		}
		return "", fmt.Errorf("insert follow request: %w", err)
	}
	return id, nil
}

// GetFollowRequest returns a request by id.
func (r *SocialRepository) GetFollowRequest(ctx context.Context, id string) (model.FollowRequest, error) {
	const q = `
SELECT id, from_id, to_id, status, created_at
FROM follow_requests
WHERE id = $1
`
	var fr model.FollowRequest
	row := r.db.QueryRow(ctx, q, id)
	if err := row.Scan(&fr.ID, &fr.FromID, &fr.ToID, &fr.Status, &fr.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.FollowRequest{}, fmt.Errorf("follow request not found: %w", err)
		}
		return model.FollowRequest{}, fmt.Errorf("scan follow request: %w", err)
	}
	return fr, nil
}

// ListIncomingRequests returns pending requests addressed to userID.
func (r *SocialRepository) ListIncomingRequests(ctx context.Context, userID string) ([]model.FollowRequest, error) {
	const q = `
SELECT id, from_id, to_id, status, created_at
FROM follow_requests
WHERE to_id = $1 AND status = 'pending'
ORDER BY created_at DESC
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query follow requests: %w", err)
	}
	defer rows.Close()

	out := make([]model.FollowRequest, 0, 8)
	for rows.Next() {
		var fr model.FollowRequest
		if err := rows.Scan(&fr.ID, &fr.FromID, &fr.ToID, &fr.Status, &fr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan follow request row: %w", err)
		}
		out = append(out, fr)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

// ResolveFollowRequest moves a pending request to accepted or declined.
func (r *SocialRepository) ResolveFollowRequest(ctx context.Context, id string, status model.FollowRequestStatus) error {
	const q = `UPDATE follow_requests SET status = $1 WHERE id = $2 AND status = 'pending'`
	ct, err := r.db.Exec(ctx, q, status, id)
	if err != nil {
		return fmt.Errorf("update follow request: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("follow request not found or already resolved")
	}
	return nil
}
