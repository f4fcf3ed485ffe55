package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository manages a user's configurable category labels.
type CategoryRepository struct {
	db *pgxpool.Pool
}

// Create inserts a category label for a user and returns its id.
func (r *CategoryRepository) Create(ctx context.Context, userID, label string, position int) (string, error) {
	id := uuid.New().String()
	const q = `
INSERT INTO categories (id, user_id, label, position, created_at)
VALUES ($1, $2, $3, $4, now())
`
	_, err := r.db.Exec(ctx, q, id, userID, label, position)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("category already exists: %w", err)
		}
		return "", fmt.Errorf("insert category: %w", err)
	}
	return id, nil
}

// ListByUser returns a user's categories ordered by position.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	const q = `
SELECT id, user_id, label, position, created_at
FROM categories
WHERE user_id = $1
ORDER BY position, created_at
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := make([]model.Category, 0, 8)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Label, &c.Position, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

// Delete removes a category owned by userID.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM categories WHERE id = $1 AND user_id = $2`
	ct, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}
