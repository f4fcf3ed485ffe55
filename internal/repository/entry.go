package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EntryRepository is the concrete implementation for journal entries.
type EntryRepository struct {
	db *pgxpool.Pool
}

const entryColumns = `id, user_id, client_ref, category, transcription, ai_response, audio_url, image_url, is_private, favorite, created_at, updated_at`

func scanEntry(row pgx.Row) (model.JournalEntry, error) {
	var e model.JournalEntry
	err := row.Scan(&e.ID, &e.UserID, &e.ClientRef, &e.Category, &e.Transcription,
		&e.AIResponse, &e.AudioURL, &e.ImageURL, &e.IsPrivate, &e.Favorite,
		&e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// Create upserts an entry keyed on (user_id, client_ref) and returns the
// stored row. A replayed create after a partial earlier success hits the
// conflict path and returns the existing entry instead of a duplicate.
func (r *EntryRepository) Create(ctx context.Context, userID string, req model.CreateEntryReq) (model.JournalEntry, error) {
	id := uuid.New().String()
	createdAt := time.Now()
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}
	const q = `
INSERT INTO entries (id, user_id, client_ref, category, transcription, ai_response, audio_url, image_url, is_private, favorite, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
ON CONFLICT (user_id, client_ref) DO UPDATE SET updated_at = now()
RETURNING ` + entryColumns
	row := r.db.QueryRow(ctx, q, id, userID, req.ClientRef, req.Category, req.Transcription,
		req.AIResponse, req.AudioURL, req.ImageURL, req.IsPrivate, req.Favorite, createdAt)
	e, err := scanEntry(row)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("insert entry: %w", err)
	}
	return e, nil
}

// GetByID fetches an entry owned by userID.
func (r *EntryRepository) GetByID(ctx context.Context, userID, id string) (model.JournalEntry, error) {
	const q = `
SELECT ` + entryColumns + `
FROM entries
WHERE id = $1 AND user_id = $2
`
	e, err := scanEntry(r.db.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.JournalEntry{}, fmt.Errorf("entry not found: %w", err)
		}
		return model.JournalEntry{}, fmt.Errorf("scan entry: %w", err)
	}
	return e, nil
}

// Update applies the non-nil fields of req to an entry owned by userID.
func (r *EntryRepository) Update(ctx context.Context, userID, id string, req model.UpdateEntryReq) (model.JournalEntry, error) {
	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 10)
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.Transcription != nil {
		add("transcription", *req.Transcription)
	}
	if req.AIResponse != nil {
		add("ai_response", *req.AIResponse)
	}
	if req.AudioURL != nil {
		add("audio_url", *req.AudioURL)
	}
	if req.ImageURL != nil {
		add("image_url", *req.ImageURL)
	}
	if req.IsPrivate != nil {
		add("is_private", *req.IsPrivate)
	}
	if req.Favorite != nil {
		add("favorite", *req.Favorite)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, userID, id)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id, userID)
	q := fmt.Sprintf(`UPDATE entries SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), entryColumns)
	e, err := scanEntry(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.JournalEntry{}, fmt.Errorf("entry not found: %w", err)
		}
		return model.JournalEntry{}, fmt.Errorf("update entry: %w", err)
	}
	return e, nil
}

// Delete removes an entry owned by userID.
func (r *EntryRepository) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM entries WHERE id = $1 AND user_id = $2`
	ct, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("entry not found")
	}
	return nil
}

// ListByUser returns a page of a user's entries, newest first, with optional
// category/favorite/date filters, plus the unpaginated total.
func (r *EntryRepository) ListByUser(ctx context.Context, userID string, query model.ListEntriesQuery) ([]model.JournalEntry, int, error) {
	where := []string{"user_id = $1"}
	args := []interface{}{userID}
	if query.Category != "" {
		args = append(args, query.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	if query.Favorite != nil {
		args = append(args, *query.Favorite)
		where = append(where, "favorite = $"+strconv.Itoa(len(args)))
	}
	if query.From != "" {
		args = append(args, query.From)
		where = append(where, "created_at >= $"+strconv.Itoa(len(args))+"::date")
	}
	if query.To != "" {
		args = append(args, query.To)
		where = append(where, "created_at < ($"+strconv.Itoa(len(args))+"::date + interval '1 day')")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(id) FROM entries WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	limit := query.PageSize
	if limit <= 0 {
		limit = 20
	}
	offset := (query.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM entries WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		entryColumns, cond, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	out := make([]model.JournalEntry, 0, 8)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan entry row: %w", err)
		}
		out = append(out, e)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}

// ListTimestamps returns every entry creation timestamp for a user, used by
// the streak calculation.
func (r *EntryRepository) ListTimestamps(ctx context.Context, userID string) ([]time.Time, error) {
	const q = `SELECT created_at FROM entries WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query entry timestamps: %w", err)
	}
	defer rows.Close()

	out := make([]time.Time, 0, 32)
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan timestamp: %w", err)
		}
		out = append(out, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

// SetMediaURL patches an entry's audio or image reference once an upload
// completes. column must be "audio_url" or "image_url".
func (r *EntryRepository) SetMediaURL(ctx context.Context, userID, id, column, url string) error {
	if column != "audio_url" && column != "image_url" {
		return fmt.Errorf("invalid media column: %s", column)
	}
	q := fmt.Sprintf(`UPDATE entries SET %s = $1, updated_at = now() WHERE id = $2 AND user_id = $3`, column)
	ct, err := r.db.Exec(ctx, q, url, id, userID)
	if err != nil {
		return fmt.Errorf("update entry media: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("entry not found")
	}
	return nil
}

// ListFeed returns public entries authored by users that userID follows,
// newest first, with the author display name attached.
func (r *EntryRepository) ListFeed(ctx context.Context, userID string, limit, offset int) ([]model.FeedItem, int, error) {
	var total int
	const countQ = `
SELECT COUNT(e.id)
FROM entries e
JOIN follows f ON e.user_id = f.followee_id
WHERE f.follower_id = $1 AND e.is_private = false
`
	if err := r.db.QueryRow(ctx, countQ, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count feed: %w", err)
	}

	const q = `
SELECT e.id, e.user_id, e.client_ref, e.category, e.transcription, e.ai_response,
       e.audio_url, e.image_url, e.is_private, e.favorite, e.created_at, e.updated_at,
       u.display_name
FROM entries e
JOIN follows f ON e.user_id = f.followee_id
JOIN users u ON u.user_id = e.user_id
WHERE f.follower_id = $1 AND e.is_private = false
ORDER BY e.created_at DESC
LIMIT $2 OFFSET $3
`
	rows, err := r.db.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query feed: %w", err)
	}
	defer rows.Close()

	out := make([]model.FeedItem, 0, 8)
	for rows.Next() {
		var item model.FeedItem
		e := &item.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ClientRef, &e.Category, &e.Transcription,
			&e.AIResponse, &e.AudioURL, &e.ImageURL, &e.IsPrivate, &e.Favorite,
			&e.CreatedAt, &e.UpdatedAt, &item.DisplayName); err != nil {
			return nil, 0, fmt.Errorf("scan feed row: %w", err)
		}
		out = append(out, item)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}
