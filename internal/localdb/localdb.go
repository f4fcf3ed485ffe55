// Package localdb is the daemon's persistent local store: a single SQLite
// file holding the offline action queue and the cached session. The refresh
// token is encrypted at rest.
package localdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/TeamUpswell/wgw/internal/client"
	"github.com/TeamUpswell/wgw/internal/offline"
	"github.com/TeamUpswell/wgw/pkg"
	_ "modernc.org/sqlite"
)

type DB struct {
	conn   *sql.DB
	crypto *pkg.Crypto
}

const schema = `
CREATE TABLE IF NOT EXISTS offline_actions (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at TEXT NOT NULL,
	retry_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'pending',
	last_error TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS session_cache (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	data TEXT NOT NULL
);
`

// Open creates or opens the store at dir/wgwd.db.
func Open(dir string, crypto *pkg.Crypto) (*DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	conn, err := sql.Open("sqlite", filepath.Join(dir, "wgwd.db"))
	if err != nil {
		return nil, fmt.Errorf("open local db: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{conn: conn, crypto: crypto}, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// SaveAction inserts or replaces an action row.
func (d *DB) SaveAction(a offline.Action) error {
	const q = `
INSERT INTO offline_actions (id, kind, payload, created_at, retry_count, status, last_error)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	retry_count = excluded.retry_count,
	status = excluded.status,
	last_error = excluded.last_error
`
	_, err := d.conn.Exec(q, a.ID, string(a.Kind), string(a.Payload),
		a.CreatedAt.Format("2006-01-02T15:04:05.000000000Z07:00"), a.RetryCount, string(a.Status), a.LastError)
	if err != nil {
		return fmt.Errorf("save action: %w", err)
	}
	return nil
}

func (d *DB) DeleteAction(id string) error {
	if _, err := d.conn.Exec(`DELETE FROM offline_actions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete action: %w", err)
	}
	return nil
}

// ListActions returns all persisted actions, oldest first.
func (d *DB) ListActions() ([]offline.Action, error) {
	rows, err := d.conn.Query(`
SELECT id, kind, payload, created_at, retry_count, status, last_error
FROM offline_actions
ORDER BY created_at
`)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	out := make([]offline.Action, 0, 8)
	for rows.Next() {
		var a offline.Action
		var kind, payload, createdAt, status string
		if err := rows.Scan(&a.ID, &kind, &payload, &createdAt, &a.RetryCount, &status, &a.LastError); err != nil {
			return nil, fmt.Errorf("scan action row: %w", err)
		}
		a.Kind = offline.Kind(kind)
		a.Payload = json.RawMessage(payload)
		a.Status = offline.Status(status)
		t, err := parseTimestamp(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse action timestamp: %w", err)
		}
		a.CreatedAt = t
		out = append(out, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// cachedSession is the on-disk shape; the refresh token is sealed.
type cachedSession struct {
	AccessToken   string `json:"access_token"`
	SealedRefresh string `json:"sealed_refresh"`
	ExpiresAt     int64  `json:"expires_at"`
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
}

// SaveSession caches the session, encrypting the refresh token.
func (d *DB) SaveSession(s client.Session) error {
	sealed, err := d.crypto.Encrypt(s.RefreshToken)
	if err != nil {
		return fmt.Errorf("seal refresh token: %w", err)
	}
	raw, err := json.Marshal(cachedSession{
		AccessToken:   s.AccessToken,
		SealedRefresh: sealed,
		ExpiresAt:     s.ExpiresAt,
		UserID:        s.UserID,
		Email:         s.Email,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	const q = `
INSERT INTO session_cache (id, data) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET data = excluded.data
`
	if _, err := d.conn.Exec(q, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the cached session, ok=false when none is stored.
func (d *DB) LoadSession() (client.Session, bool, error) {
	var raw string
	err := d.conn.QueryRow(`SELECT data FROM session_cache WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return client.Session{}, false, nil
	}
	if err != nil {
		return client.Session{}, false, fmt.Errorf("load session: %w", err)
	}

	var cs cachedSession
	if err := json.Unmarshal([]byte(raw), &cs); err != nil {
		return client.Session{}, false, fmt.Errorf("unmarshal session: %w", err)
	}
	refresh, err := d.crypto.Decrypt(cs.SealedRefresh)
	if err != nil {
		return client.Session{}, false, fmt.Errorf("unseal refresh token: %w", err)
	}
	return client.Session{
		AccessToken:  cs.AccessToken,
		RefreshToken: refresh,
		ExpiresAt:    cs.ExpiresAt,
		UserID:       cs.UserID,
		Email:        cs.Email,
	}, true, nil
}

// ClearSession drops the cached session.
func (d *DB) ClearSession() error {
	if _, err := d.conn.Exec(`DELETE FROM session_cache WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
