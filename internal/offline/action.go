// Package offline holds the durable queue of mutations recorded while the
// remote store could not be reached. Actions are replayed in FIFO order by
// the sync engine and removed only after the remote replay succeeds.
package offline

import (
	"encoding/json"
	"time"

	"github.com/TeamUpswell/wgw/pkg/model"
)

type Kind string

const (
	KindCreateEntry Kind = "create_entry"
	KindUpdateEntry Kind = "update_entry"
	KindDeleteEntry Kind = "delete_entry"
	KindUploadAudio Kind = "upload_audio"
	KindUploadImage Kind = "upload_image"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSyncing Status = "syncing"
	StatusFailed  Status = "failed"
)

// MaxRetries is the automatic retry ceiling. An action that has failed this
// many times stays in the queue as Failed but is skipped by future drains
// until a user clears it.
const MaxRetries = 3

type Action struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
	RetryCount int             `json:"retry_count"`
	Status     Status          `json:"status"`
	LastError  string          `json:"last_error,omitempty"`
}

// CreateEntryPayload carries everything needed to replay an entry creation.
// ClientRef doubles as the idempotency key the server deduplicates on, so a
// replay after a partially acknowledged create cannot produce a duplicate.
type CreateEntryPayload struct {
	ClientRef     string    `json:"client_ref"`
	Category      string    `json:"category"`
	Transcription string    `json:"transcription"`
	IsPrivate     bool      `json:"is_private"`
	Favorite      bool      `json:"favorite"`
	CreatedAt     time.Time `json:"created_at"`
	// AudioPath points at the recording on local disk, uploaded before the
	// entry row is inserted.
	AudioPath string `json:"audio_path,omitempty"`
}

type UpdateEntryPayload struct {
	EntryID string               `json:"entry_id"`
	Patch   model.UpdateEntryReq `json:"patch"`
}

type DeleteEntryPayload struct {
	EntryID string `json:"entry_id"`
}

// UploadMediaPayload replays a standalone blob upload. EntryID may be empty
// when the blob was recorded before its entry synced; when present, the
// entry's reference field is patched after the upload.
type UploadMediaPayload struct {
	EntryID string `json:"entry_id,omitempty"`
	Path    string `json:"path"`
}
