// Package syncer drains the offline action queue against the remote API.
package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/TeamUpswell/wgw/internal/ai"
	"github.com/TeamUpswell/wgw/internal/offline"
	"github.com/TeamUpswell/wgw/pkg/model"
	"go.uber.org/zap"
)

// RemoteAPI is the slice of the API client the engine replays against.
type RemoteAPI interface {
	CreateEntry(ctx context.Context, req model.CreateEntryReq) (model.JournalEntry, error)
	UpdateEntry(ctx context.Context, id string, req model.UpdateEntryReq) error
	DeleteEntry(ctx context.Context, id string) error
	UploadMedia(ctx context.Context, kind, entryID, path string) (string, error)
	AIFeedback(ctx context.Context, transcription, category string) (string, bool, error)
	Transcribe(ctx context.Context, path string) (string, error)
}

type Engine struct {
	queue *offline.Queue
	api   RemoteAPI
	log   *zap.SugaredLogger

	mu         sync.Mutex
	draining   bool
	lastSyncAt time.Time
}

func New(queue *offline.Queue, api RemoteAPI, log *zap.SugaredLogger) *Engine {
	return &Engine{queue: queue, api: api, log: log}
}

// Drain replays every eligible queued action, oldest first. Overlapping
// triggers collapse into the in-flight pass: if a drain is already running
// this returns immediately. One action's failure never aborts the rest of
// the pass.
func (e *Engine) Drain(ctx context.Context) {
	e.mu.Lock()
	if e.draining {
		e.mu.Unlock()
		return
	}
	e.draining = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.draining = false
		e.lastSyncAt = time.Now()
		e.mu.Unlock()
	}()

	actions := e.queue.List()
	e.log.Infow("drain started", "queued", len(actions))

	for _, a := range actions {
		// failed actions below the ceiling are retried on later passes;
		// in-flight and exhausted ones are skipped
		if a.Status == offline.StatusSyncing || a.RetryCount >= offline.MaxRetries {
			continue
		}

		e.queue.MarkSyncing(a.ID)
		if err := e.replay(ctx, a); err != nil {
			e.log.Warnw("action replay failed", "id", a.ID, "kind", a.Kind, "retry", a.RetryCount+1, "err", err)
			e.queue.IncrementRetry(a.ID)
			e.queue.MarkFailed(a.ID, err.Error())
			continue
		}
		e.queue.Remove(a.ID)
	}

	e.log.Infow("drain finished", "remaining", e.queue.Len())
}

// Draining reports whether a pass is in flight.
func (e *Engine) Draining() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draining
}

// LastSyncAt returns when the most recent drain pass finished.
func (e *Engine) LastSyncAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSyncAt
}

func (e *Engine) replay(ctx context.Context, a offline.Action) error {
	switch a.Kind {
	case offline.KindCreateEntry:
		return e.replayCreateEntry(ctx, a)
	case offline.KindUpdateEntry:
		var p offline.UpdateEntryPayload
		if err := json.Unmarshal(a.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return e.api.UpdateEntry(ctx, p.EntryID, p.Patch)
	case offline.KindDeleteEntry:
		var p offline.DeleteEntryPayload
		if err := json.Unmarshal(a.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return e.api.DeleteEntry(ctx, p.EntryID)
	case offline.KindUploadAudio:
		return e.replayUpload(ctx, a, "audio")
	case offline.KindUploadImage:
		return e.replayUpload(ctx, a, "image")
	default:
		return fmt.Errorf("unknown action kind: %s", a.Kind)
	}
}

// replayCreateEntry runs the full creation pipeline: upload any pending
// audio, fill in a missing transcription, request AI encouragement, then
// insert the entry. AI failures degrade to a templated message so the entry
// is still saved.
func (e *Engine) replayCreateEntry(ctx context.Context, a offline.Action) error {
	var p offline.CreateEntryPayload
	if err := json.Unmarshal(a.Payload, &p); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	audioURL := ""
	if p.AudioPath != "" {
		url, err := e.api.UploadMedia(ctx, "audio", "", p.AudioPath)
		if err != nil {
			return fmt.Errorf("upload audio: %w", err)
		}
		audioURL = url
	}

	transcription := p.Transcription
	if transcription == "" && p.AudioPath != "" {
		text, err := e.api.Transcribe(ctx, p.AudioPath)
		if err != nil {
			return fmt.Errorf("transcribe audio: %w", err)
		}
		transcription = text
	}

	aiResponse, fallback, err := e.api.AIFeedback(ctx, transcription, p.Category)
	if err != nil {
		// the entry still saves with a templated message
		aiResponse = ai.FallbackEncouragement(transcription)
		fallback = true
	}
	if fallback {
		e.log.Infow("entry saved with fallback encouragement", "client_ref", p.ClientRef)
	}

	createdAt := p.CreatedAt
	req := model.CreateEntryReq{
		ClientRef:     p.ClientRef,
		Category:      p.Category,
		Transcription: transcription,
		AIResponse:    aiResponse,
		AudioURL:      audioURL,
		IsPrivate:     p.IsPrivate,
		Favorite:      p.Favorite,
	}
	if !createdAt.IsZero() {
		req.CreatedAt = &createdAt
	}

	if _, err := e.api.CreateEntry(ctx, req); err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

func (e *Engine) replayUpload(ctx context.Context, a offline.Action, kind string) error {
	var p offline.UploadMediaPayload
	if err := json.Unmarshal(a.Payload, &p); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if _, err := e.api.UploadMedia(ctx, kind, p.EntryID, p.Path); err != nil {
		return fmt.Errorf("upload %s: %w", kind, err)
	}
	return nil
}
