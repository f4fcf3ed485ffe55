// Package client is the daemon's HTTP client for the WGW API: the remote
// auth/store/AI collaborators behind one interface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/TeamUpswell/wgw/pkg/model"
)

// ErrSessionNotFound marks a refresh rejection that means the session was
// terminated server-side. The session monitor treats it as a sign-out signal
// rather than a transient failure.
var ErrSessionNotFound = errors.New("session not found")

// Session is the locally cached auth state.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresAt is the access token expiry in epoch seconds.
	ExpiresAt int64  `json:"expires_at"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
}

type Client struct {
	base string
	http *http.Client

	mu      sync.RWMutex
	session Session
}

func New(base string, timeout time.Duration) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// envelope mirrors the API's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Session().AccessToken; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, out)
}

func decodeEnvelope(resp *http.Response, out interface{}) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !env.Success || resp.StatusCode >= 400 {
		msg := "request failed"
		if env.Error != nil {
			msg = env.Error.Message
		}
		if resp.StatusCode == http.StatusUnauthorized && msg == "session not found" {
			return fmt.Errorf("%s: %w", msg, ErrSessionNotFound)
		}
		return fmt.Errorf("api error (status %d): %s", resp.StatusCode, msg)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// Healthz reports whether the API is reachable; the network monitor's probe.
func (c *Client) Healthz(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Login exchanges credentials for a session and caches it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var res model.LoginUserRes
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/login", model.LoginReq{Email: email, Password: password}, &res)
	if err != nil {
		return Session{}, err
	}
	s := Session{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.ExpiresAt,
		UserID:       res.User.UserID,
		Email:        res.User.Email,
	}
	c.SetSession(s)
	return s, nil
}

// Renew trades the cached refresh token for a fresh access token.
func (c *Client) Renew(ctx context.Context) (Session, error) {
	current := c.Session()
	if current.RefreshToken == "" {
		return Session{}, fmt.Errorf("no refresh token: %w", ErrSessionNotFound)
	}

	var res model.RenewAccessTokenRes
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/tokens/renew", model.RenewAccessTokenReq{RefreshToken: current.RefreshToken}, &res)
	if err != nil {
		return Session{}, err
	}

	current.AccessToken = res.AccessToken
	current.ExpiresAt = res.ExpiresAt
	c.SetSession(current)
	return current, nil
}

// CreateEntry inserts an entry remotely. The server upserts on client_ref so
// replays are safe.
func (c *Client) CreateEntry(ctx context.Context, req model.CreateEntryReq) (model.JournalEntry, error) {
	var entry model.JournalEntry
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/entries", req, &entry)
	return entry, err
}

// UpdateEntry patches an entry remotely.
func (c *Client) UpdateEntry(ctx context.Context, id string, req model.UpdateEntryReq) error {
	return c.doJSON(ctx, http.MethodPatch, "/api/v1/entries/"+id, req, nil)
}

// DeleteEntry removes an entry remotely.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/entries/"+id, nil, nil)
}

// AIFeedback asks the API for an encouragement.
func (c *Client) AIFeedback(ctx context.Context, transcription, category string) (string, bool, error) {
	var res model.AIFeedbackRes
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/ai/feedback", model.AIFeedbackReq{Transcription: transcription, Category: category}, &res)
	if err != nil {
		return "", false, err
	}
	return res.Response, res.Fallback, nil
}

// Transcribe uploads a local audio file for speech-to-text.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	var res model.TranscriptionRes
	err := c.doMultipart(ctx, "/api/v1/ai/transcribe", path, map[string]string{}, "audio", &res)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// UploadMedia uploads a local blob; kind is "audio" or "image". When entryID
// is non-empty the server patches the entry's reference field.
func (c *Client) UploadMedia(ctx context.Context, kind, entryID, path string) (string, error) {
	fields := map[string]string{"kind": kind}
	if entryID != "" {
		fields["entry_id"] = entryID
	}
	var res model.UploadRes
	err := c.doMultipart(ctx, "/api/v1/media", path, fields, "file", &res)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

func (c *Client) doMultipart(ctx context.Context, path, filePath string, fields map[string]string, fileField string, out interface{}) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(fileField, filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy upload file: %w", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("write form field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if tok := c.Session().AccessToken; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, out)
}
