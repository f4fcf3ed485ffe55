package model

import "time"

type JournalEntry struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	ClientRef     string    `json:"client_ref" db:"client_ref"`
	Category      string    `json:"category" db:"category"`
	Transcription string    `json:"transcription" db:"transcription"`
	AIResponse    string    `json:"ai_response" db:"ai_response"`
	AudioURL      string    `json:"audio_url" db:"audio_url"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	IsPrivate     bool      `json:"is_private" db:"is_private"`
	Favorite      bool      `json:"favorite" db:"favorite"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CreateEntryReq carries everything a client already knows about an entry at
// creation time. ClientRef is the client-generated id of the optimistic local
// record; the server upserts on it so a replayed create cannot produce a
// duplicate row.
type CreateEntryReq struct {
	ClientRef     string     `json:"client_ref" binding:"required"`
	Category      string     `json:"category" binding:"required"`
	Transcription string     `json:"transcription"`
	AIResponse    string     `json:"ai_response"`
	AudioURL      string     `json:"audio_url"`
	ImageURL      string     `json:"image_url"`
	IsPrivate     bool       `json:"is_private"`
	Favorite      bool       `json:"favorite"`
	CreatedAt     *time.Time `json:"created_at"`
}

// UpdateEntryReq uses pointers so absent fields are left untouched.
type UpdateEntryReq struct {
	Category      *string `json:"category"`
	Transcription *string `json:"transcription"`
	AIResponse    *string `json:"ai_response"`
	AudioURL      *string `json:"audio_url"`
	ImageURL      *string `json:"image_url"`
	IsPrivate     *bool   `json:"is_private"`
	Favorite      *bool   `json:"favorite"`
}

type ListEntriesQuery struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
	Category string `form:"category"`
	Favorite *bool  `form:"favorite"`
	From     string `form:"from"` // YYYY-MM-DD, inclusive
	To       string `form:"to"`   // YYYY-MM-DD, inclusive
}

type StreakRes struct {
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	LastEntryDate string `json:"last_entry_date,omitempty"` // YYYY-MM-DD
}

type AIFeedbackReq struct {
	Transcription string `json:"transcription" binding:"required"`
	Category      string `json:"category"`
}

type AIFeedbackRes struct {
	Response string `json:"response"`
	// Fallback is true when the text generator was unavailable and a
	// templated message was returned instead.
	Fallback bool `json:"fallback"`
}

type TranscriptionRes struct {
	Text string `json:"text"`
}

type UploadRes struct {
	URL string `json:"url"`
}
