package model

import "time"

type Category struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Label     string    `json:"label" db:"label"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateCategoryReq struct {
	Label    string `json:"label" binding:"required"`
	Position int    `json:"position"`
}

// Invite is a shareable code another user can redeem to follow its owner.
type Invite struct {
	Code      string    `json:"code" db:"code"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type RedeemInviteReq struct {
	Code string `json:"code" binding:"required"`
}

type Follow struct {
	FollowerID string    `json:"follower_id" db:"follower_id"`
	FolloweeID string    `json:"followee_id" db:"followee_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type FollowRequestStatus string

const (
	FollowRequestPending  FollowRequestStatus = "pending"
	FollowRequestAccepted FollowRequestStatus = "accepted"
	FollowRequestDeclined FollowRequestStatus = "declined"
)

type FollowRequest struct {
	ID        string              `json:"id" db:"id"`
	FromID    string              `json:"from_id" db:"from_id"`
	ToID      string              `json:"to_id" db:"to_id"`
	Status    FollowRequestStatus `json:"status" db:"status"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
}

type CreateFollowRequestReq struct {
	ToID string `json:"to_id" binding:"required"`
}

// FeedItem is a public entry from a followed user, enriched with the author's
// display name for rendering.
type FeedItem struct {
	Entry       JournalEntry `json:"entry"`
	DisplayName string       `json:"display_name"`
}

type ListFeedQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}
