package handler

import (
	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/TeamUpswell/wgw/pkg/response"
	"github.com/gin-gonic/gin"
)

// CreateInvite mints a shareable code others can redeem to follow the caller
func (h *Handler) CreateInvite(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	invite, err := h.Repo.Social.CreateInvite(c.Request.Context(), claims.UserID)
	if err != nil {
		h.Logger.Sugar().Errorw("invite create failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c)
		return
	}
	response.Created(c, invite)
}

// RedeemInvite follows the invite's owner immediately; invite codes carry
// implicit consent, so no follow request round-trip is needed.
func (h *Handler) RedeemInvite(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.RedeemInviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	invite, err := h.Repo.Social.GetInvite(ctx, req.Code)
	if err != nil {
		response.NotFound(c, "invite not found")
		return
	}
	if invite.UserID == claims.UserID {
		response.BadRequest(c, "cannot follow yourself")
		return
	}

	if err := h.Repo.Social.CreateFollow(ctx, claims.UserID, invite.UserID); err != nil {
		response.Conflict(c, "already following")
		return
	}
	response.Message(c, "now following")
}

// RequestFollow files a pending follow request for another user
func (h *Handler) RequestFollow(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.CreateFollowRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.ToID == claims.UserID {
		response.BadRequest(c, "cannot follow yourself")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Repo.User.GetByID(ctx, req.ToID); err != nil {
		response.NotFound(c, "user not found")
		return
	}

	id, err := h.Repo.Social.CreateFollowRequest(ctx, claims.UserID, req.ToID)
	if err != nil {
		response.Conflict(c, "request already exists")
		return
	}
	response.Created(c, gin.H{"id": id})
}

// ListFollowRequests returns pending requests addressed to the caller
func (h *Handler) ListFollowRequests(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	requests, err := h.Repo.Social.ListIncomingRequests(c.Request.Context(), claims.UserID)
	if err != nil {
		h.Logger.Sugar().Errorw("follow request list failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c)
		return
	}
	response.OK(c, requests)
}

// AcceptFollowRequest resolves a pending request and creates the follow edge
func (h *Handler) AcceptFollowRequest(c *gin.Context) {
	h.resolveFollowRequest(c, model.FollowRequestAccepted)
}

// DeclineFollowRequest resolves a pending request without a follow edge
func (h *Handler) DeclineFollowRequest(c *gin.Context) {
	h.resolveFollowRequest(c, model.FollowRequestDeclined)
}

func (h *Handler) resolveFollowRequest(c *gin.Context, status model.FollowRequestStatus) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	ctx := c.Request.Context()
	fr, err := h.Repo.Social.GetFollowRequest(ctx, c.Param("id"))
	if err != nil {
		response.NotFound(c, "follow request not found")
		return
	}
	// only the addressee may resolve a request
	if fr.ToID != claims.UserID {
		response.Forbidden(c, "not your request")
		return
	}

	if err := h.Repo.Social.ResolveFollowRequest(ctx, fr.ID, status); err != nil {
		response.Conflict(c, "request already resolved")
		return
	}

	if status == model.FollowRequestAccepted {
		if err := h.Repo.Social.CreateFollow(ctx, fr.FromID, fr.ToID); err != nil {
			h.Logger.Sugar().Warnw("follow create after accept failed", "request_id", fr.ID, "err", err)
		}
	}
	response.Message(c, "request "+string(status))
}

// Unfollow removes the caller's follow edge to another user
func (h *Handler) Unfollow(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	if err := h.Repo.Social.DeleteFollow(c.Request.Context(), claims.UserID, c.Param("user_id")); err != nil {
		response.NotFound(c, "not following")
		return
	}
	response.Message(c, "unfollowed")
}

// ListFollowing returns who the caller follows
func (h *Handler) ListFollowing(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	users, err := h.Repo.Social.ListFollowing(c.Request.Context(), claims.UserID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, users)
}

// ListFollowers returns who follows the caller
func (h *Handler) ListFollowers(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	users, err := h.Repo.Social.ListFollowers(c.Request.Context(), claims.UserID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, users)
}

// GetFeed returns public entries from followed users, newest first
func (h *Handler) GetFeed(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var query model.ListFeedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	limit := query.PageSize
	if limit <= 0 {
		limit = 20
	}
	offset := (query.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	items, total, err := h.Repo.Entry.ListFeed(c.Request.Context(), claims.UserID, limit, offset)
	if err != nil {
		h.Logger.Sugar().Errorw("feed query failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c)
		return
	}

	response.OKWithMeta(c, items, &response.Meta{
		Page:     query.Page,
		PageSize: limit,
		Total:    total,
		HasNext:  query.Page*limit < total,
	})
}
