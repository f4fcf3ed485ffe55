package handler

import (
	"github.com/TeamUpswell/wgw/pkg"
	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/TeamUpswell/wgw/pkg/response"
	"github.com/gin-gonic/gin"
)

// CreateEntry stores a journal entry. Creates are idempotent on client_ref so
// the mobile client's offline queue can replay them safely.
func (h *Handler) CreateEntry(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.CreateEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req.Category = pkg.NormalizeCategory(req.Category)

	ctx := c.Request.Context()
	entry, err := h.Repo.Entry.Create(ctx, claims.UserID, req)
	if err != nil {
		h.Logger.Sugar().Errorw("entry create failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c)
		return
	}

	// a new entry changes today's streak
	if err := h.Streaks.Invalidate(ctx, claims.UserID); err != nil {
		h.Logger.Sugar().Warnw("streak cache invalidate failed", "user_id", claims.UserID, "err", err)
	}

	response.Created(c, entry)
}

// GetEntry returns one of the caller's entries
func (h *Handler) GetEntry(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	entry, err := h.Repo.Entry.GetByID(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.NotFound(c, "entry not found")
		return
	}
	response.OK(c, entry)
}

// ListEntries returns a page of the caller's history with optional filters
func (h *Handler) ListEntries(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var query model.ListEntriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entries, total, err := h.Repo.Entry.ListByUser(c.Request.Context(), claims.UserID, query)
	if err != nil {
		h.Logger.Sugar().Errorw("entry list failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c)
		return
	}

	response.OKWithMeta(c, entries, &response.Meta{
		Page:     query.Page,
		PageSize: query.PageSize,
		Total:    total,
		HasNext:  query.Page*query.PageSize < total,
	})
}

// PatchEntry applies partial updates (category, flags, media refs, AI text)
func (h *Handler) PatchEntry(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.UpdateEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Category != nil {
		normalized := pkg.NormalizeCategory(*req.Category)
		req.Category = &normalized
	}

	entry, err := h.Repo.Entry.Update(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.NotFound(c, "entry not found")
		return
	}
	response.OK(c, entry)
}

// DeleteEntry removes one of the caller's entries
func (h *Handler) DeleteEntry(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	ctx := c.Request.Context()
	if err := h.Repo.Entry.Delete(ctx, claims.UserID, c.Param("id")); err != nil {
		response.NotFound(c, "entry not found")
		return
	}

	if err := h.Streaks.Invalidate(ctx, claims.UserID); err != nil {
		h.Logger.Sugar().Warnw("streak cache invalidate failed", "user_id", claims.UserID, "err", err)
	}

	response.Message(c, "entry deleted")
}
