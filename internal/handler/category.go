package handler

import (
	"github.com/TeamUpswell/wgw/pkg"
	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/TeamUpswell/wgw/pkg/response"
	"github.com/gin-gonic/gin"
)

// CreateCategory adds a label to the caller's category set
func (h *Handler) CreateCategory(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.CreateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	label := pkg.NormalizeCategory(req.Label)

	id, err := h.Repo.Category.Create(c.Request.Context(), claims.UserID, label, req.Position)
	if err != nil {
		response.Conflict(c, "category already exists")
		return
	}
	response.Created(c, gin.H{"id": id, "label": label})
}

// ListCategories returns the caller's category labels in display order
func (h *Handler) ListCategories(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	categories, err := h.Repo.Category.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.Logger.Sugar().Errorw("category list failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c)
		return
	}
	response.OK(c, categories)
}

// DeleteCategory removes a label; existing entries keep their free-text value
func (h *Handler) DeleteCategory(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	if err := h.Repo.Category.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.NotFound(c, "category not found")
		return
	}
	response.Message(c, "category deleted")
}
