package handler

import (
	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/TeamUpswell/wgw/pkg/response"
	"github.com/gin-gonic/gin"
)

// UploadMedia stores an audio or image blob and returns its public URL. When
// an entry_id form field is present the matching entry's reference is patched
// in the same request, which is how queued uploads reconcile with entries
// that synced earlier.
func (h *Handler) UploadMedia(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	kind := c.PostForm("kind")
	if kind != "audio" && kind != "image" {
		response.BadRequest(c, "kind must be audio or image")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	url, err := h.Blob.Save(claims.UserID, header.Filename, file)
	if err != nil {
		h.Logger.Sugar().Errorw("media save failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c)
		return
	}

	if entryID := c.PostForm("entry_id"); entryID != "" {
		column := "audio_url"
		if kind == "image" {
			column = "image_url"
		}
		if err := h.Repo.Entry.SetMediaURL(c.Request.Context(), claims.UserID, entryID, column, url); err != nil {
			h.Logger.Sugar().Warnw("media ref patch failed", "entry_id", entryID, "err", err)
		}
	}

	response.Created(c, model.UploadRes{URL: url})
}
