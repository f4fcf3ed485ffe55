package handler

import (
	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/TeamUpswell/wgw/pkg/response"
	"github.com/gin-gonic/gin"
)

// AIFeedback generates an encouragement for a transcription. This endpoint
// never returns a vendor error to the client; on failure the response body
// carries a templated message with fallback=true.
func (h *Handler) AIFeedback(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.AIFeedbackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	text, fallback := h.TextGen.Encourage(c.Request.Context(), req.Transcription, req.Category)
	if fallback {
		h.Logger.Sugar().Warnw("ai feedback fell back to template", "user_id", claims.UserID)
	}
	response.OK(c, model.AIFeedbackRes{Response: text, Fallback: fallback})
}

// Transcribe accepts a multipart audio upload and returns its transcription
func (h *Handler) Transcribe(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		response.BadRequest(c, "audio file is required")
		return
	}
	defer file.Close()

	text, err := h.Transcriber.Transcribe(c.Request.Context(), header.Filename, file)
	if err != nil {
		h.Logger.Sugar().Errorw("transcription failed", "user_id", claims.UserID, "err", err)
		response.BadRequest(c, "could not transcribe audio")
		return
	}
	response.OK(c, model.TranscriptionRes{Text: text})
}
