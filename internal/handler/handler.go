package handler

import (
	"time"

	"github.com/TeamUpswell/wgw/internal/ai"
	"github.com/TeamUpswell/wgw/internal/auth"
	"github.com/TeamUpswell/wgw/internal/blob"
	"github.com/TeamUpswell/wgw/internal/cache"
	"github.com/TeamUpswell/wgw/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	Logger      *zap.Logger
	Repo        *repository.Repository
	TokenMaker  *auth.JWTMaker
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	Streaks     *cache.StreakCache
	TextGen     *ai.TextGenClient
	Transcriber *ai.TranscribeClient
	Blob        *blob.Store
}

// GetClaimsFromContext retrieves the verified token claims set by the auth
// middleware.
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.UserClaims {
	v, exists := c.Get("claims")
	if !exists {
		return nil
	}
	claims, ok := v.(*auth.UserClaims)
	if !ok {
		return nil
	}
	return claims
}
