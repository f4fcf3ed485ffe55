package handler

import (
	"time"

	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/TeamUpswell/wgw/pkg/response"
	"github.com/TeamUpswell/wgw/pkg/streak"
	"github.com/gin-gonic/gin"
)

// GetStreak computes the caller's current and longest streak from entry
// timestamps. The result is cached briefly per user; the calculation itself
// is always a full recompute, never an incremental update.
//
// An optional tz query param names the device time zone so day boundaries
// match what the user sees; it defaults to UTC.
func (h *Handler) GetStreak(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	ctx := c.Request.Context()
	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			response.BadRequest(c, "invalid tz")
			return
		}
		loc = parsed
	} else if cached, ok := h.Streaks.Get(ctx, claims.UserID); ok {
		// only the default-zone result is cached
		response.OK(c, cached)
		return
	}

	times, err := h.Repo.Entry.ListTimestamps(ctx, claims.UserID)
	if err != nil {
		h.Logger.Sugar().Errorw("streak timestamps query failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c)
		return
	}

	summary := streak.Calculate(times, time.Now(), loc)
	res := model.StreakRes{
		CurrentStreak: summary.Current,
		LongestStreak: summary.Longest,
	}
	if !summary.LastEntryDate.IsZero() {
		res.LastEntryDate = summary.LastEntryDate.Format("2006-01-02")
	}

	if loc == time.UTC {
		if err := h.Streaks.Set(ctx, claims.UserID, res); err != nil {
			h.Logger.Sugar().Warnw("streak cache set failed", "user_id", claims.UserID, "err", err)
		}
	}

	response.OK(c, res)
}
