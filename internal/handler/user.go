package handler

import (
	"time"

	"github.com/TeamUpswell/wgw/pkg"
	"github.com/TeamUpswell/wgw/pkg/model"
	"github.com/TeamUpswell/wgw/pkg/response"
	"github.com/gin-gonic/gin"
)

// SignUp creates a new user
func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("signup bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	pwHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		h.Logger.Sugar().Errorw("failed to hash password", "err", err)
		response.InternalError(c)
		return
	}

	userID, err := h.Repo.User.Create(ctx, req.Email, req.DisplayName, pwHash)
	if err != nil {
		h.Logger.Sugar().Errorw("user create failed", "email", req.Email, "err", err)
		// hide DB errors from clients; duplicate email surfaces as a generic failure
		response.BadRequest(c, "could not create user")
		return
	}

	response.Created(c, model.UserRes{UserID: userID, Email: req.Email, DisplayName: req.DisplayName})
}

// Login verifies credentials and returns access and refresh tokens
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("login bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	user, err := h.Repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		h.Logger.Sugar().Warnw("login user not found", "email", req.Email, "err", err)
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if err := pkg.ComparePassword(user.PasswordHash, req.Password); err != nil {
		h.Logger.Sugar().Warnw("login password mismatch", "email", req.Email, "err", err)
		response.Unauthorized(c, "invalid credentials")
		return
	}

	refreshToken, refreshClaims, err := h.TokenMaker.GenerateToken(user.UserID, user.Email, h.RefreshTTL, "")
	if err != nil {
		h.Logger.Sugar().Errorw("error creating refresh token", "err", err)
		response.InternalError(c)
		return
	}

	accessToken, accessClaims, err := h.TokenMaker.GenerateToken(user.UserID, user.Email, h.AccessTTL, refreshClaims.SessionID)
	if err != nil {
		h.Logger.Sugar().Errorw("error creating access token", "err", err)
		response.InternalError(c)
		return
	}

	session, err := h.Repo.Token.CreateSession(ctx, &model.UserToken{
		UserTokenID:  refreshClaims.RegisteredClaims.ID,
		UserID:       user.UserID,
		RefreshToken: refreshToken,
		ExpiresAt:    refreshClaims.RegisteredClaims.ExpiresAt.Time,
		DeviceInfo:   c.Request.UserAgent(),
		IsRevoked:    false,
	})
	if err != nil {
		h.Logger.Sugar().Errorw("error creating session", "err", err)
		response.InternalError(c)
		return
	}

	response.OK(c, model.LoginUserRes{
		SessionID:             session.UserTokenID,
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessClaims.RegisteredClaims.ExpiresAt.Time,
		RefreshTokenExpiresAt: refreshClaims.RegisteredClaims.ExpiresAt.Time,
		ExpiresAt:             accessClaims.RegisteredClaims.ExpiresAt.Time.Unix(),
		User:                  model.UserRes{UserID: user.UserID, Email: user.Email, DisplayName: user.DisplayName},
	})
}

// Me returns the current user profile
func (h *Handler) Me(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	user, err := h.Repo.User.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Unauthorized(c, "")
		return
	}

	response.OK(c, model.UserRes{UserID: user.UserID, Email: user.Email, DisplayName: user.DisplayName})
}

func (h *Handler) Logout(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	// SessionID ties the access token back to its refresh session row
	if err := h.Repo.Token.DeleteSession(c.Request.Context(), claims.SessionID); err != nil {
		response.InternalError(c)
		return
	}
	response.Message(c, "user logged out successfully")
}

func (h *Handler) RenewAccessToken(c *gin.Context) {
	var req model.RenewAccessTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	refreshClaims, err := h.TokenMaker.VerifyToken(req.RefreshToken)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	session, err := h.Repo.Token.GetSession(c.Request.Context(), refreshClaims.RegisteredClaims.ID)
	if err != nil {
		// a missing session row means the session was terminated; clients
		// treat this as a sign-out signal
		response.Unauthorized(c, "session not found")
		return
	}

	if session.IsRevoked {
		response.Unauthorized(c, "session blocked")
		return
	}

	if session.UserID != refreshClaims.UserID {
		response.Unauthorized(c, "incorrect session user")
		return
	}

	if time.Now().After(session.ExpiresAt) {
		response.Unauthorized(c, "expired session")
		return
	}

	accessToken, accessClaims, err := h.TokenMaker.GenerateToken(refreshClaims.UserID, refreshClaims.Email, h.AccessTTL, refreshClaims.SessionID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, model.RenewAccessTokenRes{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: accessClaims.RegisteredClaims.ExpiresAt.Time,
		ExpiresAt:            accessClaims.RegisteredClaims.ExpiresAt.Time.Unix(),
	})
}

func (h *Handler) RevokeSession(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	if err := h.Repo.Token.RevokeSession(c.Request.Context(), claims.SessionID); err != nil {
		response.InternalError(c)
		return
	}
	response.Message(c, "session revoked successfully")
}
