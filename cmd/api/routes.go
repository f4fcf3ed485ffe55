package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (app *application) routes() http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// simple logger middleware that uses zap
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "duration", time.Since(start))
	})

	// connectivity probe used by clients to detect reachability
	r.HEAD("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// uploaded audio/images
	r.Static("/media", app.Handler.Blob.Dir())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/signup", app.Handler.SignUp)
		v1.POST("/login", app.Handler.Login)
		v1.POST("/tokens/renew", app.Handler.RenewAccessToken)
	}

	protected := v1.Group("/")
	protected.Use(app.AuthMiddleware())
	{
		protected.GET("/me", app.Handler.Me)
		protected.POST("/logout", app.Handler.Logout)
		protected.POST("/tokens/revoke", app.Handler.RevokeSession)

		// journal entries
		protected.POST("/entries", app.Handler.CreateEntry)
		protected.GET("/entries", app.Handler.ListEntries)
		protected.GET("/entries/:id", app.Handler.GetEntry)
		protected.PATCH("/entries/:id", app.Handler.PatchEntry)
		protected.DELETE("/entries/:id", app.Handler.DeleteEntry)

		// streaks
		protected.GET("/streak", app.Handler.GetStreak)

		// categories
		protected.POST("/categories", app.Handler.CreateCategory)
		protected.GET("/categories", app.Handler.ListCategories)
		protected.DELETE("/categories/:id", app.Handler.DeleteCategory)

		// AI collaborators
		protected.POST("/ai/feedback", app.Handler.AIFeedback)
		protected.POST("/ai/transcribe", app.Handler.Transcribe)

		// media uploads
		protected.POST("/media", app.Handler.UploadMedia)

		// social graph
		protected.POST("/invites", app.Handler.CreateInvite)
		protected.POST("/invites/redeem", app.Handler.RedeemInvite)
		protected.POST("/follows/requests", app.Handler.RequestFollow)
		protected.GET("/follows/requests", app.Handler.ListFollowRequests)
		protected.POST("/follows/requests/:id/accept", app.Handler.AcceptFollowRequest)
		protected.POST("/follows/requests/:id/decline", app.Handler.DeclineFollowRequest)
		protected.GET("/follows/following", app.Handler.ListFollowing)
		protected.GET("/follows/followers", app.Handler.ListFollowers)
		protected.DELETE("/follows/:user_id", app.Handler.Unfollow)
		protected.GET("/feed", app.Handler.GetFeed)
	}

	return r
}
