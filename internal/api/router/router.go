package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guildworks/marketboard/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "marketboard-api",
		})
	})

	authHandler := handler.NewAuthHandler(deps)
	jobHandler := handler.NewJobHandler(deps)
	bidHandler := handler.NewBidHandler(deps)
	srHandler := handler.NewServiceRequestHandler(deps)
	notificationHandler := handler.NewNotificationHandler(deps)
	profileHandler := handler.NewProfileHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", AuthMiddleware(deps.Tokens), authHandler.Me)
	}

	authed := v1.Group("", AuthMiddleware(deps.Tokens))
	{
		jobs := authed.Group("/jobs")
		{
			jobs.POST("", jobHandler.PostJob)
			jobs.GET("", jobHandler.ListOpenJobs)
			jobs.GET("/mine", jobHandler.ListMyJobs)
			jobs.GET("/:job_id", jobHandler.GetJob)
			jobs.PATCH("/:job_id", jobHandler.UpdateJob)
			jobs.POST("/:job_id/accept", jobHandler.AcceptBid)
			jobs.POST("/:job_id/complete", jobHandler.MarkCompleted)
			jobs.POST("/:job_id/deliver", jobHandler.MarkDelivered)
			jobs.GET("/:job_id/bids", jobHandler.ListBidsForJob)
			jobs.POST("/:job_id/bids", bidHandler.PlaceBid)
		}

		bids := authed.Group("/bids")
		{
			bids.GET("/mine", bidHandler.ListMyBids)
			bids.PATCH("/:bid_id", bidHandler.UpdateBid)
			bids.DELETE("/:bid_id", bidHandler.DeleteBid)
		}

		serviceRequests := authed.Group("/service-requests")
		{
			serviceRequests.POST("", srHandler.Create)
			serviceRequests.GET("", srHandler.List)
			serviceRequests.GET("/:request_id", srHandler.Get)
			serviceRequests.POST("/:request_id/accept", srHandler.Accept)
			serviceRequests.POST("/:request_id/deny", srHandler.Deny)
			serviceRequests.POST("/:request_id/complete", srHandler.Complete)
			serviceRequests.POST("/:request_id/feedback", srHandler.RequestFeedback)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/:notification_id/read", notificationHandler.MarkRead)
			notifications.POST("/messages", RequireStaff(), notificationHandler.SendCustomMessage)
		}

		profiles := authed.Group("/profiles")
		{
			profiles.GET("/me", profileHandler.GetMine)
			profiles.PATCH("/me", profileHandler.Update)
			profiles.GET("/:user_id", profileHandler.Get)
		}
	}

	return r
}
