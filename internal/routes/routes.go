package routes

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vidtube/internal/config"
	"vidtube/internal/handlers"
	"vidtube/internal/middleware"
	"vidtube/internal/repository"
	"vidtube/internal/services"
)

// Handlers bundles every route handler the router mounts.
type Handlers struct {
	Users         *handlers.UserHandler
	Videos        *handlers.VideoHandler
	Comments      *handlers.CommentHandler
	Likes         *handlers.LikeHandler
	Subscriptions *handlers.SubscriptionHandler
	Tweets        *handlers.TweetHandler
	Playlists     *handlers.PlaylistHandler
	Dashboard     *handlers.DashboardHandler
}

func SetupRoutes(
	cfg *config.Config,
	h Handlers,
	tokens services.TokenService,
	users repository.UserRepository,
) *gin.Engine {

	router := gin.New()

	// =========================
	// GLOBAL MIDDLEWARE
	// =========================
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// =========================
	// CORS CONFIG (DEV / PROD)
	// =========================
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.IsProduction() {
		if cfg.CORSOrigin == "" {
			log.Fatal("CORS_ORIGIN environment variable is NOT set in production!")
		}
		corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
		log.Printf("CORS configured for production: %s", cfg.CORSOrigin)
	} else {
		allowedOrigins := []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		}
		if cfg.CORSOrigin != "" {
			allowedOrigins = append(allowedOrigins, cfg.CORSOrigin)
		}

		corsConfig.AllowOriginFunc = func(origin string) bool {
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			// Allow local network IPs during development.
			return strings.HasPrefix(origin, "http://192.168.") || strings.HasPrefix(origin, "http://10.")
		}
		log.Printf("CORS configured for development with %d allowed origins", len(allowedOrigins))
	}

	router.Use(cors.New(corsConfig))

	// =========================
	// SECURITY HEADERS
	// =========================
	router.Use(func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	authGuard := middleware.Authenticate(tokens, users)
	// Auth endpoints are the only ones worth brute forcing.
	authLimiter := middleware.NewRateLimiter(5, 10)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "VidTube API is running",
		})
	})

	// =========================
	// API ROUTES
	// =========================
	api := router.Group("/api/v1")
	{
		api.GET("/healthcheck", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Everything is O.K",
			})
		})

		// ---------- USERS ----------
		usersGroup := api.Group("/users")
		{
			usersGroup.POST("/register", authLimiter.Middleware(), h.Users.Register)
			usersGroup.POST("/login", authLimiter.Middleware(), h.Users.Login)
			usersGroup.POST("/refresh-token", authLimiter.Middleware(), h.Users.RefreshSession)

			protected := usersGroup.Group("/")
			protected.Use(authGuard)
			{
				protected.POST("/logout", h.Users.Logout)
				protected.GET("/current-user", h.Users.GetProfile)
				protected.PATCH("/update-account", h.Users.UpdateProfile)
				protected.PATCH("/avatar", h.Users.UpdateAvatar)
				protected.PATCH("/cover-image", h.Users.UpdateCoverImage)
				protected.DELETE("/cover-image", h.Users.DeleteCoverImage)
				protected.POST("/change-password", h.Users.UpdatePassword)
				protected.GET("/c/:username", h.Users.GetChannelProfile)
				protected.GET("/history", h.Users.GetWatchHistory)
			}
		}

		// ---------- VIDEOS ----------
		videos := api.Group("/videos")
		videos.Use(authGuard)
		{
			videos.GET("/", h.Videos.Feed)
			videos.POST("/", h.Videos.Upload)
			videos.GET("/:videoId", h.Videos.GetByID)
			videos.PATCH("/:videoId", h.Videos.Update)
			videos.DELETE("/:videoId", h.Videos.Delete)
			videos.PATCH("/toggle/publish/:videoId", h.Videos.TogglePublish)
		}

		// ---------- COMMENTS ----------
		comments := api.Group("/comments")
		comments.Use(authGuard)
		{
			comments.GET("/:videoId", h.Comments.ListForVideo)
			comments.POST("/:videoId", h.Comments.Create)
			comments.PATCH("/c/:commentId", h.Comments.Update)
			comments.DELETE("/c/:commentId", h.Comments.Delete)
		}

		// ---------- LIKES ----------
		likes := api.Group("/likes")
		likes.Use(authGuard)
		{
			likes.POST("/toggle/v/:videoId", h.Likes.ToggleVideoLike)
			likes.POST("/toggle/c/:commentId", h.Likes.ToggleCommentLike)
			likes.POST("/toggle/t/:tweetId", h.Likes.ToggleTweetLike)
			likes.GET("/videos", h.Likes.LikedVideos)
		}

		// ---------- SUBSCRIPTIONS ----------
		subscriptions := api.Group("/subscriptions")
		subscriptions.Use(authGuard)
		{
			subscriptions.POST("/c/:channelId", h.Subscriptions.Toggle)
			subscriptions.GET("/channels", h.Subscriptions.SubscribedChannels)
			subscriptions.GET("/subscribers", h.Subscriptions.ChannelSubscribers)
		}

		// ---------- TWEETS ----------
		tweets := api.Group("/tweets")
		tweets.Use(authGuard)
		{
			tweets.POST("/", h.Tweets.Create)
			tweets.GET("/user/:userId", h.Tweets.ListForUser)
			tweets.PATCH("/:tweetId", h.Tweets.Update)
			tweets.DELETE("/:tweetId", h.Tweets.Delete)
		}

		// ---------- PLAYLISTS ----------
		playlists := api.Group("/playlists")
		playlists.Use(authGuard)
		{
			playlists.POST("/", h.Playlists.Create)
			playlists.GET("/user/:userId", h.Playlists.ListForUser)
			playlists.GET("/:playlistId", h.Playlists.GetByID)
			playlists.PATCH("/:playlistId", h.Playlists.Update)
			playlists.DELETE("/:playlistId", h.Playlists.Delete)
			playlists.PATCH("/add/:videoId/:playlistId", h.Playlists.AddVideo)
			playlists.PATCH("/remove/:videoId/:playlistId", h.Playlists.RemoveVideo)
		}

		// ---------- DASHBOARD ----------
		dashboard := api.Group("/dashboard")
		dashboard.Use(authGuard)
		{
			dashboard.GET("/stats", h.Dashboard.Stats)
			dashboard.GET("/videos", h.Dashboard.Videos)
		}
	}

	return router
}
