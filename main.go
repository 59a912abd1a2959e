package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/handlers"
	"vidtube/internal/repository"
	"vidtube/internal/routes"
	"vidtube/internal/services"
)

func main() {

	// =========================
	// LOAD CONFIG
	// =========================
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config load failed: ", err)
	}

	// =========================
	// CONNECT DATABASE
	// =========================
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Database connection failed: ", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Database migration failed: ", err)
	}

	// =========================
	// INIT REPOSITORIES
	// =========================
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)

	// =========================
	// INIT SERVICES
	// =========================
	tokenService := services.NewTokenService(cfg)
	storageService, err := services.NewCloudinaryStorage(cfg)
	if err != nil {
		log.Fatal("Cloudinary init failed: ", err)
	}

	// =========================
	// INIT HANDLERS
	// =========================
	h := routes.Handlers{
		Users:         handlers.NewUserHandler(userRepo, tokenService, storageService, cfg),
		Videos:        handlers.NewVideoHandler(videoRepo, likeRepo, userRepo, storageService),
		Comments:      handlers.NewCommentHandler(commentRepo, videoRepo),
		Likes:         handlers.NewLikeHandler(likeRepo, videoRepo, commentRepo, tweetRepo),
		Subscriptions: handlers.NewSubscriptionHandler(subscriptionRepo, userRepo),
		Tweets:        handlers.NewTweetHandler(tweetRepo, userRepo),
		Playlists:     handlers.NewPlaylistHandler(playlistRepo, videoRepo, userRepo),
		Dashboard:     handlers.NewDashboardHandler(videoRepo, subscriptionRepo),
	}

	// =========================
	// ROUTES
	// =========================
	router := routes.SetupRoutes(cfg, h, tokenService, userRepo)

	// =========================
	// SERVER CONFIG
	// =========================
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.ServerPort
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// =========================
	// START SERVER
	// =========================
	go func() {
		log.Printf("VidTube API running on %s (%s)", server.Addr, cfg.Env)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Println("Server error:", err)
		}
	}()

	// =========================
	// GRACEFUL SHUTDOWN
	// =========================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Forced shutdown:", err)
	}

	log.Println("Server exited properly")
}
