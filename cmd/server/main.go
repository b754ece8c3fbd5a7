package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-swamp/internal/config"
	"campus-swamp/internal/database"
	"campus-swamp/internal/engine"
	"campus-swamp/internal/handlers"
	"campus-swamp/internal/live"
	"campus-swamp/internal/middleware"
	"campus-swamp/internal/presence"
	"campus-swamp/internal/storage"
	"campus-swamp/internal/utils"
	"campus-swamp/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	middleware.InitJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	metrics := utils.NewMetricsCollector()

	mongodb, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongodb.Close(ctx); err != nil {
			log.Printf("Failed to close MongoDB connection: %v", err)
		}
	}()

	s3, err := storage.NewS3Client(context.Background(), *cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	bus := live.NewBus()
	tracker := presence.NewTracker(mongodb, bus, cfg.Presence.HeartbeatInterval, cfg.Presence.StalenessWindow)

	system := actor.NewActorSystem()
	swampEngine := engine.NewEngine(system, mongodb, bus, cfg)

	hub := websocket.NewHub(tracker, bus, mongodb)
	go hub.Run()

	server := handlers.NewServer(system, system.Root, swampEngine, metrics, mongodb, bus, tracker, hub, s3)

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("/health", server.HandleSimpleHealth())
	mux.HandleFunc("/health/full", server.HandleHealth())
	mux.HandleFunc("/auth/register", server.HandleUserRegistration())
	mux.HandleFunc("/auth/login", server.HandleUserLogin())

	// Authenticated routes
	mux.HandleFunc("/auth/logout", middleware.AuthMiddleware(server.HandleUserLogout()))
	mux.HandleFunc("/profile", middleware.AuthMiddleware(server.HandleGetProfile()))
	mux.HandleFunc("/profile/update", middleware.AuthMiddleware(server.HandleUpdateProfile()))
	mux.HandleFunc("/users", middleware.AuthMiddleware(server.HandleGetAllUsers()))
	mux.HandleFunc("/users/roster", middleware.AuthMiddleware(server.HandleGetRoster()))

	mux.HandleFunc("/friends", middleware.AuthMiddleware(server.HandleGetFriends()))
	mux.HandleFunc("/friends/request", middleware.AuthMiddleware(server.HandleSendFriendRequest()))
	mux.HandleFunc("/friends/respond", middleware.AuthMiddleware(server.HandleRespondFriendRequest()))
	mux.HandleFunc("/friends/requests/pending", middleware.AuthMiddleware(server.HandleGetPendingRequests()))
	mux.HandleFunc("/friends/requests/sent", middleware.AuthMiddleware(server.HandleGetSentRequests()))

	mux.HandleFunc("/messages/send", middleware.AuthMiddleware(server.HandleSendDirectMessage()))
	mux.HandleFunc("/messages/conversation", middleware.AuthMiddleware(server.HandleGetConversation()))
	mux.HandleFunc("/messages/conversations", middleware.AuthMiddleware(server.HandleGetConversations()))
	mux.HandleFunc("/messages/read", middleware.AuthMiddleware(server.HandleMarkMessageRead()))
	mux.HandleFunc("/messages/conversation/read", middleware.AuthMiddleware(server.HandleMarkConversationRead()))
	mux.HandleFunc("/messages/unread", middleware.AuthMiddleware(server.HandleGetUnreadCount()))

	mux.HandleFunc("/chat/send", middleware.AuthMiddleware(server.HandleSendGroupMessage()))
	mux.HandleFunc("/chat/messages", middleware.AuthMiddleware(server.HandleGetGroupMessages()))
	mux.HandleFunc("/chat/react", middleware.AuthMiddleware(server.HandleToggleGroupReaction()))

	mux.HandleFunc("/feed", middleware.AuthMiddleware(server.HandleGetFeed()))
	mux.HandleFunc("/feed/post", middleware.AuthMiddleware(server.HandleCreateFeedPost()))
	mux.HandleFunc("/feed/react", middleware.AuthMiddleware(server.HandleTogglePostReaction()))
	mux.HandleFunc("/feed/comment", middleware.AuthMiddleware(server.HandleCreateComment()))
	mux.HandleFunc("/feed/comments", middleware.AuthMiddleware(server.HandleGetComments()))

	mux.HandleFunc("/events", middleware.AuthMiddleware(server.HandleGetEvents()))
	mux.HandleFunc("/events/create", middleware.AuthMiddleware(server.HandleCreateEvent()))
	mux.HandleFunc("/media", middleware.AuthMiddleware(server.HandleGetMedia()))
	mux.HandleFunc("/media/save", middleware.AuthMiddleware(server.HandleSaveMedia()))
	mux.HandleFunc("/uploads/presign", middleware.AuthMiddleware(server.HandlePresignUpload()))

	// WebSocket authenticates via its token query parameter.
	mux.HandleFunc("/ws", server.HandleWebSocket())

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	handler := middleware.CORSMiddleware(corsConfig)(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Flip everyone offline before the process exits.
	tracker.StopAll()
}
