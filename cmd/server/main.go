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

	"blogging-api/internal/config"
	"blogging-api/internal/handler"
	"blogging-api/internal/middleware"
	"blogging-api/internal/repository"
	"blogging-api/internal/service"
	"blogging-api/internal/websocket"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	couchURL := fmt.Sprintf("http://%s:%s@%s:%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
	)

	client, err := kivik.New("couch", couchURL)
	if err != nil {
		log.Fatalf("Failed to connect to CouchDB: %v", err)
	}

	exists, err := client.DBExists(context.Background(), cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to check database existence: %v", err)
	}

	if !exists {
		if err := client.CreateDB(context.Background(), cfg.Database.Name); err != nil {
			log.Fatalf("Failed to create database: %v", err)
		}
		log.Printf("Created database: %s", cfg.Database.Name)
	}

	if err := repository.EnsureBlogIndexes(client, cfg.Database.Name); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	if err := repository.EnsureUserIndexes(client, cfg.Database.Name); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	userRepo := repository.NewUserRepository(client, cfg.Database.Name)
	blogRepo := repository.NewBlogRepository(client, cfg.Database.Name)

	feed := websocket.NewHub(cfg.Feed.WriteWait, cfg.Feed.PongWait, cfg.Feed.PingPeriod)
	go feed.Run()

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	blogService := service.NewBlogService(blogRepo, userRepo, feed)

	authHandler := handler.NewAuthHandler(authService)
	blogHandler := handler.NewBlogHandler(blogService)
	feedHandler := handler.NewFeedHandler(feed, cfg.Feed.ReadBufferSize, cfg.Feed.WriteBufferSize)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Public read access to published posts.
	api.HandleFunc("/blogs", blogHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/blogs/{id}", blogHandler.Get).Methods("GET", "OPTIONS")

	protected := api.PathPrefix("/blogs").Subrouter()
	protected.Use(middleware.AuthMiddleware(authService))

	protected.HandleFunc("", blogHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/me/all", blogHandler.Mine).Methods("GET", "OPTIONS")
	protected.HandleFunc("/{id}", blogHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/{id}", blogHandler.Delete).Methods("DELETE", "OPTIONS")

	r.HandleFunc("/ws", feedHandler.HandleConnection)
	r.HandleFunc("/", healthHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting Blogging API on %s (env: %s)", addr, cfg.Server.Env)
		log.Printf("Connected to CouchDB at %s:%s", cfg.Database.Host, cfg.Database.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"blogging-api"}`))
}
