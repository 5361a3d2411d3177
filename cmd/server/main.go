package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/devconnector/backend/internal/auth"
	"github.com/ayush/devconnector/backend/internal/config"
	"github.com/ayush/devconnector/backend/internal/middleware"
	"github.com/ayush/devconnector/backend/internal/posts"
	"github.com/ayush/devconnector/backend/internal/ratelimit"
	"github.com/ayush/devconnector/backend/internal/server"
	"github.com/ayush/devconnector/backend/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.JWTSecret == "" {
		log.Printf("JWT_SECRET is not set: registration and login will fail")
	}

	// ── MongoDB ──────────────────────────────────────────────
	var mongoDB *mongo.Database
	if cfg.UserStore == "mongo" || cfg.PostStore == "mongo" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("mongo connect: %v", err)
		}
		defer mongoClient.Disconnect(ctx)
		if err := mongoClient.Ping(ctx, nil); err != nil {
			log.Fatalf("mongo ping: %v", err)
		}
		mongoDB = mongoClient.Database(cfg.MongoDB)
	}

	// ── Users ────────────────────────────────────────────────
	var users auth.UserStore
	switch cfg.UserStore {
	case "mongo":
		s := store.NewMongoUserStore(mongoDB)
		if err := s.EnsureIndexes(ctx); err != nil {
			log.Fatalf("mongo user indexes: %v", err)
		}
		users = s
	case "postgres":
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pgPool.Close()
		s := store.NewPostgresUserStore(pgPool)
		if err := s.Migrate(ctx); err != nil {
			log.Fatalf("postgres migrate: %v", err)
		}
		users = s
	case "memory":
		users = store.NewMemoryUserStore()
	default:
		log.Fatalf("unknown USER_STORE %q", cfg.UserStore)
	}

	// ── Posts ────────────────────────────────────────────────
	var postStore posts.PostStore
	switch cfg.PostStore {
	case "mongo":
		s := store.NewMongoPostStore(mongoDB)
		if err := s.EnsureIndexes(ctx); err != nil {
			log.Fatalf("mongo post indexes: %v", err)
		}
		postStore = s
	case "memory":
		postStore = store.NewMemoryPostStore()
	default:
		log.Fatalf("unknown POST_STORE %q", cfg.PostStore)
	}

	// ── Redis ────────────────────────────────────────────────
	var limiter middleware.Limiter = ratelimit.NewMemory()
	if cfg.RedisAddr != "" {
		rdb, err := ratelimit.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedis(rdb)
	}

	// ── MinIO ────────────────────────────────────────────────
	var archive posts.Archiver
	if cfg.MinioEndpoint != "" {
		minioArchive, err := store.NewMinioArchive(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatalf("minio connect: %v", err)
		}
		archive = minioArchive
	}

	// ── Handlers ─────────────────────────────────────────────
	tokens := auth.NewTokenService(cfg.JWTSecret)
	authHandler := auth.NewHandler(auth.NewDirectory(users, tokens))
	postHandler := posts.NewHandler(posts.NewService(postStore, users, archive))

	// ── Router ───────────────────────────────────────────────
	r := server.NewRouter(server.Deps{
		Tokens:          tokens,
		Auth:            authHandler,
		Posts:           postHandler,
		Limiter:         limiter,
		WritesPerMinute: cfg.WritesPerMinute,
		CORSOrigins:     cfg.CORSOrigins,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
