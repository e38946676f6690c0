package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/techbridge/movies/backend/config"
	"github.com/techbridge/movies/backend/handlers"
	"github.com/techbridge/movies/backend/middleware"
	"github.com/techbridge/movies/backend/models"
	"github.com/techbridge/movies/backend/service"
	"github.com/techbridge/movies/backend/store"
	"github.com/techbridge/movies/backend/token"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal("mongodb indexes:", err)
	}
	if seeded, err := db.AdminExists(ctx); err == nil && !seeded {
		log.Println("no admin account yet; POST /api/auth/init-users to seed one")
	}

	var s3Service *service.S3Service
	if cfg.S3Bucket != "" {
		s3Service, err = service.NewS3Service(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			log.Fatal("s3:", err)
		}
	} else {
		log.Println("warning: AWS_S3_BUCKET not set; poster uploads will be unavailable")
	}

	issuer := token.NewIssuer(cfg.JWTSecret)
	authHandler := &handlers.AuthHandler{
		Users:        db,
		Issuer:       issuer,
		AdminEmail:   cfg.AdminEmail,
		AdminPass:    cfg.AdminPass,
		CookieSecure: cfg.CookieSecure,
	}
	moviesHandler := &handlers.MoviesHandler{DB: db}
	uploadHandler := &handlers.UploadHandler{
		S3:       s3Service,
		MaxBytes: cfg.MaxUploadMB * 1024 * 1024,
	}

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.RateLimit(cfg.LimiterEnabled, cfg.LimiterRPS, cfg.LimiterBurst))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Welcome to Tech Bridge API"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Post("/auth/init-users", authHandler.InitUsers)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(issuer, db))
			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/verify-token", authHandler.VerifyToken)
			r.Get("/movies", moviesHandler.List)
			r.Get("/movies/filters", moviesHandler.Filters)
			r.Get("/movies/{id}", moviesHandler.Get)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Post("/movies", moviesHandler.Create)
				r.Put("/movies/{id}", moviesHandler.Update)
				r.Delete("/movies/{id}", moviesHandler.Delete)
				r.Post("/movies/poster", uploadHandler.UploadPoster)
			})
		})
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}
