package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/blog-backend/internal/api/handlers"
	"github.com/baharkarakas/blog-backend/internal/api/httpx"
	"github.com/baharkarakas/blog-backend/internal/auth"
	"github.com/baharkarakas/blog-backend/internal/config"
	"github.com/baharkarakas/blog-backend/internal/metrics"
	"github.com/baharkarakas/blog-backend/internal/middleware"
	"github.com/baharkarakas/blog-backend/internal/models"
	"github.com/baharkarakas/blog-backend/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	Log        *slog.Logger
	Tokens     *auth.TokenManager
	UserSvc    *services.UserService
	PostSvc    *services.PostService
	CommentSvc *services.CommentService
}

func NewRouter(d RouterDeps) http.Handler {
	metrics.Init()

	authMW := middleware.NewAuthMiddleware(d.Tokens, d.UserSvc, d.Log)
	authH := handlers.NewAuthHandler(d.UserSvc, d.Log)
	usersH := handlers.NewUsersHandler(d.UserSvc, d.PostSvc, d.Log)
	postsH := handlers.NewPostsHandler(d.PostSvc, d.Log)
	commentsH := handlers.NewCommentsHandler(d.CommentSvc, d.Log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover(d.Log), middleware.HTTPMetrics(d.Log), middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
			r.Post("/refresh", authH.Refresh)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", usersH.List)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", usersH.Get)
				r.With(authMW.Optional).Get("/posts", usersH.ListPosts)
				r.Group(func(r chi.Router) {
					r.Use(authMW.Auth)
					r.Put("/", usersH.Update)
					r.Delete("/", usersH.Delete)
					r.With(middleware.RequireRole(models.RoleAdmin)).Patch("/role", usersH.SetRole)
				})
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postsH.ListPublished)
			r.With(authMW.Auth).Post("/", postsH.Create)
			r.With(authMW.Auth).Get("/author", postsH.ListAuthor)

			r.Route("/{postID}", func(r chi.Router) {
				r.Get("/", postsH.Get)
				r.Get("/comments", commentsH.ListForPost)
				r.Get("/comments/{commentID}", commentsH.Get)
				r.Group(func(r chi.Router) {
					r.Use(authMW.Auth)
					r.Put("/", postsH.Update)
					r.Delete("/", postsH.Delete)
					r.Patch("/publish", postsH.Publish)
					r.Post("/comments", commentsH.CreateNested)
					r.Put("/comments/{commentID}", commentsH.Update)
					r.Delete("/comments/{commentID}", commentsH.Delete)
				})
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.With(authMW.Auth).Post("/", commentsH.CreateFlat)
			r.Get("/post/{postID}", commentsH.ListForPost)
			r.Route("/{commentID}", func(r chi.Router) {
				r.Get("/", commentsH.Get)
				r.With(authMW.Auth).Put("/", commentsH.Update)
				r.With(authMW.Auth).Delete("/", commentsH.Delete)
			})
		})
	})

	return r
}
