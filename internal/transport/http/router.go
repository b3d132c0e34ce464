package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-photo-share/internal/application/auth"
	"github.com/go-photo-share/internal/application/post"
	"github.com/go-photo-share/internal/application/user"
	"github.com/go-photo-share/internal/config"
	"github.com/go-photo-share/internal/pkg/password"
	"github.com/go-photo-share/internal/transport/http/handler"
	appmiddleware "github.com/go-photo-share/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// lifetime of background work such as rate-limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", appmiddleware.TokenHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.NotFound(handler.NotFound)

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10 on the credential endpoints.
	credentialsRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10, cfg.TrustProxy)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo: deps.UserRepo,
		Hasher:   password.NewHasher(),
		Tokens:   deps.JWTProvider,
		Events:   deps.Events,
	})
	userSvc := user.NewService(deps.UserRepo)
	postSvc := post.NewService(post.ServiceDeps{
		PostRepo:  deps.PostRepo,
		UserRepo:  deps.UserRepo,
		Images:    deps.Images,
		Watermark: deps.Watermark,
		Events:    deps.Events,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	postH := handler.NewPostHandler(postSvc, cfg.MaxUploadBytes)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", healthH.Check)
		r.With(credentialsRL.Limit).Post("/auth/register", authH.Register)
		r.With(credentialsRL.Limit).Post("/auth/login", authH.Login)
		r.Get("/posts/all", postH.ListAll)
		r.Get("/posts/{id}/image", postH.Image)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/user/me", userH.Me)
			r.Get("/posts", postH.ListMine)
			r.Post("/posts", postH.Create)
			r.Delete("/posts/{id}", postH.Delete)
			r.Post("/watermark", postH.Preview)
		})
	})

	return r
}
