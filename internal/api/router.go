package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/teamspace/internal/api/handler"
	customMiddleware "github.com/Rrens/teamspace/internal/api/middleware"
	"github.com/Rrens/teamspace/internal/config"
	"github.com/Rrens/teamspace/internal/mail"
	"github.com/Rrens/teamspace/internal/policy"
	"github.com/Rrens/teamspace/internal/repository/postgres"
	"github.com/Rrens/teamspace/internal/repository/redis"
	"github.com/Rrens/teamspace/internal/security"
	"github.com/Rrens/teamspace/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(ctx context.Context, cfg *config.Config, db *postgres.DB, redisClient *redis.Client) (http.Handler, error) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	workspaceRepo := postgres.NewWorkspaceRepository(db)
	memberRepo := postgres.NewMemberRepository(db)
	projectRepo := postgres.NewProjectRepository(db)

	activeStore := redis.NewActiveWorkspaceStore(redisClient)
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)

	evaluator, err := policy.NewEvaluator(ctx, memberRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare access policy: %w", err)
	}

	mailer := mail.NewSender(cfg.Mail)
	if !cfg.Mail.Enabled() {
		log.Warn().Msg("SMTP not configured, invitation emails will only be logged")
	}

	// Services
	workspaceService := service.NewWorkspaceService(workspaceRepo, memberRepo, activeStore, evaluator)
	authService := service.NewAuthService(userRepo, workspaceService, jwtManager, hasher)
	memberService := service.NewMemberService(
		memberRepo,
		userRepo,
		workspaceRepo,
		activeStore,
		evaluator,
		mailer,
		cfg.Membership.DefaultPageLimit,
		cfg.Mail.AppURL,
	)
	projectService := service.NewProjectService(projectRepo, evaluator)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, memberService)
	memberHandler := handler.NewMemberHandler(memberService)
	projectHandler := handler.NewProjectHandler(projectService)

	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	identityMiddleware := customMiddleware.NewIdentityMiddleware(workspaceService)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	ready := handler.ReadyCheck(map[string]handler.Pinger{
		"database": db,
		"redis":    redisClient,
		"policy":   handler.PingerFunc(evaluator.HealthCheck),
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", ready)

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/me", authHandler.Me)

			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", workspaceHandler.List)
				r.Post("/", workspaceHandler.Create)
				r.With(customMiddleware.WorkspaceContext).Post("/{workspaceID}/accept", workspaceHandler.Accept)

				r.Route("/active", func(r chi.Router) {
					r.Use(identityMiddleware.Resolve)

					r.Get("/", workspaceHandler.GetActive)
					r.Patch("/", workspaceHandler.Update)
					r.Delete("/", workspaceHandler.Delete)
					r.Post("/switch", workspaceHandler.Switch)
				})
			})

			// Everything below acts on the active workspace
			r.Group(func(r chi.Router) {
				r.Use(identityMiddleware.Resolve)

				r.Route("/members", func(r chi.Router) {
					r.Get("/", memberHandler.List)
					r.Get("/all", memberHandler.All)
					r.Get("/roles", memberHandler.Descriptors)
					r.Post("/invite", memberHandler.Invite)
					r.Post("/leave", memberHandler.Leave)
					r.Delete("/{memberID}", memberHandler.Remove)
					r.Patch("/{memberID}/role", memberHandler.ChangeRole)
				})

				r.Route("/projects", func(r chi.Router) {
					r.Get("/", projectHandler.List)
					r.Post("/", projectHandler.Create)

					r.Route("/{projectID}", func(r chi.Router) {
						r.Get("/", projectHandler.Get)
						r.Patch("/", projectHandler.Update)
						r.Delete("/", projectHandler.Delete)
					})
				})
			})
		})
	})

	return r, nil
}
