package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"beatstitch/internal/config"
	"beatstitch/internal/engine"
	"beatstitch/internal/handlers"
	"beatstitch/internal/handlers/api"
	"beatstitch/internal/jobs"
	"beatstitch/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, client *engine.Client, registry *jobs.Registry, presets *config.YAMLConfig) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware()

	// Initialize handlers
	projectHandler := handlers.NewProjectHandler(client, registry, presets, s.Cfg)
	mediaHandler := handlers.NewMediaHandler(client, s.Cfg)
	timelineHandler := handlers.NewTimelineHandler(client, s.Cfg)
	renderHandler := handlers.NewRenderHandler(client, registry, presets, s.Cfg)
	ruleHandler := handlers.NewRuleHandler(s.Cfg)
	profileHandler := handlers.NewProfileHandler(client, s.Cfg)
	probeHandler := handlers.NewProbeHandler(client)

	// Auth routes - OIDC is always required for frontend access
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. All users must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	// Login page (always available)
	s.App.Get("/login", func(c fiber.Ctx) error {
		return c.Render("login", handlers.MergeBranding(fiber.Map{}, s.Cfg))
	})

	// Frontend routes - always require authentication
	s.App.Get("/", authMiddleware.RequireAuth, projectHandler.Index)
	s.App.Get("/new", authMiddleware.RequireAuth, projectHandler.New)
	s.App.Post("/projects", authMiddleware.RequireAuth, projectHandler.Create)
	s.App.Get("/projects/:id", authMiddleware.RequireAuth, projectHandler.Show)
	s.App.Put("/projects/:id", authMiddleware.RequireAuth, projectHandler.Update)
	s.App.Delete("/projects/:id", authMiddleware.RequireAuth, projectHandler.Delete)
	s.App.Get("/profile", authMiddleware.RequireAuth, profileHandler.Show)

	// Media bin
	s.App.Post("/projects/:id/media", authMiddleware.RequireAuth, mediaHandler.Upload)
	s.App.Delete("/projects/:id/media/:mediaID", authMiddleware.RequireAuth, mediaHandler.Delete)
	s.App.Put("/projects/:id/media/order", authMiddleware.RequireAuth, mediaHandler.Reorder)
	s.App.Get("/projects/:id/media/:mediaID/content", authMiddleware.RequireAuth, mediaHandler.Stream)

	// Audio track
	s.App.Post("/projects/:id/audio", authMiddleware.RequireAuth, mediaHandler.UploadAudio)
	s.App.Get("/projects/:id/audio", authMiddleware.RequireAuth, mediaHandler.AudioStatus)

	// Timeline visualizer
	s.App.Get("/projects/:id/timeline", authMiddleware.RequireAuth, timelineHandler.Show)
	s.App.Post("/projects/:id/timeline", authMiddleware.RequireAuth, timelineHandler.Generate)
	s.App.Post("/projects/:id/timeline/zoom-in", authMiddleware.RequireAuth, timelineHandler.ZoomIn)
	s.App.Post("/projects/:id/timeline/zoom-out", authMiddleware.RequireAuth, timelineHandler.ZoomOut)

	// Render jobs
	s.App.Post("/projects/:id/render", authMiddleware.RequireAuth, renderHandler.Submit)
	s.App.Get("/jobs/:id/status", authMiddleware.RequireAuth, renderHandler.Status)
	s.App.Post("/jobs/:id/cancel", authMiddleware.RequireAuth, renderHandler.Cancel)
	s.App.Get("/jobs/:id/download", authMiddleware.RequireAuth, renderHandler.Download)

	// Rule preview (HTMX, fired on keyup from the rule input)
	s.App.Get("/rules/preview", authMiddleware.RequireAuth, ruleHandler.Preview)

	// JSON API for scripted clients
	projectsAPI := api.NewProjectsHandler(client)
	jobsAPI := api.NewJobsHandler(client, registry)
	ruleAPI := api.NewRuleHandler()
	healthAPI := api.NewHealthHandler(client, registry)

	apiGroup := s.App.Group("/api", authMiddleware.RequireAuth)
	apiGroup.Get("/projects", projectsAPI.List)
	apiGroup.Post("/projects", projectsAPI.Create)
	apiGroup.Get("/projects/:id", projectsAPI.Get)
	apiGroup.Delete("/projects/:id", projectsAPI.Delete)
	apiGroup.Get("/jobs", jobsAPI.Counts)
	apiGroup.Get("/jobs/:id", jobsAPI.Get)
	apiGroup.Get("/rules/preview", ruleAPI.Preview)
	apiGroup.Get("/health", healthAPI.Get)

	// Operational endpoints, unauthenticated for probes and scrapers
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}
