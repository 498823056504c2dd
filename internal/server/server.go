// Package server contains the HTTP handlers and routing of the API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "folio/docs" // swagger docs
	"folio/internal/auth"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	codec          *auth.TokenCodec
	limiter        *middleware.RateLimiter

	authService    *service.AuthService
	blogService    *service.BlogService
	commentService *service.CommentService
	projectService *service.ProjectService
	tagService     *service.TagService
	userService    *service.UserService
	fileService    *service.FileService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching and rate limiting then degrade.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	codec, err := auth.NewTokenCodec(cfg.JWTSecret,
		auth.WithTTL(cfg.TokenTTL()),
		auth.WithIssuer(cfg.JWTIssuer),
		auth.WithAudience(cfg.JWTAudience),
	)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	store := repository.NewStore(db)
	verifier := auth.NewCredentialVerifier(cfg.BcryptCost)
	labels := service.NewLabelSynchronizer()

	var rdb redis.Cmdable
	if redisClient != nil {
		rdb = redisClient
	}

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("folio-api"),
		codec:          codec,
		limiter:        middleware.NewRateLimiter(rdb, cfg.Env),
		authService: service.NewAuthService(store, codec, verifier, service.AuthOptions{
			DistinctErrors: cfg.DistinctLoginErrors(),
			QuickLogin:     cfg.QuickLoginEnabled(),
			AdminUsername:  cfg.AdminUsername,
		}),
		blogService:    service.NewBlogService(store, labels),
		commentService: service.NewCommentService(store, service.NewCommentCounter()),
		projectService: service.NewProjectService(store, labels),
		tagService:     service.NewTagService(store),
		userService:    service.NewUserService(store, verifier, cfg.AdminUsername),
		fileService:    service.NewFileService(cfg),
	}, nil
}

// NewApp builds the Fiber app with middleware and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "folio API",
		BodyLimit:    int(s.fileService.MaxSizeBytes()) + 1024*1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler turns errors that escape handlers into the JSON error payload.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := ""
		switch fe.Code {
		case fiber.StatusNotFound:
			code = models.CodeNotFound
		case fiber.StatusRequestEntityTooLarge, fiber.StatusBadRequest:
			code = models.CodeValidation
		}
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message, Code: code})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithAppError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Identity never rejects; routes enforce their own policy.
	app.Use(middleware.Identity(s.codec))
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || !s.config.IsProduction()
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	api.Get("/util/health", s.LivenessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", middleware.RequireRole(models.RoleAdmin), monitor.New(monitor.Config{
		Title: "folio metrics",
	}))

	api.Get("/swagger/*", swagger.HandlerDefault)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/login", s.limiter.Limit("login", 10, 5*time.Minute, middleware.FailOpen), s.Login)
	authRoutes.Post("/register", s.limiter.Limit("register", 3, 10*time.Minute, middleware.FailClosed), s.Register)
	if s.config.QuickLoginEnabled() {
		authRoutes.Post("/admin", s.QuickLogin)
	}
	authRoutes.Get("/me", middleware.RequireAuth(), s.Me)

	blogs := api.Group("/blogs")
	blogs.Get("/", s.ListPosts)
	blogs.Post("/", middleware.RequireRole(models.RoleAdmin), s.CreatePost)
	// Specific /:id/:resource routes before the generic /:id routes.
	blogs.Get("/:id/comments", s.ListComments)
	blogs.Post("/:id/comments", middleware.RequireAuth(),
		s.limiter.Limit("comment", 5, time.Minute, middleware.FailOpen), s.CreateComment)
	blogs.Delete("/:id/comments/:commentId", middleware.RequireAuth(), s.DeleteComment)
	blogs.Put("/:id/status", middleware.RequireAuth(), s.TogglePostStatus)
	blogs.Get("/:id", s.GetPost)
	blogs.Put("/:id", middleware.RequireAuth(), s.UpdatePost)
	blogs.Delete("/:id", middleware.RequireAuth(), s.DeletePost)

	projects := api.Group("/projects")
	projects.Get("/", s.ListProjects)
	projects.Post("/", middleware.RequireRole(models.RoleAdmin), s.CreateProject)
	projects.Get("/:id", s.GetProject)
	projects.Put("/:id", middleware.RequireAuth(), s.UpdateProject)
	projects.Delete("/:id", middleware.RequireAuth(), s.DeleteProject)

	api.Get("/tags", s.ListTags)
	api.Get("/technologies", s.ListTechnologies)

	users := api.Group("/users")
	users.Get("/admin-profile", s.GetAdminProfile)
	users.Put("/avatar", middleware.RequireAuth(), s.UpdateAvatar)

	files := api.Group("/files")
	files.Post("/upload", middleware.RequireAuth(),
		s.limiter.Limit("upload", 20, time.Minute, middleware.FailOpen), s.UploadFile)
	files.Get("/:filename", s.ServeFile)
	app.Get("/files/:filename", s.ServeFile)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: its
// absence is reported but does not fail the probe.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
