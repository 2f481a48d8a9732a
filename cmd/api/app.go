package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lifelessons/internal/apiclient"
	"lifelessons/internal/config"
	"lifelessons/internal/database"
	"lifelessons/internal/middleware"
	"lifelessons/internal/modules/admin"
	"lifelessons/internal/modules/auth"
	"lifelessons/internal/modules/catalog"
	"lifelessons/internal/modules/comment"
	"lifelessons/internal/modules/favorite"
	"lifelessons/internal/modules/lesson"
	"lifelessons/internal/modules/notification"
	"lifelessons/internal/modules/user"
	"lifelessons/internal/pkg/idtoken"
	jwtsvc "lifelessons/internal/pkg/jwt"
	"lifelessons/internal/pkg/ratelimit"
	"lifelessons/internal/repository"
	"lifelessons/internal/workspace"
)

const limiterIdleTTL = 10 * time.Minute

type app struct {
	router   *gin.Engine
	hub      *comment.Hub
	registry *workspace.Registry
}

// newApp wires every module onto one gin engine.
func newApp(cfg *config.Config, db *gorm.DB, logger *slog.Logger, opts ...apiclient.Option) (*app, error) {
	if err := database.Migrate(db, &repository.SessionModel{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	sessionRepo := repository.NewSessionRepository(db)

	sessionTokens := jwtsvc.New(cfg.Session.Secret, cfg.Session.TTL)
	identityTokens := jwtsvc.New(cfg.Identity.Secret, cfg.Identity.TokenTTL).WithIssuer(cfg.Identity.Issuer)

	limiter := ratelimit.New(cfg.API.RateRPS, cfg.API.RateBurst, limiterIdleTTL)
	opts = append([]apiclient.Option{apiclient.WithLimiter(limiter)}, opts...)
	registry := workspace.NewRegistry(workspace.Config{
		API: apiclient.Config{
			BaseURL:     cfg.API.BaseURL,
			ContentType: cfg.API.ContentType,
			Timeout:     cfg.API.Timeout,
		},
		CacheTTL: cfg.Portal.CacheTTL,
		Limiter:  limiter,
	}, identityTokens, logger, opts...)

	sessionAuth := middleware.NewSessionAuth(sessionTokens, sessionRepo, registry)

	// services
	userService := user.NewService(logger)
	catalogService := catalog.NewService(userService, cfg.Portal.CatalogPageSize, logger)
	favoriteService := favorite.NewService(userService, logger)
	lessonService := lesson.NewService(userService, catalogService, logger)
	hub := comment.NewHub(cfg.Portal.CommentPollInterval, middleware.Origins(cfg.CORSAllowedOrigins), logger)
	commentService := comment.NewService(userService, hub, logger)
	adminService := admin.NewService(cfg.Portal.ProtectedAdminEmail, logger)
	var googleTokens auth.IDTokenVerifier
	if cfg.Google.Enabled() {
		googleTokens = idtoken.New(context.Background(), idtoken.Config{
			ProjectID: cfg.Google.ProjectID,
			Issuer:    cfg.Google.Issuer,
			JWKSURL:   cfg.Google.JWKSURL,
		})
	} else {
		logger.Warn("google sign-in disabled: FIREBASE_PROJECT_ID is not set")
	}
	authService := auth.NewService(sessionRepo, sessionTokens, registry, googleTokens, cfg.Session.TTL, logger)

	// handlers
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	catalogHandler := catalog.NewHandler(catalogService)
	favoriteHandler := favorite.NewHandler(favoriteService)
	lessonHandler := lesson.NewHandler(lessonService)
	commentHandler := comment.NewHandler(commentService, hub, sessionAuth)
	notificationHandler := notification.NewHandler()
	adminHandler := admin.NewHandler(adminService)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorLogger(logger), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "workspaces": registry.Len(), "comment_feeds": hub.Count("")})
	})

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		public := v1.Group("")
		public.Use(sessionAuth.Optional())
		{
			catalogHandler.RegisterRoutes(public)
			favoriteHandler.RegisterPublicRoutes(public)
			lessonHandler.RegisterPublicRoutes(public)
			commentHandler.RegisterPublicRoutes(public)
		}

		protected := v1.Group("")
		protected.Use(sessionAuth.Required())
		{
			authHandler.RegisterProtectedRoutes(protected)
			userHandler.RegisterRoutes(protected)
			favoriteHandler.RegisterProtectedRoutes(protected)
			lessonHandler.RegisterProtectedRoutes(protected)
			commentHandler.RegisterProtectedRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly(userService))
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	return &app{router: r, hub: hub, registry: registry}, nil
}
