package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/draftforge/content-platform/docs"
	"github.com/draftforge/content-platform/internal/api/handler"
	"github.com/draftforge/content-platform/internal/api/middleware"
	"github.com/draftforge/content-platform/internal/core/ports"
	"github.com/draftforge/content-platform/internal/core/service"
	"github.com/draftforge/content-platform/internal/infrastructure/backend"
	"github.com/draftforge/content-platform/internal/infrastructure/config"
	mongodb "github.com/draftforge/content-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/draftforge/content-platform/internal/infrastructure/db/redis"
	"github.com/draftforge/content-platform/internal/infrastructure/oauth"
)

const authRatePerMinute = 30

// NewRouter builds and returns the Echo instance with all routes registered.
// The email sender and retry queue are created by the caller so their worker
// lifecycle stays in main.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, sender ports.EmailSender, emailQueue handler.EmailQueue, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("content_platform"))

	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Dependencies ---
	identityRepo := mongodb.NewIdentityRepository(db)
	prefsRepo := mongodb.NewPreferencesRepository(db)
	limiter := redisdb.NewLoginLimiter(rdb, 0, 0)
	statusCache := redisdb.NewStatusCache(rdb)

	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIKey, cfg.Backend.Timeout)

	authService := service.NewAuthService(identityRepo, limiter, cfg.Session.JWTSecret, cfg.Session.MaxAge, cfg.Session.UpdateAge, log)
	generationService := service.NewGenerationService(backendClient, statusCache, cfg.Backend.AssumeCompleteOn404, log)

	authHandler := handler.NewAuthHandler(authService, sender, emailQueue, cfg.Session.MaxAge, log)
	generationHandler := handler.NewGenerationHandler(generationService)
	contentHandler := handler.NewContentHandler(backendClient)
	prefsHandler := handler.NewPreferencesHandler(prefsRepo)
	healthHandler := handler.NewHealthHandler(db, rdb, backendClient)

	requireAuth := middleware.Auth(authService)

	// Page-style routes go through the guard; API routes answer 401 instead
	// of redirecting.
	e.Use(middleware.Guard(authService, middleware.DefaultRouteTable()))

	// --- Auth routes (per-IP rate limited) ---
	authLimiter := middleware.NewRateLimiter(authRatePerMinute, authRatePerMinute)
	auth := e.Group("/v1/auth", authLimiter.Middleware())
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", authHandler.Me, requireAuth)

	if cfg.OAuth.GoogleEnabled() {
		google := oauth.NewGoogle(oauth.GoogleConfig{
			ClientID:     cfg.OAuth.GoogleClientID,
			ClientSecret: cfg.OAuth.GoogleClientSecret,
			RedirectURL:  cfg.OAuth.GoogleRedirectURL,
		})
		oauthHandler := handler.NewOAuthHandler(google, authService, cfg.Session.MaxAge, log)
		auth.GET("/oauth/google", oauthHandler.Redirect)
		auth.GET("/oauth/google/callback", oauthHandler.Callback)
	}

	// --- Internal session check (consumed by constrained front-end runtimes) ---
	e.GET("/api/internal/session-check", authHandler.SessionCheck)

	// --- Authenticated API ---
	v1 := e.Group("/v1", requireAuth)
	v1.POST("/generations", generationHandler.Submit)
	v1.GET("/generations/:request_id", generationHandler.Status)
	v1.GET("/generations/:request_id/wait", generationHandler.Wait)
	v1.GET("/templates", contentHandler.ListTemplates)
	v1.GET("/style-profiles", contentHandler.ListStyleProfiles)
	v1.GET("/content", contentHandler.ListContent)
	v1.POST("/content/:id/publish", contentHandler.Publish)
	v1.GET("/preferences", prefsHandler.Get)
	v1.PUT("/preferences", prefsHandler.Put)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/health/backend", healthHandler.Backend)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
