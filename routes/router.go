package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cppla/consigliere/config"
	"github.com/cppla/consigliere/controllers"
	"github.com/cppla/consigliere/middleware"
	"github.com/cppla/consigliere/services"
	"github.com/cppla/consigliere/utils"
)

// Dependencies carries the process-wide resources the router builds services on.
type Dependencies struct {
	DB *gorm.DB
	// Redis may be nil; revoked tokens are then kept in memory
	Redis *redis.Client
	// Clock defaults to the wall clock in the configured timezone
	Clock services.Clock
	// QuoteSource defaults to the configured HTTP quote API
	QuoteSource services.QuoteSource
	// MetricsHandler defaults to promhttp.Handler()
	MetricsHandler http.Handler
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, deps Dependencies) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	if deps.Clock == nil {
		deps.Clock = services.NewSystemClock(cfg.Location())
	}
	if deps.QuoteSource == nil && cfg.QuoteAPIURL != "" {
		deps.QuoteSource = services.NewHTTPQuoteSource(cfg.QuoteAPIURL, cfg.QuoteTimeout)
	}
	if deps.MetricsHandler == nil {
		deps.MetricsHandler = promhttp.Handler()
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, true))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}
	r.Use(middleware.RequestMetrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	streaks := services.NewStreakService(deps.DB)
	checkIns := services.NewCheckInService(deps.DB, streaks, cfg)
	users := services.NewUserService(deps.DB, cfg)
	quotes := services.NewQuoteService(deps.DB, deps.QuoteSource, cfg.QuoteTimeout)
	analytics := services.NewAnalyticsService(checkIns)
	dashboard := services.NewDashboardService(checkIns, streaks, quotes)
	blacklist := utils.NewTokenBlacklist(deps.Redis)

	healthController := controllers.NewHealthController(deps.DB)
	authController := controllers.NewAuthController(users, blacklist, cfg.JWTSecret, cfg.AccessTokenTTL)
	userController := controllers.NewUserController(users, blacklist, cfg.AccessTokenTTL, cfg.UploadDir, cfg.MaxUploadSize)
	checkInController := controllers.NewCheckInController(checkIns, deps.Clock)
	streakController := controllers.NewStreakController(streaks, deps.Clock)
	quoteController := controllers.NewQuoteController(quotes, deps.Clock)
	analyticsController := controllers.NewAnalyticsController(users, analytics, deps.Clock)
	dashboardController := controllers.NewDashboardController(dashboard, deps.Clock)

	r.GET("/health", healthController.Health)
	r.GET("/ready", healthController.Ready)
	r.GET("/metrics", gin.WrapH(deps.MetricsHandler))

	authRequired := middleware.AuthRequired(cfg.JWTSecret, blacklist)
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", authRequired, authController.Logout)

	// Public quote of the day
	api.GET("/quote/today", quoteController.Today)

	protected := api.Group("")
	protected.Use(authRequired)

	protected.GET("/user/profile", userController.Profile)
	protected.PUT("/user/goals", userController.UpdateGoals)
	protected.POST("/user/profile-picture", userController.UploadProfilePicture)
	protected.DELETE("/user", userController.Delete)

	protected.POST("/check-in", checkInController.Create)
	protected.GET("/check-in/today", checkInController.Today)
	protected.GET("/check-in/history", checkInController.History)
	protected.GET("/streak", streakController.Get)

	protected.GET("/analytics/weekly", analyticsController.Weekly)
	protected.GET("/analytics/monthly", analyticsController.Monthly)
	protected.GET("/dashboard", dashboardController.Get)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
