package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/exchange_office_app/cmd/docs"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/middleware"
	"github.com/SscSPs/exchange_office_app/internal/platform/config"
	"github.com/SscSPs/exchange_office_app/internal/platform/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter builds the engine with the global middleware chain and every route.
// gatherer may be nil, in which case /metrics is not served.
func NewRouter(
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	logger *slog.Logger,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.StructuredLoggingMiddleware(logger))
	r.Use(middleware.MetricsMiddleware(collector))
	r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	if err := RegisterRoutes(r, cfg, services); err != nil {
		return nil, err
	}
	return r, nil
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	r.GET("/health", getHealth)

	// Public authentication routes
	if err := registerAuthRoutes(r, cfg, services.Auth, services.Token); err != nil {
		return err
	}

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(service.Token))

	registerExchangeRateRoutes(v1, service.ExchangeRate)
	registerTransactionRoutes(v1, cfg, service.Transaction, service.Invoice)
	registerUserRoutes(v1, service.User)
	registerSettingsRoutes(v1, service.Settings)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func loginLimiter(cfg *config.Config) (gin.HandlerFunc, error) {
	rate := cfg.LoginRateLimit
	if rate == "" {
		rate = "5-M"
	}
	lim, err := middleware.NewMemoryLimiter(rate)
	if err != nil {
		return nil, fmt.Errorf("login rate limit: %w", err)
	}
	return middleware.RateLimit(lim), nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		// cors panics when no origin is allowed at all
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
