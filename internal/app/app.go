package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/votely/server/internal/module/checkout"
	"github.com/votely/server/internal/module/gateway"
	"github.com/votely/server/internal/module/payment"
	paymentprovider "github.com/votely/server/internal/module/payment/provider"
	"github.com/votely/server/internal/module/plan"
	"github.com/votely/server/internal/module/region"
	"github.com/votely/server/internal/module/subscription"
	sharedcache "github.com/votely/server/internal/shared/cache"
	"github.com/votely/server/internal/shared/config"
	"github.com/votely/server/internal/shared/database"
	"github.com/votely/server/internal/shared/logger"
	"github.com/votely/server/internal/utils/metrics"
	"github.com/votely/server/internal/utils/middleware"
)

// App represents the application.
type App struct {
	config  *config.Config
	db      *gorm.DB
	redis   redis.UniversalClient
	router  *gin.Engine
	logger  *zap.Logger
	metrics *metrics.Metrics

	// Modules
	resolver            *region.Resolver
	planRepo            plan.Repository
	planHandler         *plan.Handler
	gatewayRouter       *gateway.Router
	gatewayHandler      *gateway.Handler
	orchestrator        *payment.Orchestrator
	paymentHandler      *payment.Handler
	webhookHandler      *payment.WebhookHandler
	checkoutHandler     *checkout.Handler
	subscriptionService *subscription.Service
	subscriptionHandler *subscription.Handler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.NewZap(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app := &App{
		config:  cfg,
		logger:  log,
		metrics: metrics.New(""),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := app.migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	app.redis = redisClient

	if err := app.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.router = app.setupRouter()
	app.registerRoutes()

	return app, nil
}

// migrate applies the schema for all persistent models.
func (a *App) migrate() error {
	return a.db.AutoMigrate(
		&plan.Plan{},
		&gateway.Config{},
		&payment.Intent{},
		&payment.WebhookEvent{},
		&subscription.Subscription{},
	)
}

// initModules wires all application modules.
func (a *App) initModules() error {
	a.resolver = region.NewResolver(a.logger)

	// Plan module
	a.planRepo = plan.NewRepository(a.db)
	a.planHandler = plan.NewHandler(a.planRepo, a.logger)

	// Gateway module, with the Redis-cached config repository
	gatewayRepo := gateway.NewCachedRepository(
		gateway.NewRepository(a.db),
		a.redis,
		a.config.Checkout.GatewayConfigTTL,
		a.logger,
	)
	a.gatewayRouter = gateway.NewRouter(gatewayRepo, a.logger)
	a.gatewayHandler = gateway.NewHandler(a.gatewayRouter, gatewayRepo, a.planRepo, a.resolver, a.logger)

	// Payment module
	registry := payment.NewProviderRegistry()
	if a.config.Stripe.APIKey != "" {
		registry.Register(paymentprovider.NewStripeProvider(&paymentprovider.StripeConfig{
			APIKey:        a.config.Stripe.APIKey,
			WebhookSecret: a.config.Stripe.WebhookSecret,
		}))
	}
	if a.config.Paddle.APIKey != "" {
		paddleProvider, err := paymentprovider.NewPaddleProvider(&paymentprovider.PaddleConfig{
			APIKey:        a.config.Paddle.APIKey,
			WebhookSecret: a.config.Paddle.WebhookSecret,
			Environment:   a.config.Paddle.Environment,
		})
		if err != nil {
			return fmt.Errorf("create paddle provider: %w", err)
		}
		registry.Register(paddleProvider)
	}

	paymentRepo := payment.NewRepository(a.db)
	a.orchestrator = payment.NewOrchestrator(
		paymentRepo,
		registry,
		a.metrics,
		a.config.Checkout.GatewayCallTimeout,
		a.config.Paddle.CheckoutBaseURL,
		a.logger,
	)
	a.paymentHandler = payment.NewHandler(a.orchestrator, a.gatewayRouter, a.planRepo, a.resolver, a.logger)

	// Subscription module
	a.subscriptionService = subscription.NewService(
		subscription.NewRepository(a.db),
		a.planRepo,
		a.logger,
	)
	a.subscriptionHandler = subscription.NewHandler(a.subscriptionService, a.logger)

	a.webhookHandler = payment.NewWebhookHandler(
		a.orchestrator,
		paymentRepo,
		a.subscriptionService,
		a.metrics,
		a.logger,
	)

	// Checkout module
	sessionStore := checkout.NewRedisStore(
		a.redis,
		a.config.Checkout.SessionTTL,
		a.config.Checkout.ConfirmationTTL,
	)
	checkoutService := checkout.NewService(
		sessionStore,
		a.planRepo,
		a.gatewayRouter,
		a.resolver,
		a.orchestrator,
		a.subscriptionService,
		a.metrics,
		a.logger,
	)
	a.checkoutHandler = checkout.NewHandler(checkoutService, a.logger)

	return nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// registerRoutes registers routes for all modules.
func (a *App) registerRoutes() {
	v1 := a.router.Group("/api/v1")

	limiter := middleware.NewRateLimiter(a.redis)
	v1.Use(middleware.RateLimitByEndpoint(limiter, 100, time.Minute))

	// Public routes
	a.planHandler.RegisterRoutes(v1)
	a.gatewayHandler.RegisterRoutes(v1)
	a.subscriptionHandler.RegisterRoutes(v1)
	a.checkoutHandler.RegisterRoutes(v1)

	// Payment creation replays cached responses for repeated
	// Idempotency-Key headers on top of the orchestrator's own guard.
	payments := v1.Group("")
	payments.Use(middleware.Idempotency(a.redis, 24*time.Hour))
	a.paymentHandler.RegisterRoutes(payments)

	// Admin routes (JWT protected)
	admin := v1.Group("/admin")
	admin.Use(middleware.AdminAuth(a.config.Admin.JWTSecret))
	a.planHandler.RegisterAdminRoutes(admin)
	a.gatewayHandler.RegisterAdminRoutes(admin)

	// Webhook routes (signature verified, no auth)
	webhooks := a.router.Group("/webhooks")
	a.webhookHandler.RegisterRoutes(webhooks)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop stops the application and releases resources.
func (a *App) Stop() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = database.Close(a.db)
	}
}
