package routes

import (
	"context"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"gizmohub_back_end/internal/cache"
	"gizmohub_back_end/internal/config"
	"gizmohub_back_end/internal/events"
	"gizmohub_back_end/internal/handlers"
	"gizmohub_back_end/internal/handlers/admin"
	"gizmohub_back_end/internal/handlers/checkout"
	"gizmohub_back_end/internal/handlers/product"
	"gizmohub_back_end/internal/handlers/user"
	"gizmohub_back_end/internal/middleware"
	"gizmohub_back_end/internal/search"
	"gizmohub_back_end/internal/service"
	"gizmohub_back_end/internal/storage"
	"gizmohub_back_end/internal/utils"
)

// Deps are the connections the router is built from. Every field but DB, Config and Tokens may be nil.
type Deps struct {
	DB     *gorm.DB
	Config config.Config
	Tokens *utils.TokenIssuer

	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
	Gateway service.PaymentGateway
	Mailer  *utils.Mailer
	Events  *events.Producer

	Ping func(ctx context.Context) map[string]string
}

// Setup wires services, handlers and middleware into a gin engine.
func Setup(d Deps) *gin.Engine {
	cfg := d.Config

	auth := service.NewAuthService(d.DB, d.Tokens, nil)
	catalog := service.NewCatalogService(d.DB)
	carts := service.NewCartService(d.DB, cfg.TaxRate)
	orders := service.NewOrderService(d.DB, cfg.TaxRate)
	payments := service.NewPaymentService(d.DB, cfg.Currency)
	dashboard := service.NewAdminService(d.DB, cfg.LowStockThreshold)

	mw := Middleware{Auth: middleware.AuthRequired(d.Tokens, nil)}
	var notifier *cache.CartNotifier

	if d.Redis != nil {
		blacklist := cache.NewTokenBlacklist(d.Redis)
		catalogCache := cache.NewCatalog(d.Redis)
		notifier = cache.NewCartNotifier(d.Redis)

		auth = service.NewAuthService(d.DB, d.Tokens, blacklist)
		mw.Auth = middleware.AuthRequired(d.Tokens, blacklist)
		mw.LoginLimit = middleware.LoginRateLimit(cache.NewAttempts(d.Redis, "login"))
		mw.AdminLoginLimit = middleware.LoginRateLimit(cache.NewAttempts(d.Redis, "admin_login"))
		mw.RegisterLimit = middleware.RegisterRateLimit(cache.NewAttempts(d.Redis, "register"))

		catalog.WithCache(catalogCache)
		carts.WithNotifier(notifier)
		orders.WithCatalogCache(catalogCache).WithNotifier(notifier)
	}
	if d.Elastic != nil {
		catalog.WithIndex(search.NewProductIndex(d.Elastic))
	}
	if d.MinIO != nil {
		catalog.WithImages(storage.NewImageStore(d.MinIO, storage.Options{
			Endpoint: cfg.MinioEndpoint,
			Bucket:   cfg.MinioBucket,
			UseSSL:   cfg.MinioUseSSL,
		}))
	}
	if d.Gateway != nil {
		payments.WithGateway(d.Gateway)
	}
	if d.Mailer != nil {
		payments.WithMailer(d.Mailer)
	}
	if d.Events != nil {
		orders.WithEvents(d.Events)
		payments.WithEvents(d.Events)
	}

	ping := d.Ping
	if ping == nil {
		ping = func(context.Context) map[string]string { return map[string]string{"postgres": "ok"} }
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID(), corsMiddleware(cfg.CORSOrigins))

	RegisterRoutes(r, Handlers{
		Auth:       user.NewAuthHandler(auth),
		Cart:       user.NewCartHandler(carts),
		CartSocket: user.NewCartSocket(carts, notifier),
		Orders:     user.NewOrderHandler(orders),
		Catalog:    product.NewCatalogHandler(catalog),
		Payments:   checkout.NewPaymentHandler(payments),
		Dashboard:  admin.NewDashboardHandler(dashboard),
		Health:     handlers.Health(ping),
	}, mw)
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Retry-After", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
