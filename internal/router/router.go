package router

import (
	"context"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/auth"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/cache"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/config"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/handler"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/middleware"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/repository"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SessionRoutes lists every method and path that requires the AccessToken
// cookie. Sign-in, refresh and the storefront order intake stay public.
func SessionRoutes() *middleware.RouteTable {
	all := []string{"GET", "POST", "PUT", "DELETE"}
	return middleware.NewRouteTable().
		Add("/api/v1/auth", "GET").
		Add("/api/v1/auth/sign-out", "POST").
		Add("/api/v1/stocks", all...).
		Add("/api/v1/stocks/count", "GET").
		Add("/api/v1/stocks/:stockId", all...).
		Add("/api/v1/products", all...).
		Add("/api/v1/products/:productId", all...).
		Add("/api/v1/products/bulk-create", all...).
		Add("/api/v1/products/product-stocks/:productId", all...).
		Add("/api/v1/products/bundle-product", all...).
		Add("/api/v1/products/bundle-product/bulk-create", all...).
		Add("/api/v1/reorder-levels", "GET").
		Add("/api/v1/orders", all...).
		Add("/api/v1/orders/:orderId", "GET", "PUT", "DELETE").
		Add("/api/v1/orders/:orderId/pdf", "GET").
		Add("/api/v1/orders/bulk-create", all...).
		Add("/api/v1/orders/save-order", "GET", "PUT", "DELETE").
		Add("/api/v1/stats", "GET")
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// Background middleware work stops when ctx is done.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	accessCodec := auth.NewCodec(cfg.AccessTokenSecret, time.Duration(cfg.AccessTokenTTLHours)*time.Hour)
	refreshCodec := auth.NewCodec(cfg.RefreshTokenSecret, time.Duration(cfg.RefreshTokenTTLHours)*time.Hour)

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute))
	r.Use(middleware.Metrics())
	r.Use(middleware.SessionGate(SessionRoutes(), accessCodec))

	// ── Infrastructure ───────────────────────────────────────────────────────
	statsCache := cache.New(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	bundleRepo := repository.NewBundleProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	errorLogRepo := repository.NewErrorLogRepository(db)
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	stockSvc := service.NewStockService(movementRepo, productRepo, statsCache, cfg)
	productSvc := service.NewProductService(productRepo, bundleRepo, stockSvc, statsCache, cfg)
	orderSvc := service.NewOrderService(orderRepo, bundleRepo, productRepo, errorLogRepo, stockSvc, statsCache, cfg)
	statsSvc := service.NewStatsService(productRepo, movementRepo, orderRepo, statsCache, cfg)
	authSvc := service.NewAuthService(userRepo, refreshTokenRepo, accessCodec, refreshCodec)

	// ── Handlers ─────────────────────────────────────────────────────────────
	stocksH := handler.NewStocksHandler(stockSvc)
	productsH := handler.NewProductsHandler(productSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	authH := handler.NewAuthHandler(authSvc, handler.CookieSettings{
		Secure:     cfg.IsProduction(),
		AccessTTL:  accessCodec.TTL(),
		RefreshTTL: refreshCodec.TTL(),
	})

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	authG := v1.Group("/auth")
	{
		authG.POST("/sign-in", middleware.SignInRateLimiter(ctx), authH.SignIn)
		authG.POST("/refresh-token", authH.Refresh)
		authG.POST("/sign-out", authH.SignOut)
		authG.GET("", authH.Me)
	}

	stocks := v1.Group("/stocks")
	{
		stocks.GET("", stocksH.List)
		stocks.POST("", stocksH.Create)
		stocks.GET("/count", stocksH.Count)
		stocks.PUT("/:stockId", stocksH.Update)
		stocks.DELETE("/:stockId", stocksH.Delete)
	}

	products := v1.Group("/products")
	{
		products.GET("", productsH.List)
		products.POST("", productsH.Create)
		products.POST("/bulk-create", productsH.BulkCreate)
		products.GET("/:productId", productsH.Get)
		products.PUT("/:productId", productsH.Update)
		products.PUT("/product-stocks/:productId", stocksH.CreateForProduct)
		products.POST("/bundle-product", productsH.CreateBundle)
		products.POST("/bundle-product/bulk-create", productsH.BulkCreateBundles)
	}
	v1.GET("/reorder-levels", productsH.ReorderLevels)

	orders := v1.Group("/orders")
	{
		orders.GET("", ordersH.List)
		orders.POST("", ordersH.Create)
		orders.POST("/save-order", ordersH.Create)
		orders.POST("/bulk-create", ordersH.BulkImport)
		orders.GET("/:orderId", ordersH.Get)
		orders.GET("/:orderId/pdf", ordersH.PackingSlip)
	}

	v1.GET("/stats", statsH.Dashboard)

	// Swagger UI is only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
