package router

import (
	"time"

	_ "github.com/stain603/industrial-inventory-manager/docs"
	"github.com/stain603/industrial-inventory-manager/internal/config"
	"github.com/stain603/industrial-inventory-manager/internal/handler"
	"github.com/stain603/industrial-inventory-manager/internal/infra"
	"github.com/stain603/industrial-inventory-manager/internal/middleware"
	"github.com/stain603/industrial-inventory-manager/internal/repository"
	"github.com/stain603/industrial-inventory-manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Services bundles what the composition root builds, so that cmd/server can
// hand the production service to the report scheduler.
type Services struct {
	RawMaterials     service.RawMaterialService
	Products         service.ProductService
	ProductMaterials service.ProductMaterialService
	Production       service.ProductionService
}

// NewServices wires repositories into services.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func NewServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Services {
	cache := infra.NewCache(rdb)

	materialRepo := repository.NewRawMaterialRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	productRepo := repository.NewProductRepository(db)
	lineRepo := repository.NewProductMaterialRepository(db)

	return &Services{
		RawMaterials:     service.NewRawMaterialService(materialRepo, movementRepo, cache),
		Products:         service.NewProductService(productRepo, materialRepo, cache),
		ProductMaterials: service.NewProductMaterialService(lineRepo, productRepo, materialRepo, cache),
		Production:       service.NewProductionService(productRepo, materialRepo, cache, cfg.SuggestionsTTL(), cfg.ReportStoragePath, cfg.ReportKeep),
	}
}

// New returns a configured Gin engine serving svcs.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs *Services) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := middleware.NewMetrics("inventory")
	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(metrics.Middleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(limiter.Middleware())

	rawH := handler.NewRawMaterialsHandler(svcs.RawMaterials)
	productsH := handler.NewProductsHandler(svcs.Products)
	linesH := handler.NewProductMaterialsHandler(svcs.ProductMaterials)
	productionH := handler.NewProductionHandler(svcs.Production, metrics.ObserveReport)
	jobsH := handler.NewJobsHandler(rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", metrics.Handler())

	// Reads are public; writes need a token once JWT_SECRET is set.
	auth := cfg.AuthEnabled()
	write := []gin.HandlerFunc{middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(auth, middleware.RoleAdmin, middleware.RoleOperator)}
	admin := []gin.HandlerFunc{middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(auth, middleware.RoleAdmin)}

	raw := r.Group("/raw-materials")
	{
		raw.GET("", rawH.List)
		raw.GET("/:id", rawH.Get)
		raw.GET("/:id/movements", rawH.Movements)
		raw.POST("", chain(write, rawH.Create)...)
		raw.PUT("/:id", chain(write, rawH.Update)...)
		raw.PATCH("/:id/stock", chain(write, rawH.AdjustStock)...)
		raw.DELETE("/:id", chain(admin, rawH.Delete)...)
	}

	products := r.Group("/products")
	{
		products.GET("", productsH.List)
		products.GET("/:id", productsH.Get)
		products.POST("", chain(write, productsH.Create)...)
		products.PUT("/:id", chain(write, productsH.Update)...)
		products.DELETE("/:id", chain(admin, productsH.Delete)...)
	}

	lines := r.Group("/product-materials")
	{
		lines.GET("", linesH.List)
		lines.GET("/:id", linesH.Get)
		lines.GET("/product/:productId", linesH.ListByProduct)
		lines.POST("", chain(write, linesH.Create)...)
		lines.PUT("/:id", chain(write, linesH.Update)...)
		lines.DELETE("/:id", chain(write, linesH.Delete)...)
	}

	prod := r.Group("/production")
	{
		prod.GET("/suggestions", productionH.Suggestions)
		prod.GET("/capacity", productionH.Capacity)
		prod.GET("/capacity/:productId", productionH.ProductCapacity)
		prod.GET("/report.pdf", productionH.ReportPDF)
		prod.GET("/report.xlsx", productionH.ReportXLSX)
	}

	r.GET("/jobs/dead-letters", chain(admin, jobsH.DeadLetters)...)

	// Swagger UI, outside production only
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}
