package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/crm-properties/crm-api/internal/api/handler"
	"github.com/crm-properties/crm-api/internal/api/middleware"
	"github.com/crm-properties/crm-api/internal/auth"
	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/service"
	"github.com/crm-properties/crm-api/internal/infrastructure/config"
	"github.com/crm-properties/crm-api/internal/infrastructure/db/mysql"
	redisdb "github.com/crm-properties/crm-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *sql.DB, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("crm"))

	// --- Dependencies ---
	userRepo := mysql.NewUserRepository(db)
	clientRepo := mysql.NewClientRepository(db)
	propertyRepo := mysql.NewPropertyRepository(db)
	dealRepo := mysql.NewDealRepository(db)
	activityRepo := mysql.NewActivityRepository(db)
	statsRepo := mysql.NewStatsRepository(db)
	metricsCache := redisdb.NewMetricsCache(rdb)

	codec := auth.NewCodec(cfg.JWTSecret, cfg.SessionTTL())
	cookies := auth.NewCookieManager(cfg.SessionCookieName, cfg.SessionTTL(), cfg.IsProduction())

	authService := service.NewAuthService(userRepo, codec, log)
	adminService := service.NewAdminService(userRepo, dealRepo, activityRepo, statsRepo, metricsCache, log)
	managerService := service.NewManagerService(userRepo, dealRepo, clientRepo, log)
	sellerService := service.NewSellerService(clientRepo, propertyRepo, dealRepo, activityRepo, log)

	authHandler := handler.NewAuthHandler(authService, cookies)
	adminHandler := handler.NewAdminHandler(adminService)
	managerHandler := handler.NewManagerHandler(managerService)
	sellerHandler := handler.NewSellerHandler(sellerService)

	session := middleware.Session(codec, cookies)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, session)
	e.GET("/auth/me", authHandler.Me, session)

	// --- Admin routes ---
	admin := e.Group("/admin", session, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.PATCH("/users/:id", adminHandler.PatchUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/metrics", adminHandler.Metrics)
	admin.GET("/metrics/export", adminHandler.ExportMetrics)

	// --- Manager routes ---
	manager := e.Group("/manager", session, middleware.RBAC(domain.RoleManager, domain.RoleAdmin))
	manager.GET("/sellers", managerHandler.ListSellers)
	manager.POST("/deals/filter", managerHandler.FilterDeals)
	manager.GET("/sellers/clients", managerHandler.ListSellerClients)
	manager.GET("/sellers/clients/:id", managerHandler.GetClient)
	manager.PUT("/sellers/clients/:id", managerHandler.UpdateClient)
	manager.PATCH("/sellers/clients/:id", managerHandler.PatchClient)
	manager.GET("/sellers/:id/metrics", managerHandler.SellerMetrics)
	manager.GET("/sellers/:id/metrics/export", managerHandler.ExportSellerReport)

	// --- Seller routes ---
	seller := e.Group("/seller", session, middleware.RBAC(domain.RoleSeller, domain.RoleAdmin))
	seller.GET("/deals", sellerHandler.ListDeals)
	seller.POST("/deals", sellerHandler.CreateDeal)
	seller.PATCH("/deals/:id/stage", sellerHandler.UpdateStage)
	seller.GET("/deals/:id/stage/activities", sellerHandler.ListActivities)
	seller.POST("/deals/:id/stage/activities", sellerHandler.AddActivity)
	seller.GET("/clients", sellerHandler.ListMyClients)
	seller.POST("/clients", sellerHandler.CreateClient)
	seller.GET("/clients/options", sellerHandler.ClientOptions)
	seller.PUT("/clients/:id", sellerHandler.UpdateClient)
	seller.PATCH("/clients/:id", sellerHandler.PatchClient)
	seller.GET("/properties", sellerHandler.ListProperties)

	return e
}
