package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"

	"github.com/Orhanguezel/metahub-backend-sub001/config"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/delivery/http/middleware"
	v1 "github.com/Orhanguezel/metahub-backend-sub001/internal/delivery/http/v1"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/infrastructure/cache"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/repository/postgres"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/usecase"
	pkgcache "github.com/Orhanguezel/metahub-backend-sub001/pkg/cache"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/logger"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/storage"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	pgxPool, err := postgres.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Repositories
	catalogRepo := postgres.NewCatalogRepository(pgxPool)
	priceRepo := postgres.NewPriceRepository(pgxPool)
	zoneRepo := postgres.NewZoneRepository(pgxPool)
	methodRepo := postgres.NewShippingMethodRepository(pgxPool)
	orderRepo := postgres.NewOrderRepository(pgxPool)
	shipmentRepo := postgres.NewShipmentRepository(pgxPool)
	stockRepo := postgres.NewStockRepository(pgxPool)
	txManager := postgres.NewTransactionManager(pgxPool)

	// Cache backend: in-process by default, Redis when configured
	var cacheService pkgcache.CacheService
	switch cfg.CacheBackend {
	case "redis":
		cacheService, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis cache")
	default:
		cacheService = cache.NewMemoryCache(30*time.Minute, 60*time.Minute)
	}

	mux := http.NewServeMux()

	// --- Modules Initialization ---

	// Storage Module (R2)
	r2Storage, err := storage.NewR2Storage(
		context.Background(),
		cfg.R2AccountID,
		cfg.R2AccessKeyID,
		cfg.R2AccessKeySecret,
		cfg.R2BucketName,
		cfg.R2PublicURL,
		cfg.R2UploadTimeout,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
	}
	uploadHandler := v1.NewUploadHandler(r2Storage, cfg.MaxUploadSizeMB)

	// Catalog and Pricing
	catalogUC := usecase.NewCatalogUsecase(catalogRepo, cacheService, cfg.CacheItemTTL, nil)
	pricingUC := usecase.NewPricingUsecase(catalogRepo, priceRepo, nil)
	catalogHandler := v1.NewCatalogHandler(catalogUC, pricingUC)
	adminCatalogHandler := v1.NewAdminCatalogHandler(catalogUC, stockRepo)

	// Zones and Shipping
	zoneUC := usecase.NewZoneUsecase(zoneRepo)
	shippingUC := usecase.NewShippingUsecase(methodRepo)
	configHandler := v1.NewConfigHandler(zoneUC, shippingUC)
	adminConfigHandler := v1.NewAdminConfigHandler(zoneUC, shippingUC)

	// Orders
	orderUC := usecase.NewOrderUsecase(orderRepo, pricingUC, zoneUC, shippingUC, txManager, usecase.OrderRules{
		DefaultCurrency: cfg.DefaultCurrency,
		DefaultZone:     cfg.DefaultZone,
	}, nil)
	orderHandler := v1.NewOrderHandler(orderUC)
	adminOrderHandler := v1.NewAdminOrderHandler(orderUC)

	// Shipments
	shipmentUC := usecase.NewShipmentUsecase(shipmentRepo, orderRepo, stockRepo, txManager, nil)
	shipmentHandler := v1.NewShipmentHandler(shipmentUC)

	// --- Routes ---

	auth := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(http.HandlerFunc(h))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(http.HandlerFunc(h)))
	}

	// Catalog (Public)
	mux.HandleFunc("GET /api/v1/items", catalogHandler.ListItems)
	mux.HandleFunc("GET /api/v1/items/{slug}", catalogHandler.GetItemBySlug)
	mux.HandleFunc("POST /api/v1/items/quote", catalogHandler.QuoteLine)

	// Zones and Shipping (Public)
	mux.HandleFunc("POST /api/v1/zones/resolve", configHandler.ResolveZone)
	mux.HandleFunc("GET /api/v1/shipping/methods", configHandler.ListShippingMethods)
	mux.HandleFunc("POST /api/v1/shipping/quote", configHandler.QuoteShipping)

	// Orders (Protected)
	mux.Handle("POST /api/v1/checkout", auth(orderHandler.Checkout))
	mux.Handle("GET /api/v1/orders", auth(orderHandler.GetMyOrders))
	mux.Handle("GET /api/v1/orders/{id}", auth(orderHandler.GetMyOrder))
	mux.Handle("POST /api/v1/orders/{id}/cancel", auth(orderHandler.CancelMyOrder))

	// Shipment Tracking (Public)
	mux.HandleFunc("GET /api/v1/tracking/{id}", shipmentHandler.Tracking)

	// Uploads
	mux.Handle("POST /api/v1/upload", admin(uploadHandler.UploadFile))

	// Admin Catalog
	mux.Handle("GET /api/v1/admin/items", admin(adminCatalogHandler.ListItems))
	mux.Handle("GET /api/v1/admin/items/{id}", admin(adminCatalogHandler.GetItem))
	mux.Handle("POST /api/v1/admin/items", admin(adminCatalogHandler.CreateItem))
	mux.Handle("PUT /api/v1/admin/items/{id}", admin(adminCatalogHandler.UpdateItem))
	mux.Handle("PATCH /api/v1/admin/items/{id}/status", admin(adminCatalogHandler.UpdateItemStatus))
	mux.Handle("DELETE /api/v1/admin/items/{id}", admin(adminCatalogHandler.DeleteItem))
	mux.Handle("GET /api/v1/admin/items/{id}/stock-ledger", admin(adminCatalogHandler.GetStockLedger))

	// Admin Config
	mux.Handle("GET /api/v1/admin/config/zones", admin(adminConfigHandler.ListZones))
	mux.Handle("POST /api/v1/admin/config/zones", admin(adminConfigHandler.CreateZone))
	mux.Handle("PUT /api/v1/admin/config/zones/{code}", admin(adminConfigHandler.UpdateZone))
	mux.Handle("DELETE /api/v1/admin/config/zones/{id}", admin(adminConfigHandler.DeleteZone))
	mux.Handle("GET /api/v1/admin/config/shipping-methods", admin(adminConfigHandler.ListMethods))
	mux.Handle("POST /api/v1/admin/config/shipping-methods", admin(adminConfigHandler.CreateMethod))
	mux.Handle("PUT /api/v1/admin/config/shipping-methods/{code}", admin(adminConfigHandler.UpdateMethod))
	mux.Handle("DELETE /api/v1/admin/config/shipping-methods/{id}", admin(adminConfigHandler.DeleteMethod))

	// Admin Orders
	mux.Handle("GET /api/v1/admin/orders", admin(adminOrderHandler.ListOrders))
	mux.Handle("GET /api/v1/admin/orders/{id}", admin(adminOrderHandler.GetOrder))
	mux.Handle("GET /api/v1/admin/orders/{id}/timeline", admin(adminOrderHandler.GetTimeline))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/status", admin(adminOrderHandler.UpdateStatus))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/payment", admin(adminOrderHandler.UpdatePayment))
	mux.Handle("DELETE /api/v1/admin/orders/{id}", admin(adminOrderHandler.DeleteOrder))
	mux.Handle("GET /api/v1/admin/config/status-flow", admin(adminOrderHandler.GetStatusFlow))

	// Admin Shipments
	mux.Handle("POST /api/v1/admin/shipments", admin(shipmentHandler.CreateShipment))
	mux.Handle("GET /api/v1/admin/shipments/{id}", admin(shipmentHandler.GetShipment))
	mux.Handle("GET /api/v1/admin/orders/{orderId}/shipments", admin(shipmentHandler.GetOrderShipments))
	mux.Handle("PATCH /api/v1/admin/shipments/{id}/status", admin(shipmentHandler.UpdateStatus))
	mux.Handle("POST /api/v1/admin/shipments/{id}/events", admin(shipmentHandler.AddEvent))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "db": "connected"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,
		100,
		time.Minute,
		3*time.Minute,
	)

	// CORS, tenant resolution, request logging, rate limit, gzip
	handler := middleware.NewTenantMiddleware(cfg.DefaultTenant)(mux)
	handler = middleware.NewCORSMiddleware(cfg)(handler)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
