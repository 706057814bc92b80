package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/medexpress-backend/internal/modules/auth"
	"github.com/georgemunganga/medexpress-backend/internal/modules/cart"
	"github.com/georgemunganga/medexpress-backend/internal/modules/catalog"
	"github.com/georgemunganga/medexpress-backend/internal/modules/geocode"
	"github.com/georgemunganga/medexpress-backend/internal/modules/inventory"
	"github.com/georgemunganga/medexpress-backend/internal/modules/order"
	"github.com/georgemunganga/medexpress-backend/internal/modules/routing"
	"github.com/georgemunganga/medexpress-backend/internal/modules/user"
	"github.com/georgemunganga/medexpress-backend/internal/platform/config"
	"github.com/georgemunganga/medexpress-backend/internal/platform/database"
	"github.com/georgemunganga/medexpress-backend/internal/platform/httpx"
	"github.com/georgemunganga/medexpress-backend/internal/platform/logging"
	"github.com/georgemunganga/medexpress-backend/internal/platform/metrics"
	"github.com/georgemunganga/medexpress-backend/internal/platform/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger("medexpress-api", cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		logger.Fatal("database_connect_failed", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("database_migrate_failed", zap.Error(err))
	}
	logger.Info("database_ready")

	m := metrics.New()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	// ── Geocoding ───────────────────────────────────────────
	var geocoder geocode.Geocoder = geocode.Disabled{}
	if cfg.GeocoderURL != "" {
		geocoder = geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout, m)
		if cfg.RedisAddr != "" {
			cache := geocode.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
			defer cache.Close()
			if err := cache.Ping(ctx); err != nil {
				logger.Warn("geocode_cache_unavailable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			}
			geocoder = geocode.NewCachedGeocoder(geocoder, cache, cfg.GeocodeCacheTTL)
		}
	} else {
		logger.Info("geocoder_disabled", zap.String("reason", "GEOCODER_URL is empty"))
	}

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	authService := auth.NewService(userService, userRepo, tokens)

	// ── Catalog & Inventory ─────────────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db))
	inventoryService := inventory.NewService(
		inventory.NewStorePostgresRepository(db),
		inventory.NewStockPostgresRepository(db),
		catalogService,
	)
	routingService := routing.NewService(inventoryService, geocoder)

	// ── Cart & Orders ───────────────────────────────────────
	cartService := cart.NewService(cart.NewPostgresRepository(db), catalogService, inventoryService, m)
	orderService := order.NewService(
		order.NewPostgresRepository(db),
		routingService,
		catalogService,
		inventoryService,
		cartService,
		userService,
		m,
	)

	userHandler := user.NewHandler(userService, auth.RequestUserID)
	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	inventoryHandler := inventory.NewHandler(inventoryService)
	routingHandler := routing.NewHandler(routingService)
	cartHandler := cart.NewHandler(cartService)
	orderHandler := order.NewHandler(orderService)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		router.Use(middleware.RealIP)
	}
	router.Use(logging.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(m.Middleware)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			httpx.Respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", m.Handler())

	authenticate := auth.Authenticate(tokens)
	limiter := ratelimit.New(cfg.AuthRateRPS, cfg.AuthRateBurst)

	router.Route("/api", func(r chi.Router) {
		catalogHandler.RegisterRoutes(r)
		inventoryHandler.RegisterRoutes(r)
		routingHandler.RegisterRoutes(r)

		r.Route("/auth", func(r chi.Router) {
			r.Use(limiter.Middleware)
			authHandler.RegisterRoutes(r)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate)
			userHandler.RegisterProfileRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(user.RoleCustomer))
				cartHandler.RegisterRoutes(r)
				orderHandler.RegisterCustomerRoutes(r)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate, auth.RequireRole(user.RoleAdmin))
			userHandler.RegisterAdminRoutes(r)
			catalogHandler.RegisterAdminRoutes(r)
			inventoryHandler.RegisterAdminRoutes(r)
			orderHandler.RegisterAdminRoutes(r)
		})

		r.Route("/agents", func(r chi.Router) {
			r.Use(authenticate, auth.RequireRole(user.RoleAgent))
			orderHandler.RegisterAgentRoutes(r)
		})
	})

	// ── Start Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http_server_start", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
}
