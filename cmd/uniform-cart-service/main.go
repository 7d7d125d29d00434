package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formaworks/uniform-cart-service/internal/api/handlers"
	"github.com/formaworks/uniform-cart-service/internal/api/middleware"
	"github.com/formaworks/uniform-cart-service/internal/config"
	"github.com/formaworks/uniform-cart-service/internal/health"
	"github.com/formaworks/uniform-cart-service/internal/metrics"
	service "github.com/formaworks/uniform-cart-service/internal/services"
	"github.com/formaworks/uniform-cart-service/internal/store"
	"github.com/formaworks/uniform-cart-service/pkg/orderapi"
	"github.com/formaworks/uniform-cart-service/pkg/sendgrid"
	"github.com/redis/go-redis/v9"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Storage setup
	st, err := newStore(cfg)
	if err != nil {
		slog.Error("❌ Error initializing the storage backend", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("⚠️ Error closing storage backend", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Storage backend closed")
		}
	}()

	orderClient := orderapi.NewClient(cfg.OrderAPI.Endpoint, cfg.OrderAPI.Timeout)

	var emailer sendgrid.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailer = sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	cartService := service.NewCartService(st)
	cartHandler := handlers.NewCartHandler(cartService)
	favoritesService := service.NewFavoritesService(st)
	favoritesHandler := handlers.NewFavoritesHandler(favoritesService)
	orderService := service.NewOrderService(cartService, orderClient, emailer, cfg.SendGrid.SalesEmail)
	orderHandler := handlers.NewOrderHandler(orderService)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("backend", cfg.Storage.Backend))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("PUT /api/v1/cart/items/{index}", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{index}", cartHandler.RemoveItem())
	routerMux.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart())
	routerMux.HandleFunc("GET /api/v1/favorites", favoritesHandler.List())
	routerMux.HandleFunc("POST /api/v1/favorites/{productId}", favoritesHandler.Toggle())
	routerMux.HandleFunc("DELETE /api/v1/favorites/{productId}", favoritesHandler.Remove())
	routerMux.HandleFunc("POST /api/v1/orders", orderHandler.SubmitOrder())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConnect.Host,
			Username: cfg.RedisConnect.Username,
			Password: cfg.RedisConnect.Password,
			DB:       cfg.RedisConnect.DB,
		})

		return store.NewRedisStore(client, cfg.Storage.SessionTTL), nil
	case "postgres":
		db, err := store.Open(cfg.Database.GetDSN(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return nil, err
		}

		return store.NewPostgresStore(db), nil
	default:
		return store.NewMemoryStore(), nil
	}
}
