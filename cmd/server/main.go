package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"pizzeria/internal/adapter/audit"
	"pizzeria/internal/adapter/handler"
	"pizzeria/internal/adapter/storage"
	"pizzeria/internal/config"
	"pizzeria/internal/core/domain"
	"pizzeria/internal/core/service"
	"pizzeria/internal/port"
)

const adminUsername = "admin"

// Initial stock per catalog item, applied once; restarts leave existing
// counts untouched.
var bootstrapStock = map[int]int{
	1: 50, 2: 40, 3: 60, 4: 20, 5: 14, 6: 20, 7: 11, 8: 58,
	9: 24, 10: 30, 11: 18, 12: 17, 13: 9, 14: 104, 15: 342, 16: 98,
}

func main() {
	cfg := config.New()
	log := slog.Default()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.Open("mysql", cfg.DatabaseDSN)
	if err != nil {
		log.Error("failed to open mysql", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to ping mysql", "error", err)
		os.Exit(1)
	}
	log.Info("connected to mysql")

	store := storage.NewMySQLStore(db)
	if err := store.InitSchema(ctx); err != nil {
		log.Error("failed to init schema", "error", err)
		os.Exit(1)
	}

	catalog := domain.DefaultCatalog()
	if err := seedStock(ctx, store, catalog); err != nil {
		log.Error("failed to seed stock", "error", err)
		os.Exit(1)
	}

	auditFile, err := os.OpenFile(cfg.AuditLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Error("failed to open audit log", "path", cfg.AuditLogPath, "error", err)
		os.Exit(1)
	}
	defer auditFile.Close()
	auditLog := audit.NewJSONLog(auditFile)

	accounts := service.NewAccountService(store.Users, auditLog, log)
	if err := accounts.EnsureAdmin(ctx, adminUsername, cfg.AdminPassword); err != nil {
		log.Error("failed to seed admin", "error", err)
		os.Exit(1)
	}

	var gate port.StockGate
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 100})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect redis", "error", err)
			os.Exit(1)
		}
		redisGate := storage.NewRedisGate(rdb)
		if err := syncGate(ctx, store, redisGate); err != nil {
			log.Error("failed to sync stock gate", "error", err)
			os.Exit(1)
		}
		gate = redisGate
		log.Info("stock gate enabled", "addr", cfg.RedisAddr)
	}

	coordinator := service.NewCoordinator(catalog, store, gate, auditLog, log)
	reports := service.NewReportingView(store.Orders, store.Inventory)

	h := handler.NewHTTPHandler(coordinator, accounts, reports, catalog, cfg.JWTSecret, log)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	h.Routes(r)

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.RunAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", "error", err)
	}

	if rdb != nil {
		rdb.Close()
	}
	log.Info("server stopped")
}

func seedStock(ctx context.Context, store *storage.MySQLStore, catalog *domain.Catalog) error {
	for _, item := range catalog.Items() {
		count, ok := bootstrapStock[item.ID]
		if !ok {
			continue
		}
		err := store.Inventory.Seed(ctx, item.ID, count)
		if errors.Is(err, domain.ErrAlreadySeeded) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// syncGate mirrors authoritative counts into the gate so its fast path
// agrees with the ledger at startup.
func syncGate(ctx context.Context, store *storage.MySQLStore, gate *storage.RedisGate) error {
	counts, err := store.Inventory.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range counts {
		if err := gate.SetStock(ctx, c.ItemID, c.Count); err != nil {
			return err
		}
	}
	return nil
}
