package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-dinein/internal/audit"
	"ms-dinein/internal/auth"
	"ms-dinein/internal/board"
	"ms-dinein/internal/config"
	"ms-dinein/internal/database/migrations"
	"ms-dinein/internal/kafka"
	"ms-dinein/internal/logger"
	menu_db "ms-dinein/internal/menu/db"
	"ms-dinein/internal/menu/menu_api"
	menu "ms-dinein/internal/menu/service"
	"ms-dinein/internal/models"
	"ms-dinein/internal/notification"
	notification_db "ms-dinein/internal/notification/db"
	"ms-dinein/internal/notification/notification_api"
	"ms-dinein/internal/order"
	order_db "ms-dinein/internal/order/db"
	"ms-dinein/internal/order/order_api"
	"ms-dinein/internal/org"
	org_db "ms-dinein/internal/org/db"
	"ms-dinein/internal/org/org_api"
	"ms-dinein/internal/rbac"
	"ms-dinein/internal/sse"
	tables_db "ms-dinein/internal/tables/db"
	tables "ms-dinein/internal/tables/service"
	"ms-dinein/internal/tables/table_api"
	"ms-dinein/internal/tenant"
)

func verifyConnections(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bun.DB, *redis.Client) {
	if cfg.Database.DSN == "" {
		log.Fatal("CONFIG", "POSTGRES_DSN not set")
	}

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func runMigrations(bunDB *bun.DB, log *logger.Logger) {
	opts := migrations.DefaultOptions()
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		opts.MigrationsDir = dir
	}
	runner := migrations.NewRunner(bunDB, opts)
	if err := runner.RunMigrations(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}
	log.Info("DATABASE", "Schema migrations applied")
}

// startOrderConsumers feeds the Kafka order change feed into the board and the
// SSE emitter. Read failures flip the board into polling fallback until the
// feed recovers.
func startOrderConsumers(ctx context.Context, cfg *config.Config, brd *board.Board, emitter *sse.Emitter, log *logger.Logger) {
	topics := []string{cfg.Kafka.Topics.OrderCreated, cfg.Kafka.Topics.OrderUpdated}
	for _, topic := range topics {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, topic, cfg.Kafka.GroupID, log)
		go consumer.Start(ctx,
			func(event models.OrderEvent) {
				switch event.Type {
				case models.EventInsert:
					brd.ApplyInsert(event.Order)
				case models.EventUpdate:
					brd.ApplyUpdate(event.Order)
				}
				emitter.EmitOrder(event)
			},
			func(err error) { brd.SetConnected(false) },
			func() { brd.SetConnected(true) },
		)
	}
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Dine-In Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, log)
	defer bunDB.Close()
	defer redisClient.Close()

	runMigrations(bunDB, log)

	topicNames := kafka.TopicNames{
		OrderCreated:        cfg.Kafka.Topics.OrderCreated,
		OrderUpdated:        cfg.Kafka.Topics.OrderUpdated,
		NotificationCreated: cfg.Kafka.Topics.NotificationCreated,
	}
	producer := kafka.NewProducer(cfg.Kafka.Brokers, topicNames)
	defer producer.Close()

	if cfg.Kafka.Enabled {
		requiredTopics := []string{
			cfg.Kafka.Topics.OrderCreated,
			cfg.Kafka.Topics.OrderUpdated,
			cfg.Kafka.Topics.NotificationCreated,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
	}

	orgDB := &org_db.DB{Bun: bunDB}
	resolver := tenant.NewResolver(orgDB, redisClient, cfg.Tenant.OrgCacheTTL, log)

	emitter := sse.NewEmitter()
	broadcast := notification.NewRedisBroadcast(redisClient, log)

	notificationService := notification.NewNotificationService(
		&notification_db.DB{Bun: bunDB}, broadcast, producer, log)
	menuService := menu.NewMenuService(&menu_db.DB{Bun: bunDB}, log)
	orderService := order.NewOrderService(
		&order_db.DB{Bun: bunDB}, producer, menuService, notificationService, log)
	tableService := tables.NewTableService(&tables_db.DB{Bun: bunDB}, cfg.Server.BaseURL, log)
	orgService := org.NewOrgService(orgDB, resolver, log)
	auditRecorder := audit.NewRecorder(&audit.DB{Bun: bunDB}, log)

	brd := board.New(orderService, log)

	orderHandler := &order_api.Handler{
		OrderService: orderService,
		Board:        brd,
		OrgDB:        orgDB,
		Audit:        auditRecorder,
		Logger:       log,
	}
	sseHandler := order_api.NewSSEHandler(log, emitter)
	menuHandler := &menu_api.Handler{MenuService: menuService, Logger: log}
	tableHandler := &table_api.Handler{TableService: tableService, OrgDB: orgDB, Logger: log}
	orgHandler := &org_api.Handler{OrgService: orgService, Audit: auditRecorder, Logger: log}
	notificationHandler := &notification_api.Handler{
		NotificationService: notificationService,
		Emitter:             emitter,
		Logger:              log,
	}

	authMW := auth.PassthroughMiddleware()
	if !cfg.Auth.Disabled {
		authMW = auth.Middleware(cfg.Auth.OIDCIssuer)
		log.Info("AUTH", "OIDC token verification enabled")
	} else {
		log.Warn("AUTH", "Token verification disabled, trusting X-User-ID header")
	}

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Bootstrap runs before the caller has an organization, so it sits outside
	// tenant resolution.
	r.Group(func(r chi.Router) {
		r.Use(authMW)
		r.Post("/api/bootstrap-tenant", orgHandler.BootstrapTenant)
	})
	log.Info("ROUTER", "Bootstrap endpoint registered at /api/bootstrap-tenant")

	r.Group(func(r chi.Router) {
		r.Use(tenant.Middleware(resolver, cfg.Tenant.DefaultSlug, log))

		// --- Customer Routes ---
		r.Get("/api/menu", menuHandler.GetMenu)
		r.Post("/api/orders", orderHandler.PlaceOrder)
		r.Get("/api/tables/{tableID}/qr", tableHandler.GetTableQR)
		log.Info("ROUTER", "Customer endpoints registered (menu, place order, table QR)")

		// --- Staff Routes ---
		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Use(auth.MembershipMiddleware(orgDB, log))

			r.Route("/api/orders", func(r chi.Router) {
				r.With(auth.Require(rbac.OrderRead)).Get("/", orderHandler.ListOrders)
				r.With(auth.Require(rbac.OrderRead)).Get("/board", orderHandler.GetBoard)
				r.With(auth.Require(rbac.OrderRead)).Get("/stream", sseHandler.HandleOrderStream)
				r.With(auth.Require(rbac.OrderWrite)).Post("/pay", orderHandler.Pay)
				r.With(auth.Require(rbac.OrderRead)).Get("/{orderID}", orderHandler.GetOrder)
				r.With(auth.Require(rbac.OrderWrite)).Put("/{orderID}", orderHandler.EditOrder)
				r.With(auth.Require(rbac.OrderWrite)).Patch("/{orderID}/status", orderHandler.UpdateStatus)
				r.With(auth.Require(rbac.OrderWrite)).Delete("/{orderID}", orderHandler.CancelOrder)
			})
			log.Info("ROUTER", "Order routes registered under /api/orders")

			r.Route("/api/receipts", func(r chi.Router) {
				r.With(auth.Require(rbac.OrderRead)).Get("/{tableID}/names", orderHandler.ReceiptNames)
				r.With(auth.Require(rbac.OrderRead)).Get("/{tableID}", orderHandler.PrintReceipt)
			})

			r.Route("/api/menu", func(r chi.Router) {
				r.With(auth.Require(rbac.MenuRead)).Get("/full", menuHandler.GetFullMenu)
				r.With(auth.Require(rbac.MenuWrite)).Post("/", menuHandler.CreateItem)
				r.With(auth.Require(rbac.MenuWrite)).Put("/{itemID}", menuHandler.UpdateItem)
				r.With(auth.Require(rbac.MenuWrite)).Delete("/{itemID}", menuHandler.DeleteItem)
				r.With(auth.Require(rbac.MenuWrite)).Patch("/{itemID}/availability", menuHandler.SetAvailability)
			})
			log.Info("ROUTER", "Menu routes registered under /api/menu")

			r.Route("/api/tables", func(r chi.Router) {
				r.With(auth.Require(rbac.OrderRead)).Get("/", tableHandler.ListTables)
				r.With(auth.Require(rbac.MenuWrite)).Post("/", tableHandler.CreateTable)
				r.With(auth.Require(rbac.MenuWrite)).Put("/{id}", tableHandler.UpdateTable)
				r.With(auth.Require(rbac.MenuWrite)).Delete("/{id}", tableHandler.DeleteTable)
				r.With(auth.Require(rbac.OrderRead)).Get("/{tableID}/card", tableHandler.GetTableCard)
			})

			r.Route("/api/notifications", func(r chi.Router) {
				r.With(auth.Require(rbac.NotificationRead)).Get("/", notificationHandler.ListNotifications)
				r.With(auth.Require(rbac.NotificationRead)).Get("/stream", notificationHandler.HandleNotificationStream)
				r.With(auth.Require(rbac.NotificationWrite)).Post("/read-all", notificationHandler.MarkAllRead)
				r.With(auth.Require(rbac.NotificationWrite)).Post("/{notificationID}/read", notificationHandler.MarkRead)
			})

			r.With(auth.Require(rbac.MenuWrite)).Get("/api/settings", orgHandler.GetSettings)
			r.With(auth.Require(rbac.MenuWrite)).Put("/api/settings", orgHandler.UpdateSettings)
			r.With(auth.Require(rbac.MenuWrite)).Get("/api/members", orgHandler.ListMembers)
			r.With(auth.Require(rbac.MenuWrite)).Get("/api/venues", orgHandler.ListVenues)
			r.With(auth.Require(rbac.MenuWrite)).Post("/api/venues", orgHandler.CreateVenue)
			r.With(auth.Require(rbac.MenuWrite)).Delete("/api/venues/{id}", orgHandler.DeleteVenue)
			r.With(auth.Require(rbac.AuditRead)).Get("/api/audit-logs", orgHandler.ListAuditLogs)
			log.Info("ROUTER", "Organization routes registered (settings, members, venues, audit)")
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go brd.Run(ctx)
	go broadcast.Run(ctx, emitter)
	if cfg.Kafka.Enabled {
		log.Info("KAFKA", "Starting order change feed consumers")
		startOrderConsumers(ctx, cfg, brd, emitter, log)
	} else {
		log.Warn("KAFKA", "Change feed disabled, board relies on polling only")
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Dine-In Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Dine-In Service shutdown complete")
	}
}
