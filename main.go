package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"

	"github.com/handystore/storefront-bot/internal/catalog"
	"github.com/handystore/storefront-bot/internal/config"
	"github.com/handystore/storefront-bot/internal/conversation"
	httpdelivery "github.com/handystore/storefront-bot/internal/delivery/http"
	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/export"
	"github.com/handystore/storefront-bot/internal/messaging"
	"github.com/handystore/storefront-bot/internal/messaging/channel"
	"github.com/handystore/storefront-bot/internal/messaging/kafka"
	"github.com/handystore/storefront-bot/internal/notify"
	"github.com/handystore/storefront-bot/internal/repository"
	"github.com/handystore/storefront-bot/internal/repository/memory"
	"github.com/handystore/storefront-bot/internal/repository/postgres"
	"github.com/handystore/storefront-bot/internal/service"
)

type broker interface {
	messaging.Publisher
	messaging.Subscriber
	Close() error
}

// logSender is the fallback transport: outbound messages go to the log
// instead of a chat platform.
type logSender struct{}

func (logSender) Send(ctx context.Context, msg entity.Outbound) error {
	slog.Info("📨 Outbound message", "user_id", msg.UserID, "text", msg.Text)
	return nil
}

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to load catalog", "err", err)
		os.Exit(1)
	}

	// --- Stores ---
	var (
		ledgerRepo repository.LedgerRepository
		orderRepo  repository.OrderRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.InitDB(cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to init database", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		ledgerRepo = postgres.NewLedgerRepository(db)
		orderRepo = postgres.NewOrderRepository(db)
		slog.Info("🗄️ Using PostgreSQL stores")
	} else {
		ledgerRepo = memory.NewLedgerStore()
		orderRepo = memory.NewOrderStore()
		slog.Info("🗄️ Using in-memory stores")
	}

	// --- Sessions ---
	var sessions conversation.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		sessions = conversation.NewRedisStore(client, cfg.SessionTTL)
		defer client.Close()
		slog.Info("🗄️ Using Redis session store", "addr", cfg.RedisAddr)
	} else {
		sessions = conversation.NewMemoryStore()
	}

	// --- Messaging ---
	wmLogger := watermill.NewSlogLogger(slog.Default())
	var events broker
	if len(cfg.KafkaBrokers) > 0 {
		kb, err := kafka.NewBroker(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, wmLogger)
		if err != nil {
			slog.Error("Failed to init Kafka broker", "err", err)
			os.Exit(1)
		}
		events = kb
		slog.Info("📡 Using Kafka broker", "brokers", cfg.KafkaBrokers)
	} else {
		events = channel.NewBroker(wmLogger)
		slog.Info("📡 Using in-process broker")
	}
	defer events.Close()

	ordersTopic := cfg.OrdersTopic
	if ordersTopic == "" {
		ordersTopic = notify.DefaultOrdersTopic
	}

	// --- Engine ---
	sender := logSender{}
	engine := conversation.NewEngine(conversation.Config{
		Sessions: sessions,
		Catalog:  cat,
		Ledger:   service.NewLedger(ledgerRepo),
		Orders:   orderRepo,
		Bridge:   notify.NewBridge(events, ordersTopic),
		Sender:   sender,
	})

	// --- HTTP API ---
	handler := httpdelivery.NewHandler(
		engine,
		orderRepo,
		export.NewExporter(orderRepo),
		notify.NewBroadcaster(orderRepo, sender),
	)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpdelivery.EnableCORS(mux),
	}

	// --- Start everything ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Consumer: orders.committed → admin channel relay
	go func() {
		err := events.Consume(ctx, ordersTopic, func(ctx context.Context, payload []byte) error {
			var ev entity.OrderCommitted
			if err := json.Unmarshal(payload, &ev); err != nil {
				slog.Error("Failed to unmarshal admin channel event", "err", err)
				return nil
			}
			// The topic also carries TrackingAssigned audit events; only
			// committed orders get rendered for the back office.
			if ev.Order.ID == "" {
				return nil
			}
			slog.Info("🆕 New order for back office",
				"order_id", ev.Order.ID,
				"text", notify.FormatAdminOrder(ev.Order, ev.Order.DeliveryMethod),
			)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			slog.Error("Admin channel consumer stopped", "err", err)
			cancel()
		}
	}()

	go func() {
		slog.Info("🚀 HTTP server starting", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
