package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"genfity-order-admin/internal/auth"
	"genfity-order-admin/internal/config"
	"genfity-order-admin/internal/console"
	"genfity-order-admin/internal/format"
	httpapi "genfity-order-admin/internal/http"
	"genfity-order-admin/internal/http/handlers"
	"genfity-order-admin/internal/logger"
	"genfity-order-admin/internal/notify"
	"genfity-order-admin/internal/ordersapi"
	"genfity-order-admin/internal/queue"
	"genfity-order-admin/internal/refresh"
	"genfity-order-admin/internal/storage"
	"genfity-order-admin/internal/ws"
)

func main() {
	_ = godotenv.Load()

	app := cli.NewApp()
	app.Name = "pesanan"
	app.Usage = "orders admin console"
	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "run the console HTTP and websocket server",
			Action: serve,
		},
		ordersCommand(),
		watchCommand(),
	}
	// running without a subcommand starts the server
	app.Action = serve

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newOrdersClient(cfg config.Config, log *zap.Logger) *ordersapi.Client {
	tokens := auth.NewTokenSource(cfg.OrdersAPITokenSecret, cfg.OrdersAPITokenSubject)
	return ordersapi.New(cfg.OrdersAPIBaseURL, tokens, log)
}

// connectBroker declares the notices topology. Outside production a broker
// failure only disables publishing.
func connectBroker(cfg config.Config, log *zap.Logger) *queue.Client {
	if cfg.RabbitMQURL == "" {
		log.Info("notice broker disabled (RABBITMQ_URL is empty)")
		return nil
	}
	qc, err := queue.New(cfg.RabbitMQURL)
	if err != nil {
		if cfg.Env == "production" {
			log.Fatal("rabbitmq connection failed", zap.Error(err))
		}
		log.Warn("rabbitmq connection failed; continuing without broker", zap.Error(err))
		return nil
	}
	binding := queue.Binding{Exchange: notify.EventsExchange, Queue: notify.NoticesQueue, RoutingKey: notify.NoticesBinding}
	if err := qc.Declare(binding); err != nil {
		if cfg.Env == "production" {
			log.Fatal("rabbitmq topology failed", zap.Error(err))
		}
		log.Warn("rabbitmq topology failed; continuing without broker", zap.Error(err))
		_ = qc.Close()
		return nil
	}
	log.Info("notice broker enabled", zap.String("exchange", notify.EventsExchange), zap.String("queue", notify.NoticesQueue))
	return qc
}

func serve(c *cli.Context) error {
	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer log.Sync()

	client := newOrdersClient(cfg, log)

	shared := notify.Multi{notify.Log{Logger: log}}
	if qc := connectBroker(cfg, log); qc != nil {
		defer qc.Close()
		shared = append(shared, notify.Broker{Publisher: qc, Logger: log, Source: "pesanan-admin"})
	}

	var archive handlers.ReceiptArchive
	if cfg.ObjectStoreEnabled() {
		store, err := storage.NewObjectStore(context.Background(), storage.Config{
			Endpoint:        cfg.ObjectStoreEndpoint,
			Region:          cfg.ObjectStoreRegion,
			AccessKeyID:     cfg.ObjectStoreAccessKeyID,
			SecretAccessKey: cfg.ObjectStoreSecretAccessKey,
			Bucket:          cfg.ObjectStoreBucket,
			PublicBaseURL:   cfg.ObjectStorePublicBaseURL,
			StorageClass:    cfg.ObjectStoreStorageClass,
		})
		if err != nil {
			log.Warn("object store unavailable; receipt archive disabled", zap.Error(err))
		} else {
			archive = store
		}
	}

	counter := refresh.NewCounter()
	sessions := console.NewSessions(client, counter, shared, format.Location(cfg.DisplayTimezone))
	wsServer := ws.New(log, counter, cfg.WSHeartbeatInterval)

	apiServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(log, cfg, sessions, archive, wsServer),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signalContext()
	defer stop()

	go pruneSessions(ctx, sessions, cfg.SessionIdleTTL, log)

	go func() {
		log.Info("console ready", zap.String("base", "/admin/pesanan"))
		log.Info("console ws ready", zap.String("base", "/ws/admin/pesanan"))
		log.Info("console listening", zap.String("addr", cfg.HTTPAddr), zap.String("ordersApi", cfg.OrdersAPIBaseURL))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	return nil
}

func pruneSessions(ctx context.Context, sessions *console.Sessions, ttl time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Prune(ttl); n > 0 {
				log.Info("idle console sessions pruned", zap.Int("count", n), zap.Int("remaining", sessions.Len()))
			}
		}
	}
}

// signalContext is cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
