package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/meetdesk/irevents/libs/config"
	"github.com/meetdesk/irevents/libs/db"
	"github.com/meetdesk/irevents/libs/httpx"
	"github.com/meetdesk/irevents/libs/kafkax"
	otelx "github.com/meetdesk/irevents/libs/otel"
	"github.com/meetdesk/irevents/libs/runtime"
	"github.com/meetdesk/irevents/services/booking-service/internal/booking"
	"github.com/meetdesk/irevents/services/booking-service/internal/cache"
	"github.com/meetdesk/irevents/services/booking-service/internal/directory"
	"github.com/meetdesk/irevents/services/booking-service/internal/handlers"
	"github.com/meetdesk/irevents/services/booking-service/internal/outbox"
	"github.com/meetdesk/irevents/services/booking-service/internal/storage"
	"github.com/meetdesk/irevents/services/booking-service/migrations"
)

func main() {
	service := config.String("SERVICE_NAME", "booking-service")
	port, err := config.Port("PORT", "8083")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL, db.Options{
		MaxConns: int32(config.Int("DB_MAX_CONNS", 10)),
	})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	if err := migrations.Up(ctx, pool.Pool); err != nil {
		logger.Error("migrations failed", "err", err)
		panic(err)
	}

	var rdb *redis.Client
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: redisAddr})
		defer func() { _ = rdb.Close() }()
	}
	slotCache := cache.New(rdb, config.Duration("SLOT_CACHE_TTL", 15*time.Second), logger)

	store := storage.NewStore(pool)
	dirProvider, err := directory.NewProvider(logger, pool, config.String("DIRECTORY_GRPC_ADDR", ""))
	if err != nil {
		logger.Error("directory provider init failed", "err", err)
		panic(err)
	}
	coordinator := booking.NewCoordinator(store, dirProvider, slotCache, logger)

	outboxRepo := outbox.NewRepository(pool)
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: config.Duration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
	})
	go outboxPublisher.Run(ctx)

	bookingHandler := handlers.NewBookingHandler(coordinator, logger)

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
		{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	}
	if rdb != nil {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "redis", Check: cache.ReadyCheck(rdb)})
	}
	mux := runtime.NewBaseMuxWithReady(readyChecks...)

	mux.HandleFunc("/api/v1/events", bookingHandler.CreateEvent)
	mux.HandleFunc("/api/v1/events/cancel", bookingHandler.CancelEvent)
	mux.HandleFunc("/api/v1/slots", bookingHandler.ListSlots)
	mux.HandleFunc("/api/v1/slots/add", bookingHandler.AddSlot)
	mux.HandleFunc("/api/v1/slots/get", bookingHandler.GetSlot)
	mux.HandleFunc("/api/v1/slots/delete", bookingHandler.DeleteSlot)
	mux.HandleFunc("/api/v1/inquiries", bookingHandler.ListInquiries)
	mux.HandleFunc("/api/v1/inquiries/create", bookingHandler.CreateInquiry)
	mux.HandleFunc("/api/v1/inquiries/confirm", bookingHandler.ConfirmInquiry)
	mux.HandleFunc("/api/v1/inquiries/reject", bookingHandler.RejectInquiry)
	mux.HandleFunc("/api/v1/inquiries/delete", bookingHandler.DeleteInquiry)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
