package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/meetdesk/irevents/libs/config"
	"github.com/meetdesk/irevents/libs/db"
	"github.com/meetdesk/irevents/libs/httpx"
	"github.com/meetdesk/irevents/libs/kafkax"
	otelx "github.com/meetdesk/irevents/libs/otel"
	"github.com/meetdesk/irevents/libs/runtime"
	"github.com/meetdesk/irevents/services/notification-service/internal/consumer"
	"github.com/meetdesk/irevents/services/notification-service/internal/inbox"
	"github.com/meetdesk/irevents/services/notification-service/internal/storage"
	"github.com/meetdesk/irevents/services/notification-service/migrations"
)

type inquiryPayload struct {
	InquiryID   string `json:"inquiry_id"`
	EventID     string `json:"event_id"`
	SlotID      string `json:"slot_id"`
	RequesterID string `json:"requester_id"`
	OccurredAt  string `json:"occurred_at"`
}

type slotDeletedPayload struct {
	SlotID              string   `json:"slot_id"`
	EventID             string   `json:"event_id"`
	ConfirmedRequesters []string `json:"confirmed_requesters"`
	DeletedAt           string   `json:"deleted_at"`
}

// kindForTopic maps a booking topic to the notification kind recorded for
// the requester. Slot deletions are handled separately because they fan out.
var kindForTopic = map[string]string{
	"booking.inquiry.created.v1":   "inquiry_received",
	"booking.inquiry.confirmed.v1": "inquiry_confirmed",
	"booking.inquiry.rejected.v1":  "inquiry_rejected",
	"booking.inquiry.deleted.v1":   "inquiry_deleted",
}

func main() {
	service := config.String("SERVICE_NAME", "notification-service")
	port, err := config.Port("PORT", "8085")
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

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	if err := migrations.Up(ctx, pool.Pool); err != nil {
		logger.Error("migrations failed", "err", err)
		panic(err)
	}

	inboxRepo := inbox.NewRepository(pool)
	notificationsRepo := storage.NewRepository(pool)

	brokers := config.String("KAFKA_BROKERS", "")
	groupID := config.String("KAFKA_GROUP_ID", "notification-service")

	handleInquiry := func(ctx context.Context, msg kafka.Message) error {
		kind, ok := kindForTopic[msg.Topic]
		if !ok {
			logger.Error("unexpected topic", "topic", msg.Topic)
			return nil
		}
		var payload inquiryPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid inquiry payload", "err", err, "topic", msg.Topic)
			return nil
		}
		if payload.RequesterID == "" || payload.EventID == "" {
			logger.Error("missing inquiry fields", "topic", msg.Topic)
			return nil
		}

		if err := notificationsRepo.Insert(ctx, storage.Notification{
			RecipientID: payload.RequesterID,
			EventID:     payload.EventID,
			SlotID:      payload.SlotID,
			InquiryID:   payload.InquiryID,
			Kind:        kind,
			Payload:     map[string]any{"occurred_at": payload.OccurredAt},
		}); err != nil {
			logger.Error("failed to persist notification", "err", err)
			return err
		}
		logger.Info("notification recorded", "kind", kind, "recipient_id", payload.RequesterID)
		return nil
	}

	handleSlotDeleted := func(ctx context.Context, msg kafka.Message) error {
		var payload slotDeletedPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid slot deletion payload", "err", err)
			return nil
		}
		if payload.SlotID == "" || payload.EventID == "" {
			logger.Error("missing slot deletion fields")
			return nil
		}

		// Fan out to everyone who held a confirmed seat on the deleted slot.
		for _, requesterID := range payload.ConfirmedRequesters {
			if strings.TrimSpace(requesterID) == "" {
				continue
			}
			if err := notificationsRepo.Insert(ctx, storage.Notification{
				RecipientID: requesterID,
				EventID:     payload.EventID,
				SlotID:      payload.SlotID,
				Kind:        "slot_deleted",
				Payload:     map[string]any{"deleted_at": payload.DeletedAt},
			}); err != nil {
				logger.Error("failed to persist notification", "err", err)
				return err
			}
		}
		logger.Info("slot deletion fanned out", "slot_id", payload.SlotID, "recipients", len(payload.ConfirmedRequesters))
		return nil
	}

	startConsumer := func(topic string, handler consumer.Handler) {
		if strings.TrimSpace(topic) == "" {
			return
		}
		c := consumer.New(logger, inboxRepo, consumer.Config{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}, handler)
		go c.Run(ctx)
	}

	for topic := range kindForTopic {
		startConsumer(topic, handleInquiry)
	}
	startConsumer("booking.slot.deleted.v1", handleSlotDeleted)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)},
	)
	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	handler = otelhttp.NewHandler(handler, "notification")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
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
