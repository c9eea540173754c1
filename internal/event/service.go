package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/mq"
)

// Service is the event service.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	productHandler := jsonHandler(func(ctx context.Context, topic string, ev ProductEvent) error {
		return s.handleProductEvent(ctx, topic, ev)
	})

	handlers := map[string]mq.HandlerFunc{
		TopicProductCreated: productHandler,
		TopicProductUpdated: productHandler,
		TopicProductDeleted: jsonHandler(func(ctx context.Context, _ string, ev ProductDeletedEvent) error {
			return s.handleProductDeletedEvent(ctx, ev)
		}),
		TopicPromoCreated: jsonHandler(func(ctx context.Context, _ string, ev PromoCreatedEvent) error {
			return s.handlePromoCreatedEvent(ctx, ev)
		}),
	}

	for topic, handler := range handlers {
		if err := s.mqConsumer.RegisterHandler(topic, handler); err != nil {
			return nil, fmt.Errorf("register %s handler: %w", topic, err)
		}
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func jsonHandler[T any](fn func(ctx context.Context, topic string, ev T) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := fn(ctx, topic, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}
