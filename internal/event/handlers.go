package event

import (
	"context"
	"log/slog"
)

func (s *Service) handleProductEvent(ctx context.Context, topic string, ev ProductEvent) error {
	s.logger.InfoContext(ctx, "handling product event",
		slog.String("topic", topic),
		slog.String("product_id", ev.ProductID),
		slog.String("category", ev.Category),
	)
	return nil
}

func (s *Service) handleProductDeletedEvent(ctx context.Context, ev ProductDeletedEvent) error {
	s.logger.InfoContext(ctx, "handling product deleted event", slog.String("product_id", ev.ProductID))
	return nil
}

func (s *Service) handlePromoCreatedEvent(ctx context.Context, ev PromoCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling promo created event", slog.String("promo_id", ev.PromoID))
	return nil
}
