// Package relay moves catalog events from the outbox table to Kafka.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/mq"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/ptr"
)

type Service struct {
	cfg           config.Relay
	logger        *slog.Logger
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	mqProducer    mq.Producer

	stopChan chan struct{}
}

func NewService(
	cfg config.Relay,
	logger *slog.Logger,
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
	mqProducer mq.Producer,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "relay")),
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		mqProducer:    mqProducer,
		stopChan:      make(chan struct{}),
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		close(s.stopChan)
		select {
		case <-stoppedChan:
		case <-time.After(5 * time.Second):
			cancel()
			<-stoppedChan
		}
		cancel()
	}
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			n, err := s.RelayOnce(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "error relaying outbox msgs", slog.Any("error", err))
				continue
			}
			if n > 0 {
				s.logger.InfoContext(ctx, "relayed outbox msgs", slog.Int("count", n))
			}
		}
	}
}

// RelayOnce produces one batch of pending outbox messages and marks each of
// them processed, keeping the produce error of the ones that failed. It
// returns how many messages were handled.
func (s *Service) RelayOnce(ctx context.Context) (int, error) {
	var handled int

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		repo := s.outboxMsgRepo.WithDB(db)

		outboxMsgs, err := repo.ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{
			//nolint:gosec
			BatchSize: int32(s.cfg.BatchSize),
		})
		if err != nil {
			return fmt.Errorf("list unprocessed outbox msgs: %w", err)
		}

		if len(outboxMsgs) == 0 {
			return nil
		}

		items := s.produceAll(ctx, outboxMsgs)

		if err := repo.BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
			Items: items,
		}); err != nil {
			return fmt.Errorf("bulk update outbox msgs: %w", err)
		}

		handled = len(items)
		return nil
	}); err != nil {
		return 0, fmt.Errorf("db with tx: %w", err)
	}

	return handled, nil
}

func (s *Service) produceAll(ctx context.Context, msgs []repository.ListUnprocessedOutboxMsgsResult) []repository.BulkUpdateOutboxMsgsItem {
	items := make([]repository.BulkUpdateOutboxMsgsItem, len(msgs))

	var wg sync.WaitGroup
	for i, msg := range msgs {
		wg.Go(func() {
			items[i] = repository.BulkUpdateOutboxMsgsItem{ID: msg.ID}

			produceCtx := ctx
			if s.cfg.ProduceTimeout > 0 {
				var cancel context.CancelFunc
				produceCtx, cancel = context.WithTimeout(ctx, s.cfg.ProduceTimeout)
				defer cancel()
			}

			if err := s.mqProducer.Produce(produceCtx, mq.ProduceMsg{
				Topic:        msg.Topic,
				Headers:      msg.Headers,
				Payload:      msg.Payload,
				PartitionKey: msg.PartitionKey,
			}); err != nil {
				s.logger.ErrorContext(ctx,
					"error producing message",
					slog.String("outbox_msg_id", msg.ID.String()),
					slog.String("topic", msg.Topic),
					slog.Any("error", err),
				)
				items[i].Error = ptr.New(fmt.Sprintf("produce message: %v", err))
			}
		})
	}
	wg.Wait()

	return items
}
