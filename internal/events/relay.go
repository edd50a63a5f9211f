package events

import (
	"context"
	"log"
	"time"

	"github.com/sajidk/furniture-store/internal/models"
)

// OutboxSource hands the relay its pending rows; the order store implements it.
type OutboxSource interface {
	PendingOutbox(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	MarkOutboxDone(ctx context.Context, ids []uint) error
}

// Relay drains the outbox to the broker. Rows stay pending on any push
// failure and are retried next tick, so delivery is at-least-once.
type Relay struct {
	Source   OutboxSource
	Producer Producer
	Interval time.Duration
	Batch    int
}

func (r *Relay) Run(ctx context.Context) {
	interval := r.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	batch := r.Batch
	if batch <= 0 {
		batch = 100
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.relayOnce(ctx, batch); err != nil {
				log.Printf("outbox relay: %v", err)
			}
		}
	}
}

func (r *Relay) relayOnce(ctx context.Context, limit int) error {
	pending, err := r.Source.PendingOutbox(ctx, limit)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	payloads := make([][]byte, 0, len(pending))
	ids := make([]uint, 0, len(pending))
	for _, row := range pending {
		payloads = append(payloads, row.Payload)
		ids = append(ids, row.ID)
	}
	if err := r.Producer.Push(payloads); err != nil {
		return err
	}
	return r.Source.MarkOutboxDone(ctx, ids)
}
