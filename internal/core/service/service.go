package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/pkg/logger"
	"github.com/rl1809/garage-ledger/internal/port"
)

// Clock returns the current time. Services take it as a dependency so tests
// can pin "now".
type Clock func() time.Time

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.LedgerEvent) error { return nil }

// publish runs after commit. A failed publish is logged and never undoes the
// mutation it describes.
func publish(ctx context.Context, log *logger.Logger, p port.EventPublisher, now time.Time, typ domain.EventType, key string, payload any) {
	event := domain.LedgerEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		Key:        key,
		OccurredAt: now,
		Payload:    payload,
	}
	if err := p.Publish(ctx, event); err != nil {
		log.Warn("publish ledger event failed", "type", typ, "key", key, "error", err)
	}
}
