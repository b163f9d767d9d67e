package port

import (
	"context"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
}
