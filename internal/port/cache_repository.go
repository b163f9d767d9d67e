package port

import "context"

type IdempotencyStore interface {
	// SetIdempotency claims key, returns false if it is already claimed
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ClearIdempotency releases a claim so a failed request can be retried
	ClearIdempotency(ctx context.Context, key string) error
}
