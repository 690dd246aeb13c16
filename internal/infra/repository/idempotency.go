package repository

import (
	"context"
	"time"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

// TryInsert claims the key without failing on replays. The returned bool is
// true when this call claimed the key; false means a prior request holds it and
// the caller reads the row back to decide between replay and mismatch.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key, user_id) DO NOTHING`,
		key, userID, endpoint, requestHash, pgconv.TimeToPgtype(expiresAt),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, resultHash string, orderID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, `
		UPDATE idempotency_keys SET
			status = 'completed',
			response_hash = $3,
			result_order_id = $4,
			updated_at = now()
		WHERE key = $1 AND user_id = $2`,
		key, userID, pgconv.StringToPgtype(resultHash), pgconv.UUIDToPgtype(orderID),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	return nil
}
