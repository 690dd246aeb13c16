package readstore

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyReadStore struct{}

func NewIdempotencyReadStore() *IdempotencyReadStore {
	return &IdempotencyReadStore{}
}

func (r *IdempotencyReadStore) Get(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		record        shared.IdempotencyRecord
		resultOrderID pgtype.UUID
		expiresAt     pgtype.Timestamptz
	)
	err := dbtx.QueryRow(ctx, `
		SELECT key, user_id, status, request_hash, result_order_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND user_id = $2`,
		key, userID,
	).Scan(&record.Key, &record.UserID, &record.Status, &record.RequestHash, &resultOrderID, &expiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	record.ResultOrderID = pgconv.UUIDPtrFromPgtype(resultOrderID)
	record.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	return &record, nil
}
