package repository

import (
	"context"
	"time"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

// NotificationRepository persists outbox jobs. Enqueue runs inside the caller's
// business transaction; the notifier worker claims and settles jobs afterwards,
// so a mail failure can never roll back the state change that produced it.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO notification_jobs (id, kind, topic, payload, run_at, status)
		VALUES ($1, $2, $3, $4, $5, 'queued')`,
		uuid.New(), kind, topic, payload, pgconv.TimeToPgtype(runAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

// ListRunnable claims due jobs with SKIP LOCKED so parallel workers never
// deliver the same job twice.
func (r *NotificationRepository) ListRunnable(ctx context.Context, dbtx db.DBTX, now time.Time, limit int32) ([]shared.NotificationJob, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT id, kind, topic, payload, attempts
		FROM notification_jobs
		WHERE status = 'queued' AND run_at <= $1
		ORDER BY run_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED`,
		pgconv.TimeToPgtype(now), limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list runnable notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.NotificationJob
	for rows.Next() {
		var job shared.NotificationJob
		if err := rows.Scan(&job.ID, &job.Kind, &job.Topic, &job.Payload, &job.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification jobs", err)
	}

	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, dbtx db.DBTX, jobID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, `
		UPDATE notification_jobs SET
			status = 'sent',
			attempts = attempts + 1,
			updated_at = now()
		WHERE id = $1`,
		jobID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

// MarkFailed re-queues the job until maxAttempts is exhausted.
func (r *NotificationRepository) MarkFailed(ctx context.Context, dbtx db.DBTX, jobID uuid.UUID, lastError string, maxAttempts int32) error {
	_, err := dbtx.Exec(ctx, `
		UPDATE notification_jobs SET
			status = CASE WHEN attempts + 1 >= $3 THEN 'failed' ELSE 'queued' END,
			attempts = attempts + 1,
			last_error = $2,
			updated_at = now()
		WHERE id = $1`,
		jobID, pgconv.StringToPgtype(lastError), maxAttempts,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
