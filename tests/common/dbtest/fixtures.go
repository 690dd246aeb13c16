//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, password_hash, role, is_active) VALUES ($1, $2, $3, $4, true) ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateInactiveTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO users (id, email, password_hash, role, is_active) VALUES ($1, $2, $3, $4, false)",
		userID, email, testPasswordHash, role)
	require.NoError(t, err)

	return userID
}

func CreateTestProduct(t *testing.T, db DBLike, title, productType string) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO products (id, title, product_type) VALUES ($1, $2, $3)",
		productID, title, productType)
	require.NoError(t, err)

	return productID
}

func CreateTestVariant(t *testing.T, db DBLike, productID uuid.UUID, size string, priceCents int64, stock int32) uuid.UUID {
	t.Helper()

	variantID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO variants (id, product_id, size, price_cents, stock) VALUES ($1, $2, $3, $4, $5)",
		variantID, productID, size, priceCents, stock)
	require.NoError(t, err)

	return variantID
}

func GetVariantStock(t *testing.T, db DBLike, variantID uuid.UUID) int32 {
	t.Helper()

	var stock int32
	err := db.QueryRow(context.Background(), "SELECT stock FROM variants WHERE id = $1", variantID).Scan(&stock)
	require.NoError(t, err)
	return stock
}

func GetOrderStatus(t *testing.T, db DBLike, orderID uuid.UUID) (string, int32) {
	t.Helper()

	var (
		status  string
		version int32
	)
	err := db.QueryRow(context.Background(), "SELECT status, version FROM orders WHERE id = $1", orderID).Scan(&status, &version)
	require.NoError(t, err)
	return status, version
}

func CountNotificationJobs(t *testing.T, db DBLike, topic string) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM notification_jobs WHERE topic = $1", topic).Scan(&count)
	require.NoError(t, err)
	return count
}

func CountNotificationJobsByStatus(t *testing.T, db DBLike, topic, status string) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM notification_jobs WHERE topic = $1 AND status = $2", topic, status).Scan(&count)
	require.NoError(t, err)
	return count
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between subtests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
