//go:build unit

package order_test

import (
	"encoding/json"
	"testing"

	"storefront/internal/domain/order"
	"storefront/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.OrderBuilder)
	errIs  error
}

func TestOrder(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewOrderBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, order.StatusPending, actual.Status())
		assert.Equal(t, int32(1), actual.Version())
		assert.False(t, actual.CreatedAt().IsZero())
		assert.Equal(t, actual.CreatedAt(), actual.UpdatedAt())
	})

	t.Run("totals derived from item lines", func(t *testing.T) {
		actual, err := builder.NewOrderBuilder().
			WithQuantity(3).
			WithPriceCents(1200).
			WithShippingCents(700).
			BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, int64(3600), actual.SubtotalCents())
		assert.Equal(t, int64(700), actual.ShippingCents())
		assert.Equal(t, int64(4300), actual.TotalCents())
	})

	t.Run("email validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "plain address",
				mutate: func(b *builder.OrderBuilder) { b.WithEmail("a@b.example") },
			},
			{
				name:   "empty email",
				mutate: func(b *builder.OrderBuilder) { b.WithEmail("") },
				errIs:  order.ErrInvalidEmail,
			},
			{
				name:   "whitespace only",
				mutate: func(b *builder.OrderBuilder) { b.WithEmail("   ") },
				errIs:  order.ErrInvalidEmail,
			},
			{
				name:   "missing domain",
				mutate: func(b *builder.OrderBuilder) { b.WithEmail("not-an-email") },
				errIs:  order.ErrInvalidEmail,
			},
		})
	})

	t.Run("shipping address validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "empty document",
				mutate: func(b *builder.OrderBuilder) { b.WithShippingAddress(nil) },
				errIs:  order.ErrInvalidAddress,
			},
			{
				name:   "malformed JSON",
				mutate: func(b *builder.OrderBuilder) { b.WithShippingAddress(json.RawMessage(`{"line1":`)) },
				errIs:  order.ErrInvalidAddress,
			},
		})
	})

	t.Run("item validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero quantity",
				mutate: func(b *builder.OrderBuilder) { b.WithQuantity(0) },
				errIs:  order.ErrInvalidItem,
			},
			{
				name:   "negative quantity",
				mutate: func(b *builder.OrderBuilder) { b.WithQuantity(-1) },
				errIs:  order.ErrInvalidItem,
			},
			{
				name:   "negative price",
				mutate: func(b *builder.OrderBuilder) { b.WithPriceCents(-100) },
				errIs:  order.ErrInvalidItem,
			},
			{
				name:   "nil variant",
				mutate: func(b *builder.OrderBuilder) { b.WithVariantID(uuid.Nil) },
				errIs:  order.ErrInvalidItem,
			},
		})
	})

	t.Run("shipping cost validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "free shipping",
				mutate: func(b *builder.OrderBuilder) { b.WithShippingCents(0) },
			},
			{
				name:   "negative shipping",
				mutate: func(b *builder.OrderBuilder) { b.WithShippingCents(-1) },
				errIs:  order.ErrNegativeShipping,
			},
		})
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewOrderBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
