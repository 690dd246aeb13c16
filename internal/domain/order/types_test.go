//go:build unit

package order_test

import (
	"testing"

	"storefront/internal/domain/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatus(t *testing.T) {
	t.Run("accepts every lifecycle status", func(t *testing.T) {
		for _, s := range []string{"PENDING", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED"} {
			status, err := order.NewStatus(s)
			require.NoError(t, err)
			assert.Equal(t, s, status.String())
		}
	})

	t.Run("rejects unknown and lowercase values", func(t *testing.T) {
		for _, s := range []string{"", "pending", "SHIPPING", "DONE", "Pending"} {
			_, err := order.NewStatus(s)
			require.ErrorIs(t, err, order.ErrInvalidStatus)
		}
	})
}

func TestStatusTransitions(t *testing.T) {
	all := []order.Status{
		order.StatusPending,
		order.StatusProcessing,
		order.StatusShipped,
		order.StatusDelivered,
		order.StatusCancelled,
	}

	allowed := map[order.Status]map[order.Status]bool{
		order.StatusPending: {
			order.StatusProcessing: true,
			order.StatusCancelled:  true,
		},
		order.StatusProcessing: {
			order.StatusShipped:   true,
			order.StatusCancelled: true,
		},
		order.StatusShipped: {
			order.StatusDelivered: true,
		},
		order.StatusDelivered: {},
		order.StatusCancelled: {},
	}

	for _, from := range all {
		for _, to := range all {
			from, to := from, to
			t.Run(from.String()+" to "+to.String(), func(t *testing.T) {
				assert.Equal(t, allowed[from][to], from.CanTransitionTo(to))
			})
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	t.Run("cancellable only before shipping", func(t *testing.T) {
		assert.True(t, order.StatusPending.IsCancellable())
		assert.True(t, order.StatusProcessing.IsCancellable())
		assert.False(t, order.StatusShipped.IsCancellable())
		assert.False(t, order.StatusDelivered.IsCancellable())
		assert.False(t, order.StatusCancelled.IsCancellable())
	})

	t.Run("terminal statuses allow no further moves", func(t *testing.T) {
		assert.False(t, order.StatusPending.IsTerminal())
		assert.False(t, order.StatusProcessing.IsTerminal())
		assert.False(t, order.StatusShipped.IsTerminal())
		assert.True(t, order.StatusDelivered.IsTerminal())
		assert.True(t, order.StatusCancelled.IsTerminal())
	})
}
