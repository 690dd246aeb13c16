//go:build unit

package user_test

import (
	"testing"

	"storefront/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	t.Run("known roles", func(t *testing.T) {
		for _, s := range []string{"customer", "admin"} {
			role, err := user.NewRole(s)
			require.NoError(t, err)
			assert.Equal(t, s, role.String())
			assert.True(t, role.IsValid())
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		for _, s := range []string{"", "superuser", "Admin", "CUSTOMER"} {
			_, err := user.NewRole(s)
			require.ErrorIs(t, err, user.ErrInvalidRole, s)
		}
	})
}
