package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTokenStrategy(t *testing.T) {
	admin, err := GetTokenStrategy("admin")
	require.NoError(t, err)
	assert.Equal(t, "fcm:admin:abc", admin.Key("abc"))
	assert.True(t, admin.SubscribesToAlerts())

	cashier, err := GetTokenStrategy("cashier")
	require.NoError(t, err)
	assert.Equal(t, "fcm:cashier:abc", cashier.Key("abc"))
	assert.False(t, cashier.SubscribesToAlerts())

	_, err = GetTokenStrategy("driver")
	assert.ErrorIs(t, err, ErrUnsupportedRole)
}
