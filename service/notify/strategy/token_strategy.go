package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"retail_backoffice/pkg/middleware"
)

// Store is the part of *redis.Client the notify service needs.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type TokenStrategy interface {
	Key(uid string) string
	StoreToken(ctx context.Context, rdb Store, uid, token string) error
	// SubscribesToAlerts reports whether devices of this role receive
	// low stock pushes.
	SubscribesToAlerts() bool
}

type AdminTokenStrategy struct{}

type CashierTokenStrategy struct{}

func (AdminTokenStrategy) Key(uid string) string {
	return fmt.Sprintf("fcm:admin:%s", uid)
}

func (a AdminTokenStrategy) StoreToken(ctx context.Context, rdb Store, uid, token string) error {
	return rdb.Set(ctx, a.Key(uid), token, 0).Err()
}

func (AdminTokenStrategy) SubscribesToAlerts() bool { return true }

func (CashierTokenStrategy) Key(uid string) string {
	return fmt.Sprintf("fcm:cashier:%s", uid)
}

func (c CashierTokenStrategy) StoreToken(ctx context.Context, rdb Store, uid, token string) error {
	return rdb.Set(ctx, c.Key(uid), token, 0).Err()
}

func (CashierTokenStrategy) SubscribesToAlerts() bool { return false }

var ErrUnsupportedRole = errors.New("unsupported role")

func GetTokenStrategy(role string) (TokenStrategy, error) {
	switch role {
	case middleware.RoleAdmin:
		return AdminTokenStrategy{}, nil
	case middleware.RoleCashier:
		return CashierTokenStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRole, role)
	}
}
