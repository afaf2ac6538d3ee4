package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"retail_backoffice/pkg/apperr"
	invmodel "retail_backoffice/service/inventory/model"
	"retail_backoffice/service/notify/model"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore { return &fakeStore{values: map[string]string{}} }

func (f *fakeStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeStore) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) *redis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = "1"
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

type fakeMessenger struct {
	sent       []*messaging.Message
	failures   int
	subscribed map[string][]string
}

func (f *fakeMessenger) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.failures > 0 {
		f.failures--
		return "", errors.New("fcm unavailable")
	}
	f.sent = append(f.sent, m)
	return "msg-1", nil
}

func (f *fakeMessenger) SubscribeToTopic(_ context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error) {
	if f.subscribed == nil {
		f.subscribed = map[string][]string{}
	}
	f.subscribed[topic] = append(f.subscribed[topic], tokens...)
	return &messaging.TopicManagementResponse{SuccessCount: len(tokens)}, nil
}

func newTestNotify(store *fakeStore, m *fakeMessenger) *notifyUseCase {
	uc := NewNotifyUseCase(store, m, zap.NewNop()).(*notifyUseCase)
	uc.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
	}
	return uc
}

func TestRegisterFcmToken(t *testing.T) {
	store, m := newFakeStore(), &fakeMessenger{}
	uc := newTestNotify(store, m)
	ctx := context.Background()

	require.NoError(t, uc.RegisterFcmToken(ctx, model.RequestUpdateFcmTokenDTO{FcmToken: "tok-a", UID: "u1", Role: "admin"}))
	require.NoError(t, uc.RegisterFcmToken(ctx, model.RequestUpdateFcmTokenDTO{FcmToken: "tok-c", UID: "u2", Role: "cashier"}))

	assert.Equal(t, "tok-a", store.values["fcm:admin:u1"])
	assert.Equal(t, "tok-c", store.values["fcm:cashier:u2"])
	assert.Equal(t, []string{"tok-a"}, m.subscribed[model.LowStockTopic], "only admins get low stock pushes")

	token, err := uc.GetFcmToken(ctx, "cashier", "u2")
	require.NoError(t, err)
	assert.Equal(t, "tok-c", token)

	_, err = uc.GetFcmToken(ctx, "admin", "nobody")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	err = uc.RegisterFcmToken(ctx, model.RequestUpdateFcmTokenDTO{FcmToken: "t", UID: "u3", Role: "customer"})
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestLowStockAlert_RetriesAndThrottles(t *testing.T) {
	store, m := newFakeStore(), &fakeMessenger{failures: 1}
	uc := newTestNotify(store, m)
	snap := invmodel.ProductSnapshot{ProductID: "p1", Barcode: "111", Name: "Milk", Stock: 2}

	require.NoError(t, uc.LowStockAlert(context.Background(), snap))
	require.Len(t, m.sent, 1)
	assert.Equal(t, model.LowStockTopic, m.sent[0].Topic)
	assert.Equal(t, "2", m.sent[0].Data["stock"])

	require.NoError(t, uc.LowStockAlert(context.Background(), snap))
	assert.Len(t, m.sent, 1, "second alert inside the cooldown is suppressed")
}

func TestLowStockAlert_FailureClearsCooldown(t *testing.T) {
	store, m := newFakeStore(), &fakeMessenger{failures: 10}
	uc := newTestNotify(store, m)
	snap := invmodel.ProductSnapshot{ProductID: "p1", Name: "Milk", Stock: 1}

	assert.Error(t, uc.LowStockAlert(context.Background(), snap))
	assert.NotContains(t, store.values, "alert:low-stock:p1")
}
