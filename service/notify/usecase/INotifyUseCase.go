package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/metrics"
	invmodel "retail_backoffice/service/inventory/model"
	"retail_backoffice/service/notify/model"
	"retail_backoffice/service/notify/strategy"
)

// alertCooldown keeps one product from paging admins on every sale.
const alertCooldown = time.Hour

var ErrTokenNotFound = apperr.New(apperr.KindNotFound, "no FCM token registered")

// Messenger is satisfied by *messaging.Client.
type Messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
}

type INotifyUseCase interface {
	RegisterFcmToken(ctx context.Context, dto model.RequestUpdateFcmTokenDTO) error
	GetFcmToken(ctx context.Context, role, uid string) (string, error)
	LowStockAlert(ctx context.Context, snap invmodel.ProductSnapshot) error
}

type notifyUseCase struct {
	redis      strategy.Store
	messenger  Messenger
	log        *zap.Logger
	newBackOff func() backoff.BackOff
}

func NewNotifyUseCase(rdb strategy.Store, messenger Messenger, log *zap.Logger) INotifyUseCase {
	return &notifyUseCase{
		redis:     rdb,
		messenger: messenger,
		log:       log.Named("notify"),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = 10 * time.Second
			return b
		},
	}
}

func (n *notifyUseCase) RegisterFcmToken(ctx context.Context, dto model.RequestUpdateFcmTokenDTO) error {
	strat, err := strategy.GetTokenStrategy(dto.Role)
	if err != nil {
		return apperr.Invalid(err.Error())
	}
	if err := strat.StoreToken(ctx, n.redis, dto.UID, dto.FcmToken); err != nil {
		return fmt.Errorf("store fcm token: %w", err)
	}
	n.log.Info("stored FCM token", zap.String("uid", dto.UID), zap.String("role", dto.Role))

	if strat.SubscribesToAlerts() {
		resp, err := n.messenger.SubscribeToTopic(ctx, []string{dto.FcmToken}, model.LowStockTopic)
		if err != nil {
			return fmt.Errorf("subscribe to %s: %w", model.LowStockTopic, err)
		}
		if resp != nil && resp.FailureCount > 0 {
			reason := "unknown"
			if len(resp.Errors) > 0 && resp.Errors[0] != nil {
				reason = resp.Errors[0].Reason
			}
			return fmt.Errorf("subscribe to %s: %s", model.LowStockTopic, reason)
		}
	}
	return nil
}

func (n *notifyUseCase) GetFcmToken(ctx context.Context, role, uid string) (string, error) {
	strat, err := strategy.GetTokenStrategy(role)
	if err != nil {
		return "", apperr.Invalid(err.Error())
	}
	val, err := n.redis.Get(ctx, strat.Key(uid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get fcm token: %w", err)
	}
	return val, nil
}

// LowStockAlert pushes to the low stock topic at most once per product per
// cooldown window.
func (n *notifyUseCase) LowStockAlert(ctx context.Context, snap invmodel.ProductSnapshot) error {
	cooldownKey := "alert:low-stock:" + snap.ProductID
	first, err := n.redis.SetNX(ctx, cooldownKey, snap.Stock, alertCooldown).Result()
	if err != nil {
		n.log.Warn("alert cooldown check failed, sending anyway", zap.Error(err))
	} else if !first {
		metrics.LowStockAlerts.WithLabelValues("suppressed").Inc()
		return nil
	}

	message := model.LowStockMessage(snap)
	var messageID string
	err = backoff.Retry(func() error {
		var sendErr error
		messageID, sendErr = n.messenger.Send(ctx, message)
		return sendErr
	}, backoff.WithContext(n.newBackOff(), ctx))
	if err != nil {
		metrics.LowStockAlerts.WithLabelValues("failed").Inc()
		_ = n.redis.Del(context.WithoutCancel(ctx), cooldownKey).Err()
		return fmt.Errorf("send low stock alert: %w", err)
	}

	metrics.LowStockAlerts.WithLabelValues("sent").Inc()
	n.log.Info("low stock alert sent",
		zap.String("product_id", snap.ProductID),
		zap.Int("stock", snap.Stock),
		zap.String("message_id", messageID))
	return nil
}
