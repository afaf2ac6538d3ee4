package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/pkg/infra/queue"
	"retail_backoffice/pkg/metrics"
	"retail_backoffice/service/inventory/cache"
	"retail_backoffice/service/inventory/model"
	"retail_backoffice/service/products/model/document"
	"retail_backoffice/service/products/repository"
)

// LowStockAlerter is implemented by the notify use case.
type LowStockAlerter interface {
	LowStockAlert(ctx context.Context, snap model.ProductSnapshot) error
}

type IInventorySyncUseCase interface {
	Apply(ctx context.Context, event model.SyncEvent) error
	Resync(ctx context.Context) (int, error)
	LookupProduct(ctx context.Context, barcode string) (model.ProductSnapshot, error)
	ConsumeQueue(ctx context.Context)
}

type inventorySyncUseCase struct {
	cache       cache.ILookupCache
	productRepo repository.IProductRepository
	alerter     LowStockAlerter
	queue       queue.API
	queueURL    string
	log         *zap.Logger
	newBackOff  func() backoff.BackOff
	pollDelay   time.Duration
}

func NewInventorySyncUseCase(
	lookupCache cache.ILookupCache,
	productRepo repository.IProductRepository,
	alerter LowStockAlerter,
	queueClient queue.API,
	queueURL string,
	log *zap.Logger,
) IInventorySyncUseCase {
	return &inventorySyncUseCase{
		cache:       lookupCache,
		productRepo: productRepo,
		alerter:     alerter,
		queue:       queueClient,
		queueURL:    queueURL,
		log:         log.Named("inventory-sync"),
		newBackOff:  defaultBackOff,
		pollDelay:   5 * time.Second,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second
	return b
}

func (u *inventorySyncUseCase) retry(ctx context.Context, op func() error) error {
	return backoff.Retry(op, backoff.WithContext(u.newBackOff(), ctx))
}

// Apply brings the lookup entries an event touches in line with the
// product as it is stored now. The event only names the product and the
// barcodes involved, so replays and out-of-order deliveries converge on the
// current MongoDB state.
func (u *inventorySyncUseCase) Apply(ctx context.Context, event model.SyncEvent) error {
	kind := string(event.Kind)
	switch event.Kind {
	case model.KindProductDelete, model.KindProductUpsert, model.KindStockAdjust:
	default:
		metrics.SyncEvents.WithLabelValues(kind, "unknown").Inc()
		return fmt.Errorf("unknown sync event kind %q", kind)
	}

	oid, err := database.ParseID(event.ProductID)
	if err != nil {
		metrics.SyncEvents.WithLabelValues(kind, "invalid").Inc()
		return err
	}

	var current model.ProductSnapshot
	found := false
	err = u.retry(ctx, func() error {
		product, err := u.productRepo.GetByID(ctx, oid)
		if errors.Is(err, repository.ErrProductNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		current, found = product.Snapshot(), true
		return nil
	})
	if err == nil {
		err = u.refreshEntries(ctx, event, current, found)
	}
	if err != nil {
		metrics.SyncEvents.WithLabelValues(kind, "failed").Inc()
		u.log.Error("lookup cache write failed",
			zap.String("kind", kind),
			zap.String("product_id", event.ProductID),
			zap.Error(err))
		return err
	}
	metrics.SyncEvents.WithLabelValues(kind, "applied").Inc()

	if event.LowStock && found && u.alerter != nil {
		if err := u.alerter.LowStockAlert(ctx, event.Snapshot); err != nil {
			u.log.Warn("low stock alert failed", zap.String("product_id", event.ProductID), zap.Error(err))
		}
	}
	return nil
}

// refreshEntries drops the product's stale barcodes and writes current when
// the product still exists.
func (u *inventorySyncUseCase) refreshEntries(ctx context.Context, event model.SyncEvent, current model.ProductSnapshot, found bool) error {
	for _, barcode := range []string{event.Snapshot.Barcode, event.PreviousBarcode} {
		if barcode == "" || (found && barcode == current.Barcode) {
			continue
		}
		if err := u.retry(ctx, func() error { return u.cache.Delete(ctx, barcode, event.ProductID) }); err != nil {
			return err
		}
	}
	if !found {
		return nil
	}
	return u.retry(ctx, func() error { return u.cache.Put(ctx, current) })
}

func (u *inventorySyncUseCase) Resync(ctx context.Context) (int, error) {
	snaps := make([]model.ProductSnapshot, 0)
	err := u.productRepo.ForEach(ctx, func(p document.Product) error {
		snaps = append(snaps, p.Snapshot())
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := u.retry(ctx, func() error { return u.cache.ReplaceAll(ctx, snaps) }); err != nil {
		return 0, err
	}
	u.log.Info("lookup cache rebuilt", zap.Int("products", len(snaps)))
	return len(snaps), nil
}

// LookupProduct serves cashier scans from the realtime database and falls
// back to MongoDB on a miss, repopulating the cache.
func (u *inventorySyncUseCase) LookupProduct(ctx context.Context, barcode string) (model.ProductSnapshot, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return model.ProductSnapshot{}, apperr.Invalid("barcode is required")
	}

	snap, ok, err := u.cache.Get(ctx, barcode)
	if err != nil {
		u.log.Warn("lookup cache read failed, falling back to mongo", zap.String("barcode", barcode), zap.Error(err))
	}
	if ok {
		if !snap.Active {
			return model.ProductSnapshot{}, repository.ErrProductNotFound
		}
		return snap, nil
	}

	product, err := u.productRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		return model.ProductSnapshot{}, err
	}
	snap = product.Snapshot()
	if err := u.cache.Put(ctx, snap); err != nil {
		u.log.Warn("failed to repopulate lookup cache", zap.String("barcode", barcode), zap.Error(err))
	}
	if !snap.Active {
		return model.ProductSnapshot{}, repository.ErrProductNotFound
	}
	return snap, nil
}

func (u *inventorySyncUseCase) ConsumeQueue(ctx context.Context) {
	if u.queueURL == "" || u.queue == nil {
		u.log.Info("no sync queue configured, events are applied inline")
		return
	}
	u.log.Info("consuming inventory sync queue", zap.String("queue_url", u.queueURL))

	for ctx.Err() == nil {
		if err := u.processBatch(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			u.log.Warn("failed to receive sync messages", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(u.pollDelay):
			}
		}
	}
	u.log.Info("inventory sync consumer stopped")
}

func (u *inventorySyncUseCase) processBatch(ctx context.Context) error {
	output, err := u.queue.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(u.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     10,
		VisibilityTimeout:   30,
	})
	if err != nil {
		return err
	}

	for _, msg := range output.Messages {
		u.handleMessage(ctx, msg)
	}
	return nil
}

// handleMessage deletes a message once it is applied. Failed applies are
// left on the queue and come back after the visibility timeout.
func (u *inventorySyncUseCase) handleMessage(ctx context.Context, msg types.Message) {
	msgID := aws.ToString(msg.MessageId)

	var event model.SyncEvent
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &event); err != nil {
		u.log.Error("dropping malformed sync message", zap.String("message_id", msgID), zap.Error(err))
		u.deleteMessage(ctx, msg)
		return
	}

	if err := u.Apply(ctx, event); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		if errors.Is(err, database.ErrInvalidID) {
			u.log.Error("dropping sync message without a product id", zap.String("message_id", msgID))
			u.deleteMessage(ctx, msg)
			return
		}
		u.log.Warn("sync message will be retried", zap.String("message_id", msgID), zap.Error(err))
		return
	}
	u.deleteMessage(ctx, msg)
}

func (u *inventorySyncUseCase) deleteMessage(ctx context.Context, msg types.Message) {
	_, err := u.queue.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(u.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		u.log.Warn("failed to delete sync message", zap.String("message_id", aws.ToString(msg.MessageId)), zap.Error(err))
	}
}
