package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retail_backoffice/pkg/metrics"
	"retail_backoffice/service/products/model/document"
)

// CheckDelta keeps -delta representable and bounded so the conditional
// decrement filter stays meaningful.
func CheckDelta(delta int) error {
	if delta == 0 || delta > document.MaxQuantity || delta < -document.MaxQuantity {
		return ErrDeltaOutOfRange
	}
	return nil
}

type StockChange struct {
	ProductID primitive.ObjectID
	Delta     int
}

// ApplyStockChanges applies changes in order with conditional updates. When
// one fails, the changes applied before it are reverted and failedAt holds
// the index of the failing change. unrestored lists products whose revert
// also failed.
func ApplyStockChanges(ctx context.Context, repo IProductRepository, changes []StockChange) (updated []document.Product, failedAt int, unrestored []primitive.ObjectID, err error) {
	updated = make([]document.Product, 0, len(changes))
	for i, change := range changes {
		product, adjErr := repo.AdjustStock(ctx, change.ProductID, change.Delta)
		if adjErr != nil {
			return nil, i, RevertStockChanges(ctx, repo, changes[:i]), adjErr
		}
		updated = append(updated, product)
	}
	return updated, -1, nil, nil
}

// RevertStockChanges applies the inverse of each change and returns the ids
// it could not restore. It keeps going after the caller's context is
// cancelled.
func RevertStockChanges(ctx context.Context, repo IProductRepository, applied []StockChange) []primitive.ObjectID {
	ctx = context.WithoutCancel(ctx)
	var failed []primitive.ObjectID
	for i := len(applied) - 1; i >= 0; i-- {
		change := applied[i]
		if _, err := repo.AdjustStock(ctx, change.ProductID, -change.Delta); err != nil {
			metrics.Compensations.WithLabelValues("failed").Inc()
			failed = append(failed, change.ProductID)
			continue
		}
		metrics.Compensations.WithLabelValues("ok").Inc()
	}
	return failed
}
