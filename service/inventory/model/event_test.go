package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupKey(t *testing.T) {
	assert.Equal(t, "8934563138165", LookupKey(" 8934563138165 "))
	assert.Equal(t, "SKU_1_2_a_b_", LookupKey("SKU.1/2#a[b]"))
	assert.Equal(t, "x_y", LookupKey("x$y"))
}

func TestNewSyncEvent_LowStock(t *testing.T) {
	snap := ProductSnapshot{ProductID: "p1", Barcode: "111", Stock: 3, Active: true}

	adjust := NewSyncEvent(KindStockAdjust, snap, 5)
	assert.True(t, adjust.LowStock)
	assert.Equal(t, "p1", adjust.ProductID)
	assert.False(t, adjust.OccurredAt.IsZero())

	upsert := NewSyncEvent(KindProductUpsert, snap, 5)
	assert.False(t, upsert.LowStock, "metadata edits never alert")

	snap.Active = false
	assert.False(t, NewSyncEvent(KindStockAdjust, snap, 5).LowStock, "inactive products never alert")

	snap.Active = true
	snap.Stock = 6
	assert.False(t, NewSyncEvent(KindStockAdjust, snap, 5).LowStock)
}
