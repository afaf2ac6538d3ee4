package model

import (
	"strings"
	"time"
)

type EventKind string

const (
	KindProductUpsert EventKind = "product.upsert"
	KindProductDelete EventKind = "product.delete"
	KindStockAdjust   EventKind = "stock.adjust"
)

// ProductSnapshot is the value kept under products/<barcode> in the
// realtime database for cashier lookups.
type ProductSnapshot struct {
	ProductID string `json:"product_id"`
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Unit      string `json:"unit,omitempty"`
	Stock     int    `json:"stock"`
	Active    bool   `json:"active"`
	UpdatedAt int64  `json:"updated_at"`
}

type SyncEvent struct {
	Kind            EventKind       `json:"kind"`
	ProductID       string          `json:"product_id"`
	Snapshot        ProductSnapshot `json:"snapshot"`
	PreviousBarcode string          `json:"previous_barcode,omitempty"`
	LowStock        bool            `json:"low_stock"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

var keyReplacer = strings.NewReplacer(".", "_", "$", "_", "#", "_", "[", "_", "]", "_", "/", "_")

// LookupKey turns a barcode into a valid realtime database key.
func LookupKey(barcode string) string {
	return keyReplacer.Replace(strings.TrimSpace(barcode))
}

// NewSyncEvent stamps an event for snap. Only stock movements raise the
// low-stock flag so that editing a product's name does not re-alert.
func NewSyncEvent(kind EventKind, snap ProductSnapshot, lowStockThreshold int) SyncEvent {
	return SyncEvent{
		Kind:       kind,
		ProductID:  snap.ProductID,
		Snapshot:   snap,
		LowStock:   kind == KindStockAdjust && snap.Active && snap.Stock <= lowStockThreshold,
		OccurredAt: time.Now().UTC(),
	}
}
