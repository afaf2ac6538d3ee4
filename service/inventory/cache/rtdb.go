package cache

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/db"

	"retail_backoffice/service/inventory/model"
)

const lookupRoot = "products"

// ILookupCache is the cashier-facing product lookup kept in the realtime
// database. It is never the source of truth.
type ILookupCache interface {
	// Put keeps an existing entry whose UpdatedAt is newer than snap's.
	Put(ctx context.Context, snap model.ProductSnapshot) error
	Get(ctx context.Context, barcode string) (model.ProductSnapshot, bool, error)
	// Delete removes the entry only while it still belongs to productID.
	Delete(ctx context.Context, barcode, productID string) error
	ReplaceAll(ctx context.Context, snaps []model.ProductSnapshot) error
}

type rtdbLookupCache struct {
	client *db.Client
}

func NewRTDBLookupCache(client *db.Client) ILookupCache {
	return &rtdbLookupCache{client: client}
}

func (r *rtdbLookupCache) ref(barcode string) *db.Ref {
	return r.client.NewRef(lookupRoot + "/" + model.LookupKey(barcode))
}

func (r *rtdbLookupCache) Put(ctx context.Context, snap model.ProductSnapshot) error {
	err := r.ref(snap.Barcode).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var current model.ProductSnapshot
		if err := node.Unmarshal(&current); err != nil {
			return nil, err
		}
		if current.ProductID != "" && current.UpdatedAt > snap.UpdatedAt {
			return current, nil
		}
		return snap, nil
	})
	if err != nil {
		return fmt.Errorf("rtdb put %s: %w", snap.Barcode, err)
	}
	return nil
}

func (r *rtdbLookupCache) Get(ctx context.Context, barcode string) (model.ProductSnapshot, bool, error) {
	var snap model.ProductSnapshot
	if err := r.ref(barcode).Get(ctx, &snap); err != nil {
		return model.ProductSnapshot{}, false, fmt.Errorf("rtdb get %s: %w", barcode, err)
	}
	// absent keys decode as null and leave snap empty
	if snap.ProductID == "" {
		return model.ProductSnapshot{}, false, nil
	}
	return snap, true, nil
}

func (r *rtdbLookupCache) Delete(ctx context.Context, barcode, productID string) error {
	err := r.ref(barcode).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var current model.ProductSnapshot
		if err := node.Unmarshal(&current); err != nil {
			return nil, err
		}
		if current.ProductID != "" && current.ProductID != productID {
			return current, nil
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("rtdb delete %s: %w", barcode, err)
	}
	return nil
}

func (r *rtdbLookupCache) ReplaceAll(ctx context.Context, snaps []model.ProductSnapshot) error {
	all := make(map[string]model.ProductSnapshot, len(snaps))
	for _, s := range snaps {
		all[model.LookupKey(s.Barcode)] = s
	}
	if err := r.client.NewRef(lookupRoot).Set(ctx, all); err != nil {
		return fmt.Errorf("rtdb replace: %w", err)
	}
	return nil
}
