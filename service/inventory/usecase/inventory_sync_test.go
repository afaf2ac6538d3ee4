package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/inventory/model"
	"retail_backoffice/service/products/model/document"
	"retail_backoffice/service/products/repository"
	"retail_backoffice/service/products/repository/repositorytest"
)

type fakeLookupCache struct {
	mu       sync.Mutex
	entries  map[string]model.ProductSnapshot
	putErrs  int
	getErr   error
	replaced int
}

func newFakeLookupCache() *fakeLookupCache {
	return &fakeLookupCache{entries: make(map[string]model.ProductSnapshot)}
}

func (f *fakeLookupCache) Put(_ context.Context, snap model.ProductSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErrs > 0 {
		f.putErrs--
		return errors.New("rtdb unavailable")
	}
	if cur, ok := f.entries[snap.Barcode]; ok && cur.UpdatedAt > snap.UpdatedAt {
		return nil
	}
	f.entries[snap.Barcode] = snap
	return nil
}

func (f *fakeLookupCache) Get(_ context.Context, barcode string) (model.ProductSnapshot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return model.ProductSnapshot{}, false, f.getErr
	}
	s, ok := f.entries[barcode]
	return s, ok, nil
}

func (f *fakeLookupCache) Delete(_ context.Context, barcode, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.entries[barcode]; ok && cur.ProductID != productID {
		return nil
	}
	delete(f.entries, barcode)
	return nil
}

func (f *fakeLookupCache) ReplaceAll(_ context.Context, snaps []model.ProductSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string]model.ProductSnapshot)
	for _, s := range snaps {
		f.entries[s.Barcode] = s
	}
	f.replaced++
	return nil
}

type fakeAlerter struct {
	alerts []model.ProductSnapshot
}

func (f *fakeAlerter) LowStockAlert(_ context.Context, snap model.ProductSnapshot) error {
	f.alerts = append(f.alerts, snap)
	return nil
}

type fakeQueue struct {
	messages []types.Message
	deleted  []string
}

func (f *fakeQueue) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.messages = append(f.messages, types.Message{Body: in.MessageBody})
	return &sqs.SendMessageOutput{}, nil
}

func (f *fakeQueue) ReceiveMessage(_ context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	out := &sqs.ReceiveMessageOutput{Messages: f.messages}
	f.messages = nil
	return out, nil
}

func (f *fakeQueue) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func newTestUseCase(c *fakeLookupCache, repo repository.IProductRepository, alerter LowStockAlerter, q *fakeQueue) *inventorySyncUseCase {
	uc := NewInventorySyncUseCase(c, repo, alerter, q, "https://sqs.local/sync", zap.NewNop()).(*inventorySyncUseCase)
	uc.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3)
	}
	return uc
}

func sampleProduct(barcode string, stock int, active bool) document.Product {
	return document.Product{
		ID:        primitive.NewObjectID(),
		Name:      "Milk " + barcode,
		Barcode:   barcode,
		Price:     database.DecimalToBSON(decimal.RequireFromString("1.25")),
		Stock:     stock,
		Active:    active,
		UpdatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestApply_UpsertRetriesAndAlerts(t *testing.T) {
	p := sampleProduct("111", 2, true)
	c := newFakeLookupCache()
	c.putErrs = 2
	alerter := &fakeAlerter{}
	uc := newTestUseCase(c, repositorytest.NewProductRepository(p), alerter, &fakeQueue{})

	err := uc.Apply(context.Background(), model.NewSyncEvent(model.KindStockAdjust, p.Snapshot(), 5))
	require.NoError(t, err)

	assert.Equal(t, p.Snapshot(), c.entries["111"])
	require.Len(t, alerter.alerts, 1)
	assert.Equal(t, p.ID.Hex(), alerter.alerts[0].ProductID)
}

func TestApply_GivesUpAfterRetries(t *testing.T) {
	p := sampleProduct("111", 1, true)
	c := newFakeLookupCache()
	c.putErrs = 10
	alerter := &fakeAlerter{}
	uc := newTestUseCase(c, repositorytest.NewProductRepository(p), alerter, &fakeQueue{})

	err := uc.Apply(context.Background(), model.NewSyncEvent(model.KindStockAdjust, p.Snapshot(), 5))

	assert.Error(t, err)
	assert.Empty(t, alerter.alerts, "no alert when the cache write failed")
}

func TestApply_BarcodeChangeMovesEntry(t *testing.T) {
	p := sampleProduct("new", 3, true)
	c := newFakeLookupCache()
	c.entries["old"] = model.ProductSnapshot{ProductID: p.ID.Hex(), Barcode: "old"}
	uc := newTestUseCase(c, repositorytest.NewProductRepository(p), nil, &fakeQueue{})

	ev := model.NewSyncEvent(model.KindProductUpsert, p.Snapshot(), 5)
	ev.PreviousBarcode = "old"
	require.NoError(t, uc.Apply(context.Background(), ev))

	assert.NotContains(t, c.entries, "old")
	assert.Equal(t, p.ID.Hex(), c.entries["new"].ProductID)
}

func TestApply_Delete(t *testing.T) {
	p := sampleProduct("111", 3, true)
	c := newFakeLookupCache()
	c.entries["111"] = p.Snapshot()
	uc := newTestUseCase(c, repositorytest.NewProductRepository(), nil, &fakeQueue{})

	require.NoError(t, uc.Apply(context.Background(), model.NewSyncEvent(model.KindProductDelete, p.Snapshot(), 5)))
	assert.Empty(t, c.entries)
}

func TestApply_OutOfOrderEventsKeepLatest(t *testing.T) {
	p := sampleProduct("111", 5, true)
	older := p
	older.Stock = 9
	older.UpdatedAt = p.UpdatedAt.Add(-time.Minute)

	c := newFakeLookupCache()
	uc := newTestUseCase(c, repositorytest.NewProductRepository(p), nil, &fakeQueue{})
	ctx := context.Background()

	require.NoError(t, uc.Apply(ctx, model.NewSyncEvent(model.KindStockAdjust, p.Snapshot(), 0)))
	require.NoError(t, uc.Apply(ctx, model.NewSyncEvent(model.KindStockAdjust, older.Snapshot(), 0)))

	assert.Equal(t, 5, c.entries["111"].Stock)
	assert.Equal(t, p.Snapshot(), c.entries["111"])
}

func TestApply_StaleUpsertAfterDeleteIsIgnored(t *testing.T) {
	p := sampleProduct("111", 5, true)
	c := newFakeLookupCache()
	c.entries["111"] = p.Snapshot()
	uc := newTestUseCase(c, repositorytest.NewProductRepository(), nil, &fakeQueue{})
	ctx := context.Background()

	require.NoError(t, uc.Apply(ctx, model.NewSyncEvent(model.KindProductDelete, p.Snapshot(), 5)))
	require.NoError(t, uc.Apply(ctx, model.NewSyncEvent(model.KindProductUpsert, p.Snapshot(), 5)))

	assert.Empty(t, c.entries)
}

func TestApply_DeleteLeavesBarcodeTakenByAnotherProduct(t *testing.T) {
	gone := sampleProduct("111", 1, true)
	successor := sampleProduct("111", 8, true)
	c := newFakeLookupCache()
	c.entries["111"] = successor.Snapshot()
	uc := newTestUseCase(c, repositorytest.NewProductRepository(successor), nil, &fakeQueue{})

	require.NoError(t, uc.Apply(context.Background(), model.NewSyncEvent(model.KindProductDelete, gone.Snapshot(), 5)))
	assert.Equal(t, successor.ID.Hex(), c.entries["111"].ProductID)
}

func TestApply_KeepsNewerCachedEntry(t *testing.T) {
	p := sampleProduct("111", 5, true)
	newer := p.Snapshot()
	newer.Stock = 2
	newer.UpdatedAt += 1000

	c := newFakeLookupCache()
	c.entries["111"] = newer
	uc := newTestUseCase(c, repositorytest.NewProductRepository(p), nil, &fakeQueue{})

	require.NoError(t, uc.Apply(context.Background(), model.NewSyncEvent(model.KindStockAdjust, p.Snapshot(), 0)))
	assert.Equal(t, newer, c.entries["111"])
}

func TestApply_RejectsBadProductID(t *testing.T) {
	uc := newTestUseCase(newFakeLookupCache(), repositorytest.NewProductRepository(), nil, &fakeQueue{})
	err := uc.Apply(context.Background(), model.NewSyncEvent(model.KindProductUpsert, model.ProductSnapshot{ProductID: "p1", Barcode: "111"}, 5))
	assert.ErrorIs(t, err, database.ErrInvalidID)
}

func TestApply_UnknownKind(t *testing.T) {
	uc := newTestUseCase(newFakeLookupCache(), repositorytest.NewProductRepository(), nil, &fakeQueue{})
	assert.Error(t, uc.Apply(context.Background(), model.SyncEvent{Kind: "product.renamed"}))
}

func TestLookupProduct(t *testing.T) {
	repo := repositorytest.NewProductRepository(
		sampleProduct("111", 4, true),
		sampleProduct("222", 4, false),
	)
	c := newFakeLookupCache()
	uc := newTestUseCase(c, repo, nil, &fakeQueue{})
	ctx := context.Background()

	t.Run("miss falls back to mongo and repopulates", func(t *testing.T) {
		snap, err := uc.LookupProduct(ctx, " 111 ")
		require.NoError(t, err)
		assert.Equal(t, "1.25", snap.Price)
		assert.Contains(t, c.entries, "111")
	})

	t.Run("hit is served from cache", func(t *testing.T) {
		c.entries["333"] = model.ProductSnapshot{ProductID: "cached", Barcode: "333", Active: true}
		snap, err := uc.LookupProduct(ctx, "333")
		require.NoError(t, err)
		assert.Equal(t, "cached", snap.ProductID)
	})

	t.Run("inactive product is not sellable", func(t *testing.T) {
		_, err := uc.LookupProduct(ctx, "222")
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
	})

	t.Run("unknown barcode", func(t *testing.T) {
		_, err := uc.LookupProduct(ctx, "999")
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
	})

	t.Run("cache error still serves from mongo", func(t *testing.T) {
		c.getErr = errors.New("rtdb timeout")
		defer func() { c.getErr = nil }()
		snap, err := uc.LookupProduct(ctx, "111")
		require.NoError(t, err)
		assert.Equal(t, "111", snap.Barcode)
	})

	t.Run("empty barcode", func(t *testing.T) {
		_, err := uc.LookupProduct(ctx, "  ")
		assert.Error(t, err)
	})
}

func TestResync(t *testing.T) {
	repo := repositorytest.NewProductRepository(
		sampleProduct("111", 4, true),
		sampleProduct("222", 0, true),
	)
	c := newFakeLookupCache()
	c.entries["stale"] = model.ProductSnapshot{ProductID: "gone", Barcode: "stale"}
	uc := newTestUseCase(c, repo, nil, &fakeQueue{})

	n, err := uc.Resync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, c.replaced)
	assert.NotContains(t, c.entries, "stale")
	assert.Contains(t, c.entries, "222")
}

func TestProcessBatch(t *testing.T) {
	p := sampleProduct("111", 4, true)
	c := newFakeLookupCache()
	q := &fakeQueue{}
	uc := newTestUseCase(c, repositorytest.NewProductRepository(p), nil, q)

	good, _ := json.Marshal(model.NewSyncEvent(model.KindProductUpsert, p.Snapshot(), 5))
	noID, _ := json.Marshal(model.NewSyncEvent(model.KindProductUpsert, model.ProductSnapshot{Barcode: "222"}, 5))
	failing, _ := json.Marshal(model.SyncEvent{Kind: "nonsense", ProductID: p.ID.Hex()})
	q.messages = []types.Message{
		{MessageId: aws.String("m1"), ReceiptHandle: aws.String("r-good"), Body: aws.String(string(good))},
		{MessageId: aws.String("m2"), ReceiptHandle: aws.String("r-bad-json"), Body: aws.String("{not json")},
		{MessageId: aws.String("m3"), ReceiptHandle: aws.String("r-failing"), Body: aws.String(string(failing))},
		{MessageId: aws.String("m4"), ReceiptHandle: aws.String("r-no-id"), Body: aws.String(string(noID))},
	}

	require.NoError(t, uc.processBatch(context.Background()))

	assert.Contains(t, c.entries, "111")
	assert.NotContains(t, c.entries, "222")
	assert.ElementsMatch(t, []string{"r-good", "r-bad-json", "r-no-id"}, q.deleted, "failed applies stay on the queue")
}

func TestConsumeQueue_NoQueueReturns(t *testing.T) {
	uc := NewInventorySyncUseCase(newFakeLookupCache(), repositorytest.NewProductRepository(), nil, nil, "", zap.NewNop())
	uc.ConsumeQueue(context.Background())
}
