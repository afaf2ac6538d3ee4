package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/sales/model/document"
)

var ErrSaleNotFound = apperr.New(apperr.KindNotFound, "sale not found")

// SaleFilter selects sales with created_at in [From, To). Zero bounds are
// open.
type SaleFilter struct {
	CashierUID string
	From       time.Time
	To         time.Time
}

type ISaleRepository interface {
	Insert(ctx context.Context, sale *document.Sale) error
	GetByID(ctx context.Context, id primitive.ObjectID) (document.Sale, error)
	List(ctx context.Context, filter SaleFilter, page, pageSize int) ([]document.Sale, int64, error)
	FindAll(ctx context.Context, filter SaleFilter) ([]document.Sale, error)
}

type saleRepository struct {
	coll *mongo.Collection
}

func NewSaleRepository(db *mongo.Database) ISaleRepository {
	return &saleRepository{coll: db.Collection(database.CollectionSales)}
}

func SaleIndexes() database.IndexSpec {
	return database.IndexSpec{
		Collection: database.CollectionSales,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "receipt_no", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "cashier_uid", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
}

func (r *saleRepository) Insert(ctx context.Context, sale *document.Sale) error {
	res, err := r.coll.InsertOne(ctx, sale)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	sale.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *saleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (document.Sale, error) {
	var sale document.Sale
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sale)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return document.Sale{}, ErrSaleNotFound
	}
	if err != nil {
		return document.Sale{}, fmt.Errorf("find sale: %w", err)
	}
	return sale, nil
}

func (r *saleRepository) List(ctx context.Context, filter SaleFilter, page, pageSize int) ([]document.Sale, int64, error) {
	query := buildFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	cursor, err := r.coll.Find(ctx, query, database.Paginate(page, pageSize, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	sales := make([]document.Sale, 0)
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, 0, fmt.Errorf("decode sales: %w", err)
	}
	return sales, total, nil
}

func (r *saleRepository) FindAll(ctx context.Context, filter SaleFilter) ([]document.Sale, error) {
	cursor, err := r.coll.Find(ctx, buildFilter(filter), options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find sales: %w", err)
	}
	sales := make([]document.Sale, 0)
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return sales, nil
}

func buildFilter(f SaleFilter) bson.M {
	query := bson.M{}
	if f.CashierUID != "" {
		query["cashier_uid"] = f.CashierUID
	}
	created := bson.M{}
	if !f.From.IsZero() {
		created["$gte"] = f.From
	}
	if !f.To.IsZero() {
		created["$lt"] = f.To
	}
	if len(created) > 0 {
		query["created_at"] = created
	}
	return query
}
