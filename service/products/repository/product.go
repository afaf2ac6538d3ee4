package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/products/model/document"
)

var (
	ErrProductNotFound  = apperr.New(apperr.KindNotFound, "product not found")
	ErrDuplicateBarcode = apperr.New(apperr.KindConflict, "a product with this barcode already exists")
	// ErrStockConflict means a conditional stock update did not match, i.e.
	// the product no longer has enough stock.
	ErrStockConflict   = apperr.New(apperr.KindUnprocessable, "not enough stock")
	ErrDeltaOutOfRange = apperr.Invalid("stock change is zero or too large")
)

type ProductFilter struct {
	Query        string
	Category     string
	Active       *bool
	FeaturedOnly bool
	InStockOnly  bool
	// MaxStock selects products with stock at or below the value.
	MaxStock *int
}

type IProductRepository interface {
	Create(ctx context.Context, product *document.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (document.Product, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]document.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (document.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (document.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (document.Product, error)
	List(ctx context.Context, filter ProductFilter, page, pageSize int, sort bson.D) ([]document.Product, int64, error)
	Categories(ctx context.Context, filter ProductFilter) ([]string, error)
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (document.Product, error)
	ForEach(ctx context.Context, fn func(document.Product) error) error
}

type productRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) IProductRepository {
	return &productRepository{
		coll: db.Collection(database.CollectionProducts),
	}
}

func ProductIndexes() database.IndexSpec {
	return database.IndexSpec{
		Collection: database.CollectionProducts,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "barcode", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "active", Value: 1}, {Key: "featured", Value: 1}}},
		},
	}
}

func (r *productRepository) Create(ctx context.Context, product *document.Product) error {
	res, err := r.coll.InsertOne(ctx, product)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateBarcode
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id primitive.ObjectID) (document.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *productRepository) GetByBarcode(ctx context.Context, barcode string) (document.Product, error) {
	return r.findOne(ctx, bson.M{"barcode": barcode})
}

func (r *productRepository) findOne(ctx context.Context, filter bson.M) (document.Product, error) {
	var product document.Product
	err := r.coll.FindOne(ctx, filter).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return document.Product{}, ErrProductNotFound
	}
	if err != nil {
		return document.Product{}, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]document.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	var products []document.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (document.Product, error) {
	set["updated_at"] = time.Now().UTC()

	var product document.Product
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return document.Product{}, ErrProductNotFound
	case mongo.IsDuplicateKeyError(err):
		return document.Product{}, ErrDuplicateBarcode
	case err != nil:
		return document.Product{}, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) (document.Product, error) {
	var product document.Product
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return document.Product{}, ErrProductNotFound
	}
	if err != nil {
		return document.Product{}, fmt.Errorf("delete product: %w", err)
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter, page, pageSize int, sort bson.D) ([]document.Product, int64, error) {
	query := buildFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	cursor, err := r.coll.Find(ctx, query, database.Paginate(page, pageSize, sort))
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	products := make([]document.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return products, total, nil
}

func (r *productRepository) Categories(ctx context.Context, filter ProductFilter) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "category", buildFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

// AdjustStock applies delta atomically. Decrements only match while the
// product still has at least -delta units, so stock never goes negative.
func (r *productRepository) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (document.Product, error) {
	if err := CheckDelta(delta); err != nil {
		return document.Product{}, err
	}
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	var product document.Product
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, countErr := r.coll.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return document.Product{}, fmt.Errorf("adjust stock: %w", countErr)
		}
		if n == 0 {
			return document.Product{}, ErrProductNotFound
		}
		return document.Product{}, ErrStockConflict
	}
	if err != nil {
		return document.Product{}, fmt.Errorf("adjust stock: %w", err)
	}
	return product, nil
}

func (r *productRepository) ForEach(ctx context.Context, fn func(document.Product) error) error {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("scan products: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var product document.Product
		if err := cursor.Decode(&product); err != nil {
			return fmt.Errorf("decode product: %w", err)
		}
		if err := fn(product); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func buildFilter(f ProductFilter) bson.M {
	query := bson.M{}
	if f.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"barcode": pattern},
		}
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Active != nil {
		query["active"] = *f.Active
	}
	if f.FeaturedOnly {
		query["featured"] = true
	}
	stock := bson.M{}
	if f.InStockOnly {
		stock["$gt"] = 0
	}
	if f.MaxStock != nil {
		stock["$lte"] = *f.MaxStock
	}
	if len(stock) > 0 {
		query["stock"] = stock
	}
	return query
}
