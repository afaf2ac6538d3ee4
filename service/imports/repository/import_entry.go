package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/imports/model/document"
)

var ErrImportNotFound = apperr.New(apperr.KindNotFound, "import record not found")

type ImportFilter struct {
	ImporterID *primitive.ObjectID
	From       time.Time
	To         time.Time
}

type IImportRepository interface {
	Insert(ctx context.Context, entry *document.ImportEntry) error
	GetByID(ctx context.Context, id primitive.ObjectID) (document.ImportEntry, error)
	List(ctx context.Context, filter ImportFilter, page, pageSize int) ([]document.ImportEntry, int64, error)
	ExistsForImporter(ctx context.Context, importerID primitive.ObjectID) (bool, error)
}

type importRepository struct {
	coll *mongo.Collection
}

func NewImportRepository(db *mongo.Database) IImportRepository {
	return &importRepository{coll: db.Collection(database.CollectionImports)}
}

func ImportIndexes() database.IndexSpec {
	return database.IndexSpec{
		Collection: database.CollectionImports,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "importer_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
}

func (r *importRepository) Insert(ctx context.Context, entry *document.ImportEntry) error {
	res, err := r.coll.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("insert import: %w", err)
	}
	entry.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *importRepository) GetByID(ctx context.Context, id primitive.ObjectID) (document.ImportEntry, error) {
	var entry document.ImportEntry
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return document.ImportEntry{}, ErrImportNotFound
	}
	if err != nil {
		return document.ImportEntry{}, fmt.Errorf("find import: %w", err)
	}
	return entry, nil
}

func (r *importRepository) List(ctx context.Context, filter ImportFilter, page, pageSize int) ([]document.ImportEntry, int64, error) {
	query := buildFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count imports: %w", err)
	}
	cursor, err := r.coll.Find(ctx, query, database.Paginate(page, pageSize, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list imports: %w", err)
	}
	entries := make([]document.ImportEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, fmt.Errorf("decode imports: %w", err)
	}
	return entries, total, nil
}

func (r *importRepository) ExistsForImporter(ctx context.Context, importerID primitive.ObjectID) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"importer_id": importerID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check importer references: %w", err)
	}
	return true, nil
}

func buildFilter(f ImportFilter) bson.M {
	query := bson.M{}
	if f.ImporterID != nil {
		query["importer_id"] = *f.ImporterID
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
