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
	"retail_backoffice/service/importers/model/document"
)

var ErrImporterNotFound = apperr.New(apperr.KindNotFound, "importer not found")

type IImporterRepository interface {
	Create(ctx context.Context, importer *document.Importer) error
	GetByID(ctx context.Context, id primitive.ObjectID) (document.Importer, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (document.Importer, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, query string, page, pageSize int) ([]document.Importer, int64, error)
}

type importerRepository struct {
	coll *mongo.Collection
}

func NewImporterRepository(db *mongo.Database) IImporterRepository {
	return &importerRepository{coll: db.Collection(database.CollectionImporters)}
}

func ImporterIndexes() database.IndexSpec {
	return database.IndexSpec{
		Collection: database.CollectionImporters,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
	}
}

func (r *importerRepository) Create(ctx context.Context, importer *document.Importer) error {
	res, err := r.coll.InsertOne(ctx, importer)
	if err != nil {
		return fmt.Errorf("insert importer: %w", err)
	}
	importer.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *importerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (document.Importer, error) {
	var importer document.Importer
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&importer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return document.Importer{}, ErrImporterNotFound
	}
	if err != nil {
		return document.Importer{}, fmt.Errorf("find importer: %w", err)
	}
	return importer, nil
}

func (r *importerRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (document.Importer, error) {
	set["updated_at"] = time.Now().UTC()

	var importer document.Importer
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&importer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return document.Importer{}, ErrImporterNotFound
	}
	if err != nil {
		return document.Importer{}, fmt.Errorf("update importer: %w", err)
	}
	return importer, nil
}

func (r *importerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete importer: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrImporterNotFound
	}
	return nil
}

func (r *importerRepository) List(ctx context.Context, query string, page, pageSize int) ([]document.Importer, int64, error) {
	filter := bson.M{}
	if query != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count importers: %w", err)
	}
	cursor, err := r.coll.Find(ctx, filter, database.Paginate(page, pageSize, bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list importers: %w", err)
	}
	importers := make([]document.Importer, 0)
	if err := cursor.All(ctx, &importers); err != nil {
		return nil, 0, fmt.Errorf("decode importers: %w", err)
	}
	return importers, total, nil
}
