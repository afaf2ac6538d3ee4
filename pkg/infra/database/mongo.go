package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"retail_backoffice/pkg/config"
)

const (
	CollectionProducts  = "products"
	CollectionImporters = "importers"
	CollectionImports   = "imports"
	CollectionSales     = "sales"
	CollectionMembers   = "members"
)

// IndexSpec lets each repository declare the indexes it relies on.
type IndexSpec struct {
	Collection string
	Models     []mongo.IndexModel
}

func NewMongoClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				return fmt.Errorf("mongo ping: %w", err)
			}
			log.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("closing MongoDB connection")
			return client.Disconnect(ctx)
		},
	})
	return client, nil
}

func NewMongoDatabase(client *mongo.Client, cfg config.Config) *mongo.Database {
	return client.Database(cfg.MongoDatabase)
}

// EnsureIndexes creates the declared indexes once the client is connected.
func EnsureIndexes(lc fx.Lifecycle, db *mongo.Database, log *zap.Logger, specs ...IndexSpec) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for _, spec := range specs {
				if len(spec.Models) == 0 {
					continue
				}
				names, err := db.Collection(spec.Collection).Indexes().CreateMany(ctx, spec.Models)
				if err != nil {
					return fmt.Errorf("failed to create indexes on %s: %w", spec.Collection, err)
				}
				log.Debug("indexes ensured", zap.String("collection", spec.Collection), zap.Strings("indexes", names))
			}
			return nil
		},
	})
}
