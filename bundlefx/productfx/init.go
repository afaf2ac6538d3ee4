package productfx

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"retail_backoffice/pkg/config"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/inventory/publisher"
	"retail_backoffice/service/products/http"
	"retail_backoffice/service/products/repository"
	"retail_backoffice/service/products/usecase"
)

// Repository is shared by every service that reads the catalog.
var Repository = fx.Options(
	fx.Provide(repository.NewProductRepository),
	fx.Invoke(ensureProductIndexes),
)

var Module = fx.Options(
	Repository,
	fx.Provide(
		provideProductUseCase,
		http.NewProductsHandler,
	),
	fx.Invoke(http.RegisterProductRoutes),
)

func ensureProductIndexes(lc fx.Lifecycle, db *mongo.Database, log *zap.Logger) {
	database.EnsureIndexes(lc, db, log, repository.ProductIndexes())
}

func provideProductUseCase(repo repository.IProductRepository, pub publisher.IPublisher, cfg config.Config, log *zap.Logger) usecase.IProductUseCase {
	return usecase.NewProductUseCase(repo, pub, cfg.LowStockThreshold, log)
}
