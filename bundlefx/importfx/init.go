package importfx

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"retail_backoffice/pkg/config"
	"retail_backoffice/pkg/infra/database"
	importerhttp "retail_backoffice/service/importers/http"
	importerrepo "retail_backoffice/service/importers/repository"
	importeruc "retail_backoffice/service/importers/usecase"
	importhttp "retail_backoffice/service/imports/http"
	importrepo "retail_backoffice/service/imports/repository"
	importuc "retail_backoffice/service/imports/usecase"
	"retail_backoffice/service/inventory/publisher"
	productrepo "retail_backoffice/service/products/repository"
)

// Module serves importers and the goods-received log together; an importer
// cannot be deleted while imports still point at it.
var Module = fx.Options(
	fx.Provide(
		importerrepo.NewImporterRepository,
		importrepo.NewImportRepository,
		provideImporterUseCase,
		provideImportUseCase,
		importerhttp.NewImportersHandler,
		importhttp.NewImportsHandler,
	),
	fx.Invoke(
		ensureIndexes,
		importerhttp.RegisterImporterRoutes,
		importhttp.RegisterImportRoutes,
	),
)

func ensureIndexes(lc fx.Lifecycle, db *mongo.Database, log *zap.Logger) {
	database.EnsureIndexes(lc, db, log, importerrepo.ImporterIndexes(), importrepo.ImportIndexes())
}

func provideImporterUseCase(repo importerrepo.IImporterRepository, imports importrepo.IImportRepository, log *zap.Logger) importeruc.IImporterUseCase {
	return importeruc.NewImporterUseCase(repo, imports, log)
}

func provideImportUseCase(
	imports importrepo.IImportRepository,
	importers importerrepo.IImporterRepository,
	products productrepo.IProductRepository,
	pub publisher.IPublisher,
	cfg config.Config,
	log *zap.Logger,
) importuc.IImportUseCase {
	return importuc.NewImportUseCase(imports, importers, products, pub, cfg.LowStockThreshold, log)
}
