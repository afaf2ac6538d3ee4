package salesfx

import (
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"retail_backoffice/pkg/config"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/inventory/publisher"
	productrepo "retail_backoffice/service/products/repository"
	"retail_backoffice/service/sales/cache"
	"retail_backoffice/service/sales/http"
	"retail_backoffice/service/sales/repository"
	"retail_backoffice/service/sales/usecase"
)

var Module = fx.Options(
	fx.Provide(
		repository.NewSaleRepository,
		provideReportCache,
		provideSaleUseCase,
		provideReportUseCase,
		http.NewSalesHandler,
	),
	fx.Invoke(ensureSaleIndexes),
)

var (
	CashierRoutes = fx.Invoke(http.RegisterCashierRoutes)
	AdminRoutes   = fx.Invoke(http.RegisterAdminRoutes)
)

func ensureSaleIndexes(lc fx.Lifecycle, db *mongo.Database, log *zap.Logger) {
	database.EnsureIndexes(lc, db, log, repository.SaleIndexes())
}

func provideReportCache(rdb *redis.Client) cache.IReportCache {
	return cache.NewRedisReportCache(rdb)
}

func provideSaleUseCase(
	sales repository.ISaleRepository,
	products productrepo.IProductRepository,
	pub publisher.IPublisher,
	cfg config.Config,
	log *zap.Logger,
) usecase.ISaleUseCase {
	return usecase.NewSaleUseCase(sales, products, pub, cfg.LowStockThreshold, cfg.CheckoutSyncTimeout, log)
}

func provideReportUseCase(sales repository.ISaleRepository, reportCache cache.IReportCache, cfg config.Config, log *zap.Logger) usecase.IReportUseCase {
	return usecase.NewReportUseCase(sales, reportCache, cfg.ReportCacheTTL, log)
}
