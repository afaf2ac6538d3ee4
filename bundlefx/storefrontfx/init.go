package storefrontfx

import (
	"go.uber.org/fx"

	"retail_backoffice/pkg/config"
	"retail_backoffice/service/products/repository"
	"retail_backoffice/service/storefront/http"
	"retail_backoffice/service/storefront/usecase"
)

var Module = fx.Options(
	fx.Provide(
		provideStorefrontUseCase,
		http.NewStorefrontHandler,
	),
	fx.Invoke(http.RegisterStorefrontRoutes),
)

func provideStorefrontUseCase(repo repository.IProductRepository, cfg config.Config) usecase.IStorefrontUseCase {
	return usecase.NewStorefrontUseCase(repo, cfg.StoreName)
}
