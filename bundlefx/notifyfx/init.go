package notifyfx

import (
	"firebase.google.com/go/v4/messaging"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"retail_backoffice/service/notify/http"
	"retail_backoffice/service/notify/usecase"
)

var Module = fx.Options(
	fx.Provide(
		provideNotifyUseCase,
		http.NewNotifyController,
	),
)

var Routes = fx.Invoke(http.RegisterNotifyRoutes)

func provideNotifyUseCase(rdb *redis.Client, client *messaging.Client, log *zap.Logger) usecase.INotifyUseCase {
	return usecase.NewNotifyUseCase(rdb, client, log)
}
