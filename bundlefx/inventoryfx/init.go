package inventoryfx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"retail_backoffice/pkg/config"
	"retail_backoffice/pkg/infra/queue"
	"retail_backoffice/service/inventory/cache"
	"retail_backoffice/service/inventory/http"
	"retail_backoffice/service/inventory/publisher"
	"retail_backoffice/service/inventory/usecase"
	notifyuc "retail_backoffice/service/notify/usecase"
	"retail_backoffice/service/products/repository"
)

// WorkerOptions configures the sync worker process.
type WorkerOptions struct {
	ResyncOnStart bool
}

var Module = fx.Options(
	fx.Provide(
		cache.NewRTDBLookupCache,
		provideSyncUseCase,
		providePublisher,
		http.NewInventoryHandler,
	),
)

var (
	AdminRoutes   = fx.Invoke(http.RegisterAdminRoutes)
	CashierRoutes = fx.Invoke(http.RegisterCashierRoutes)
	Worker        = fx.Invoke(runWorker)
)

func provideSyncUseCase(
	lookupCache cache.ILookupCache,
	products repository.IProductRepository,
	notify notifyuc.INotifyUseCase,
	queueClient queue.API,
	cfg config.Config,
	log *zap.Logger,
) usecase.IInventorySyncUseCase {
	return usecase.NewInventorySyncUseCase(lookupCache, products, notify, queueClient, cfg.SyncQueueURL, log)
}

// providePublisher sends events to SQS when a queue is configured and applies
// them in-process otherwise.
func providePublisher(cfg config.Config, queueClient queue.API, sync usecase.IInventorySyncUseCase) publisher.IPublisher {
	if cfg.UsesQueue() {
		return publisher.NewSQSPublisher(queueClient, cfg.SyncQueueURL)
	}
	return publisher.NewDirectPublisher(sync)
}

func runWorker(lc fx.Lifecycle, sync usecase.IInventorySyncUseCase, opts WorkerOptions, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if opts.ResyncOnStart {
					resyncCtx, stop := context.WithTimeout(ctx, 2*time.Minute)
					if n, err := sync.Resync(resyncCtx); err != nil {
						log.Error("startup resync failed", zap.Error(err))
					} else {
						log.Info("startup resync finished", zap.Int("products", n))
					}
					stop()
				}
				sync.ConsumeQueue(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
				log.Warn("sync worker did not stop in time")
			}
			return nil
		},
	})
}
