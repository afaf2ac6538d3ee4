package infrafx

import (
	"firebase.google.com/go/v4/auth"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"retail_backoffice/pkg/config"
	"retail_backoffice/pkg/infra/cache"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/pkg/infra/firebaseClient"
	"retail_backoffice/pkg/infra/queue"
	"retail_backoffice/pkg/logger"
	"retail_backoffice/pkg/middleware"
	"retail_backoffice/pkg/server"
)

// Module provides the clients every service shares. Providers are lazy, so a
// service only dials what its own modules ask for.
var Module = fx.Options(
	fx.WithLogger(logger.FxEventLogger),
	fx.Provide(
		config.Load,
		logger.NewLogger,
		database.NewMongoClient,
		database.NewMongoDatabase,
		cache.NewRedisClient,
		firebaseClient.ProvideFirebaseApp,
		firebaseClient.ProvideAuthClient,
		firebaseClient.ProvideDatabaseClient,
		firebaseClient.ProvideMessagingClient,
		provideQueue,
		provideGuards,
		server.NewGinEngine,
		server.NewServer,
	),
)

// Serve starts the HTTP server. It goes last so its start hook runs after
// every client and index hook.
var Serve = fx.Invoke(server.Run)

// provideQueue returns a nil client when no sync queue is configured.
func provideQueue(cfg config.Config, log *zap.Logger) (queue.API, error) {
	if !cfg.UsesQueue() {
		return nil, nil
	}
	client, err := queue.NewSQSClient()
	if err != nil {
		return nil, err
	}
	log.Info("inventory sync goes through SQS", zap.String("queue_url", cfg.SyncQueueURL))
	return client, nil
}

func provideGuards(client *auth.Client, log *zap.Logger) middleware.Guards {
	return middleware.NewGuards(client, log.Named("auth"))
}
