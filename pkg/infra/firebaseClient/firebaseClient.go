package firebaseClient

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"retail_backoffice/pkg/config"
)

func ProvideFirebaseApp(cfg config.Config, log *zap.Logger) (*firebase.App, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		log.Info("initializing firebase with credentials file", zap.String("file", cfg.FirebaseCredentialsFile))
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	} else {
		log.Info("initializing firebase with application default credentials")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   cfg.FirebaseProjectID,
		DatabaseURL: cfg.FirebaseDatabaseURL,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	return app, nil
}

func ProvideAuthClient(app *firebase.App) (*auth.Client, error) {
	client, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}
	return client, nil
}

func ProvideDatabaseClient(app *firebase.App) (*db.Client, error) {
	client, err := app.Database(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error getting firebase realtime database client: %w", err)
	}
	return client, nil
}

func ProvideMessagingClient(app *firebase.App) (*messaging.Client, error) {
	client, err := app.Messaging(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error getting firebase messaging client: %w", err)
	}
	return client, nil
}
