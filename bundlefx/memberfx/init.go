package memberfx

import (
	"firebase.google.com/go/v4/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/members/http"
	"retail_backoffice/service/members/identity"
	"retail_backoffice/service/members/repository"
	"retail_backoffice/service/members/usecase"
)

var Module = fx.Options(
	fx.Provide(
		repository.NewMemberRepository,
		provideIdentityProvider,
		usecase.NewMemberUseCase,
		http.NewMembersHandler,
	),
	fx.Invoke(
		ensureMemberIndexes,
		http.RegisterMemberRoutes,
	),
)

func ensureMemberIndexes(lc fx.Lifecycle, db *mongo.Database, log *zap.Logger) {
	database.EnsureIndexes(lc, db, log, repository.MemberIndexes())
}

func provideIdentityProvider(client *auth.Client) identity.IIdentityProvider {
	return identity.NewFirebaseIdentity(client)
}
