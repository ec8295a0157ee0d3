//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/litshop/internal/application/book"
	appgenre "github.com/xiebiao/litshop/internal/application/genre"
	apptx "github.com/xiebiao/litshop/internal/application/transaction"
	appuser "github.com/xiebiao/litshop/internal/application/user"
	"github.com/xiebiao/litshop/internal/domain/book"
	"github.com/xiebiao/litshop/internal/domain/user"
	"github.com/xiebiao/litshop/internal/infrastructure/config"
	"github.com/xiebiao/litshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/litshop/internal/interface/http/handler"
	"github.com/xiebiao/litshop/internal/interface/http/middleware"
	"github.com/xiebiao/litshop/internal/interface/http/router"
)

// infrastructureSet 存储、缓存、会话、事件
var infrastructureSet = wire.NewSet(
	provideStorage,
	wire.FieldsOf(new(*Storage), "Books", "Genres", "Users", "Transactions", "TxManager"),
	provideRedis,
	provideSessionStore,
	provideUserSessions,
	provideTokenBlacklist,
	provideStatsCache,
	wire.Bind(new(appbook.StatsCache), new(*redis.StatsCache)),
	wire.Bind(new(apptx.StatsInvalidator), new(*redis.StatsCache)),
	provideEventPublisher,
	provideJWTManager,
)

var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
)

var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewRefreshUseCase,
	appuser.NewLogoutUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewStatsUseCase,
	appgenre.NewUseCase,
	providePurchaseOptions,
	apptx.NewCreateTransactionUseCase,
	apptx.NewGetTransactionUseCase,
	apptx.NewListTransactionsUseCase,
)

var interfaceSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	provideRateLimiter,
	handler.NewAuthHandler,
	handler.NewBookHandler,
	handler.NewGenreHandler,
	handler.NewTransactionHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装整个应用
// 返回的cleanup按创建的逆序释放MQ、Redis、数据库连接
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
