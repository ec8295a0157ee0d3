package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	appbook "github.com/xiebiao/litshop/internal/application/book"
	apptx "github.com/xiebiao/litshop/internal/application/transaction"
	appuser "github.com/xiebiao/litshop/internal/application/user"
	"github.com/xiebiao/litshop/internal/domain/book"
	"github.com/xiebiao/litshop/internal/domain/genre"
	"github.com/xiebiao/litshop/internal/domain/transaction"
	"github.com/xiebiao/litshop/internal/domain/user"
	"github.com/xiebiao/litshop/internal/infrastructure/config"
	"github.com/xiebiao/litshop/internal/infrastructure/event"
	"github.com/xiebiao/litshop/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/litshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/litshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/litshop/internal/interface/http/middleware"
	"github.com/xiebiao/litshop/pkg/jwt"
	"github.com/xiebiao/litshop/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Config *config.Config
	Engine *gin.Engine
}

func newApp(cfg *config.Config, engine *gin.Engine) *App {
	return &App{Config: cfg, Engine: engine}
}

// Storage 存储后端的全部仓储与事务管理器
// 两种后端实现同一组领域接口,上层不感知差异
type Storage struct {
	Books        book.Repository
	Genres       genre.Repository
	Users        user.Repository
	Transactions transaction.Repository
	TxManager    transaction.TxManager
}

// provideStorage 按storage.driver选择存储后端
func provideStorage(cfg *config.Config) (*Storage, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore(cfg.Purchase.LockWait)
		log.Warn().Msg("使用内存存储,进程退出后数据丢失")
		return &Storage{
			Books:        memory.NewBookRepository(store),
			Genres:       memory.NewGenreRepository(store),
			Users:        memory.NewUserRepository(store),
			Transactions: memory.NewTransactionRepository(store),
			TxManager:    memory.NewTxManager(store),
		}, func() {}, nil

	case "", "mysql":
		db, err := mysql.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return &Storage{
			Books:        mysql.NewBookRepository(db),
			Genres:       mysql.NewGenreRepository(db),
			Users:        mysql.NewUserRepository(db),
			Transactions: mysql.NewTransactionRepository(db),
			TxManager:    mysql.NewTxManager(db),
		}, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("未知的存储后端: %s", cfg.Storage.Driver)
	}
}

// provideRedis 创建Redis客户端,未启用时为nil
func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, func() {}, nil
	}
	return client, func() { _ = client.Close() }, nil
}

// sessionStore 会话存储与Token黑名单
type sessionStore interface {
	appuser.SessionStore
	middleware.TokenBlacklist
}

// provideSessionStore Redis未启用时退化为进程内实现
func provideSessionStore(client *goredis.Client) sessionStore {
	if client == nil {
		return memory.NewSessionStore()
	}
	return redis.NewSessionStore(client)
}

func provideUserSessions(s sessionStore) appuser.SessionStore { return s }

func provideTokenBlacklist(s sessionStore) middleware.TokenBlacklist { return s }

func provideStatsCache(cfg *config.Config, client *goredis.Client) *redis.StatsCache {
	return redis.NewStatsCache(client, cfg.Cache.StatsTTL)
}

// provideEventPublisher mq.enabled=false时不发布事件
func provideEventPublisher(cfg *config.Config) (apptx.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return event.NopPublisher{}, func() {}, nil
	}
	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil, nil, err
	}
	return event.NewMQPublisher(pub), func() { _ = pub.Close() }, nil
}

func providePurchaseOptions(cfg *config.Config) apptx.Options {
	return apptx.Options{
		Timeout:         cfg.Purchase.Timeout,
		MaxRetries:      cfg.Purchase.MaxRetries,
		InitialInterval: cfg.Purchase.RetryInitialInterval,
		MaxInterval:     cfg.Purchase.RetryMaxInterval,
	}
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

// provideRateLimiter rate_limit.enabled=false时返回nil,路由不挂限流
func provideRateLimiter(cfg *config.Config) *middleware.UserRateLimiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return middleware.NewUserRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

var (
	_ appbook.StatsCache     = (*redis.StatsCache)(nil)
	_ apptx.StatsInvalidator = (*redis.StatsCache)(nil)
)
