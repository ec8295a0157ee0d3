// Package router 组装gin引擎:全局中间件、路由表、/metrics与/swagger
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/litshop/internal/infrastructure/config"
	"github.com/xiebiao/litshop/internal/interface/http/handler"
	"github.com/xiebiao/litshop/internal/interface/http/middleware"
)

const slowRequest = 3 * time.Second

// Handlers 全部HTTP处理器
type Handlers struct {
	Auth        *handler.AuthHandler
	Book        *handler.BookHandler
	Genre       *handler.GenreHandler
	Transaction *handler.TransactionHandler
}

// New 创建gin引擎并注册路由
// 中间件顺序:Recovery → 请求日志 → 指标 → CORS → (路由级)认证 → 限流
func New(cfg *config.Config, h Handlers, auth *middleware.AuthMiddleware, limiter *middleware.UserRateLimiter) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestLogger(slowRequest),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)
	r.NoRoute(handler.NotFound)

	r.GET("/", handler.Welcome)
	r.GET("/health-check", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := auth.RequireAuth()

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", requireAuth, h.Auth.Logout)
	}

	books := r.Group("/books")
	{
		books.GET("/stats", h.Book.Stats)
		books.GET("", h.Book.ListBooks)
		books.GET("/genre/:genre_id", h.Book.ListBooksByGenre)
		books.GET("/:book_id", h.Book.GetBook)
		books.POST("", requireAuth, h.Book.CreateBook)
		books.PATCH("/:book_id", requireAuth, h.Book.UpdateBook)
		books.DELETE("/:book_id", requireAuth, h.Book.DeleteBook)
	}

	genres := r.Group("/genre")
	{
		genres.GET("", h.Genre.ListGenres)
		genres.GET("/:genre_id", h.Genre.GetGenre)
		genres.POST("", requireAuth, h.Genre.CreateGenre)
		genres.PATCH("/:genre_id", requireAuth, h.Genre.UpdateGenre)
		genres.DELETE("/:genre_id", requireAuth, h.Genre.DeleteGenre)
	}

	txs := r.Group("/transactions", requireAuth)
	{
		create := []gin.HandlerFunc{h.Transaction.CreateTransaction}
		if limiter != nil {
			create = append([]gin.HandlerFunc{limiter.Middleware()}, create...)
		}
		txs.POST("", create...)
		txs.GET("", h.Transaction.ListTransactions)
		txs.GET("/:id", h.Transaction.GetTransaction)
	}

	return r
}
