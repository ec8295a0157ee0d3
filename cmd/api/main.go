// @title           IT Literature Shop API
// @version         1.0
// @description     二手IT图书商城:图书与分类管理、购买与交易查询
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/xiebiao/litshop/docs"
	"github.com/xiebiao/litshop/internal/infrastructure/config"
	"github.com/xiebiao/litshop/internal/interface/http/dto"
	"github.com/xiebiao/litshop/pkg/logger"
	"github.com/xiebiao/litshop/pkg/metrics"
	"github.com/xiebiao/litshop/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("加载配置失败: %v", err)
	}

	_, closeLog, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		stdlog.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = closeLog() }()

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("服务异常退出")
		_ = closeLog()
		os.Exit(1)
	}
}

// run 启动HTTP服务,收到SIGINT/SIGTERM后优雅关闭
func run(cfg *config.Config) error {
	log.Info().
		Int("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Bool("redis", cfg.Redis.Enabled).
		Bool("mq", cfg.MQ.Enabled).
		Msg("配置加载成功")

	if err := dto.RegisterValidators(); err != nil {
		return fmt.Errorf("注册校验规则失败: %w", err)
	}
	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(tracing.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Warn().Err(err).Msg("关闭TracerProvider失败")
			}
		}()
		log.Info().Str("endpoint", cfg.Tracing.Endpoint).Msg("链路追踪已启用")
	}

	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("收到退出信号,开始优雅关闭")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("优雅关闭失败: %w", err)
	}
	log.Info().Msg("服务已停止")
	return nil
}
