// Package metrics 基于Prometheus的指标
//
// 指标类型:
//   - Counter: 只增不减,以_total结尾(交易数、请求数)
//   - Gauge: 瞬时值(处理中的请求数、熔断器状态)
//   - Histogram: 观测值分布,以单位结尾(耗时_seconds)
//
// 标签只使用有限取值(method、路由模板、失败原因),不要用user_id、book_id做标签。
//
// 使用方式:
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var initOnce sync.Once

var (
	// HTTPRequestsTotal HTTP请求总数
	// 标签:method、path(路由模板,如/books/:book_id)、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// TransactionsCreatedTotal 成功提交的交易数
	TransactionsCreatedTotal prometheus.Counter

	// TransactionsFailedTotal 失败的购买请求数
	// 标签:reason(insufficient_stock/book_not_found/invalid_request/storage_failure)
	TransactionsFailedTotal *prometheus.CounterVec

	// TransactionCreationDuration 购买请求耗时(包含重试)
	TransactionCreationDuration prometheus.Histogram

	// TransactionsInProgress 正在处理的购买请求数
	TransactionsInProgress prometheus.Gauge

	// PurchaseRetriesTotal 因锁竞争重试工作单元的次数
	PurchaseRetriesTotal prometheus.Counter

	// BooksSoldTotal 售出图书件数
	BooksSoldTotal prometheus.Counter

	// CircuitBreakerState 熔断器状态(0=CLOSED, 1=OPEN, 2=HALF_OPEN)
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求数
	// 标签:name、result(success/failure/rejected)
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 事件发布数
	// 标签:routing_key、result(success/failure)
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册全部指标到默认Registry
// 可重复调用,只有第一次生效
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		TransactionsCreatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "transactions_created_total",
				Help: "交易创建总数",
			},
		)

		TransactionsFailedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_failed_total",
				Help: "交易创建失败总数",
			},
			[]string{"reason"},
		)

		// 工作单元通常在几毫秒内完成,锁竞争重试时会拉长
		TransactionCreationDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transaction_creation_duration_seconds",
				Help:    "交易创建耗时（秒）",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
		)

		TransactionsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "transactions_in_progress",
				Help: "正在处理的交易数",
			},
		)

		PurchaseRetriesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "purchase_retries_total",
				Help: "锁竞争导致的工作单元重试次数",
			},
		)

		BooksSoldTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "books_sold_total",
				Help: "售出图书件数",
			},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "事件发布总数",
			},
			[]string{"routing_key", "result"},
		)
	})
}
