// Package event 领域事件发布
//
// 交易提交后发布transaction.created:
//  1. 尽力而为:发布失败只记日志和指标,不影响已提交的交易
//  2. 熔断器保护:RabbitMQ故障时快速失败,不拖慢下单接口
//  3. mq.enabled=false时使用NopPublisher
package event

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/litshop/internal/domain/transaction"
	"github.com/xiebiao/litshop/pkg/circuitbreaker"
	"github.com/xiebiao/litshop/pkg/logger"
	"github.com/xiebiao/litshop/pkg/metrics"
)

// RoutingKeyTransactionCreated 交易创建事件的routing key
const RoutingKeyTransactionCreated = "transaction.created"

const publishTimeout = 2 * time.Second

// TransactionCreated 交易创建事件
type TransactionCreated struct {
	TransactionID string         `json:"transaction_id"`
	UserID        uint           `json:"user_id"`
	TotalQuantity int            `json:"total_quantity"`
	TotalPrice    int64          `json:"total_price"`
	Items         []LineItemSold `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
}

// LineItemSold 事件中的明细
type LineItemSold struct {
	BookID    uint  `json:"book_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

// NewTransactionCreated 由交易构造事件
func NewTransactionCreated(t *transaction.Transaction) TransactionCreated {
	items := make([]LineItemSold, len(t.Items))
	for i, it := range t.Items {
		items[i] = LineItemSold{BookID: it.BookID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return TransactionCreated{
		TransactionID: t.ID,
		UserID:        t.UserID,
		TotalQuantity: t.TotalQuantity,
		TotalPrice:    t.TotalPrice,
		Items:         items,
		CreatedAt:     t.CreatedAt,
	}
}

// MessagePublisher 底层消息发布(*mq.Publisher)
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// MQPublisher 经熔断器发布到RabbitMQ
type MQPublisher struct {
	pub     MessagePublisher
	breaker *circuitbreaker.CircuitBreaker
}

// NewMQPublisher 创建事件发布器,熔断器状态同步到circuit_breaker_state指标
func NewMQPublisher(pub MessagePublisher) *MQPublisher {
	metrics.InitMetrics()

	breaker := circuitbreaker.NewCircuitBreaker("event-publisher", circuitbreaker.DefaultConfig())
	metrics.CircuitBreakerState.WithLabelValues(breaker.Name()).Set(float64(circuitbreaker.StateClosed))
	breaker.OnStateChange(func(name string, from, to circuitbreaker.State) {
		metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		logger.FromContext(context.Background()).Warn().
			Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
			Msg("熔断器状态变化")
	})

	return &MQPublisher{pub: pub, breaker: breaker}
}

// PublishTransactionCreated 发布交易创建事件
func (p *MQPublisher) PublishTransactionCreated(ctx context.Context, t *transaction.Transaction) {
	evt := NewTransactionCreated(t)

	err := p.breaker.Execute(func() error {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		return p.pub.Publish(ctx, RoutingKeyTransactionCreated, evt)
	})

	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	default:
		result = "failure"
	}
	metrics.CircuitBreakerRequests.WithLabelValues(p.breaker.Name(), result).Inc()

	if err != nil {
		metrics.MessagesPublishedTotal.WithLabelValues(RoutingKeyTransactionCreated, "failure").Inc()
		logger.FromContext(ctx).Warn().Err(err).
			Str("transaction_id", t.ID).
			Str("breaker_state", p.breaker.State().String()).
			Msg("交易事件发布失败")
		return
	}
	metrics.MessagesPublishedTotal.WithLabelValues(RoutingKeyTransactionCreated, "success").Inc()
}

// NopPublisher 不发布任何事件
type NopPublisher struct{}

func (NopPublisher) PublishTransactionCreated(context.Context, *transaction.Transaction) {}
