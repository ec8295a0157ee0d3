package transaction

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/litshop/internal/domain/book"
	"github.com/xiebiao/litshop/internal/domain/transaction"
	apperrors "github.com/xiebiao/litshop/pkg/errors"
	"github.com/xiebiao/litshop/pkg/logger"
	"github.com/xiebiao/litshop/pkg/metrics"
	"github.com/xiebiao/litshop/pkg/tracing"
)

const tracerName = "litshop/application/transaction"

// StatsInvalidator 库存统计缓存失效
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

// EventPublisher 交易事件发布(尽力而为,不返回错误)
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, t *transaction.Transaction)
}

// Options 购买协调器参数
type Options struct {
	Timeout         time.Duration // 单次工作单元的最长时间
	MaxRetries      uint64        // 锁竞争时的最大重试次数
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// CreateTransactionUseCase 创建交易用例(购买协调器)
// 设计说明:
//  1. 同一本书的多行明细先合并,图书ID升序加锁,重叠的并发购买不会互相死锁;交易明细保持请求顺序
//  2. 先锁定全部图书、检查全部明细,再统一扣减库存,最后写交易记录,任何一步失败整体回滚
//  3. 单价在锁内读取,之后改价不影响本次交易
//  4. 工作单元脱离调用方的取消信号,只受purchase.timeout约束,客户端断开不会打断一半
//  5. 锁竞争(死锁、锁等待超时)按指数退避重试整个工作单元,重试耗尽返回StorageFailure
type CreateTransactionUseCase struct {
	txManager transaction.TxManager
	bookRepo  book.Repository
	txRepo    transaction.Repository
	stats     StatsInvalidator
	events    EventPublisher
	opts      Options
}

// NewCreateTransactionUseCase 创建购买协调器
func NewCreateTransactionUseCase(
	txManager transaction.TxManager,
	bookRepo book.Repository,
	txRepo transaction.Repository,
	stats StatsInvalidator,
	events EventPublisher,
	opts Options,
) *CreateTransactionUseCase {
	metrics.InitMetrics()
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 20 * time.Millisecond
	}
	if opts.MaxInterval < opts.InitialInterval {
		opts.MaxInterval = opts.InitialInterval
	}
	return &CreateTransactionUseCase{
		txManager: txManager,
		bookRepo:  bookRepo,
		txRepo:    txRepo,
		stats:     stats,
		events:    events,
		opts:      opts,
	}
}

// CreateTransactionRequest 创建交易请求
type CreateTransactionRequest struct {
	UserID uint              // 买家用户ID(从JWT中提取)
	Items  []LineItemRequest // 购买明细
}

// LineItemRequest 购买明细
type LineItemRequest struct {
	BookID   uint
	Quantity int
}

// line 合并后的购买明细
type line struct {
	bookID   uint
	quantity int
}

// Execute 执行购买
// 返回创建好的交易,或者恰好一个业务错误
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, req CreateTransactionRequest) (*transaction.Transaction, error) {
	start := time.Now()
	metrics.TransactionsInProgress.Inc()
	defer metrics.TransactionsInProgress.Dec()

	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateTransaction")
	defer span.End()

	lines, err := normalise(req.Items)
	if err != nil {
		return nil, uc.fail(ctx, span, req.UserID, err, start)
	}
	span.SetAttributes(
		attribute.Int64("user_id", int64(req.UserID)),
		attribute.Int("books", len(lines)),
	)

	var created *transaction.Transaction
	attempt := 0
	op := func() error {
		attempt++
		if attempt > 1 {
			metrics.PurchaseRetriesTotal.Inc()
		}

		tx, err := uc.runUnitOfWork(ctx, req.UserID, lines)
		if err == nil {
			created = tx
			return nil
		}
		if errors.Is(err, apperrors.ErrLockContention) {
			logger.FromContext(ctx).Debug().Err(err).Int("attempt", attempt).Msg("锁竞争,准备重试")
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(op, backoff.WithMaxRetries(uc.newBackOff(), uc.opts.MaxRetries)); err != nil {
		if errors.Is(err, apperrors.ErrLockContention) {
			err = apperrors.Wrap(err, "系统繁忙,请稍后重试")
		}
		span.SetAttributes(attribute.Int("attempts", attempt))
		return nil, uc.fail(ctx, span, req.UserID, err, start)
	}
	span.SetAttributes(attribute.Int("attempts", attempt), attribute.String("transaction_id", created.ID))

	// 提交之后的动作不受客户端断开影响
	after := context.WithoutCancel(ctx)
	uc.stats.Invalidate(after)
	uc.events.PublishTransactionCreated(after, created)

	metrics.TransactionsCreatedTotal.Inc()
	metrics.BooksSoldTotal.Add(float64(created.TotalQuantity))
	metrics.TransactionCreationDuration.Observe(time.Since(start).Seconds())

	logger.FromContext(ctx).Info().
		Str("transaction_id", created.ID).
		Uint("user_id", created.UserID).
		Int("total_quantity", created.TotalQuantity).
		Int64("total_price", created.TotalPrice).
		Int("attempts", attempt).
		Msg("交易创建成功")

	return created, nil
}

// runUnitOfWork 一次完整的工作单元
func (uc *CreateTransactionUseCase) runUnitOfWork(ctx context.Context, userID uint, lines []line) (*transaction.Transaction, error) {
	uowCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opts.Timeout)
	defer cancel()

	var created *transaction.Transaction
	err := uc.txManager.Transaction(uowCtx, func(ctx context.Context) error {
		// 1. 按图书ID升序加锁
		books := make(map[uint]*book.Book, len(lines))
		for _, id := range lockOrder(lines) {
			b, err := uc.bookRepo.LockByID(ctx, id)
			if err != nil {
				return err
			}
			books[id] = b
		}

		// 2. 按请求顺序检查全部明细,再做任何修改
		items := make([]transaction.LineItem, len(lines))
		for i, l := range lines {
			b := books[l.bookID]
			if !b.CanFulfil(l.quantity) {
				return book.NewInsufficientStockError(b, l.quantity)
			}
			items[i] = transaction.NewLineItem(b.ID, b.Title, l.quantity, b.Price)
		}

		tx, err := transaction.NewTransaction(userID, items)
		if err != nil {
			return err
		}

		// 3. 扣减库存(带条件的原子更新,库存不会被扣成负数)
		for _, l := range lines {
			if err := uc.bookRepo.UpdateStock(ctx, l.bookID, -l.quantity); err != nil {
				return err
			}
		}

		// 4. 写交易记录
		if err := uc.txRepo.Create(ctx, tx); err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *CreateTransactionUseCase) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = uc.opts.InitialInterval
	b.MaxInterval = uc.opts.MaxInterval
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// fail 记录失败原因并返回错误本身
func (uc *CreateTransactionUseCase) fail(ctx context.Context, span trace.Span, userID uint, err error, start time.Time) error {
	reason := failureReason(err)
	metrics.TransactionsFailedTotal.WithLabelValues(reason).Inc()
	metrics.TransactionCreationDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("failure_reason", reason))

	appErr := apperrors.GetAppError(err)
	event := logger.FromContext(ctx).Info()
	if reason == "storage_failure" {
		tracing.RecordError(span, err)
		event = logger.FromContext(ctx).Error().Err(err)
	}
	event.Uint("user_id", userID).
		Int("code", appErr.Code).
		Str("reason", reason).
		Interface("details", appErr.Details).
		Msg("交易创建失败")

	return err
}

// failureReason 失败原因(指标标签)
func failureReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, apperrors.ErrBookNotFound):
		return "book_not_found"
	case errors.Is(err, apperrors.ErrInvalidQuantity), errors.Is(err, apperrors.ErrInvalidLineItems):
		return "invalid_request"
	default:
		return "storage_failure"
	}
}

// normalise 校验并合并明细
// 同一本书合并到首次出现的位置,其余保持请求顺序
func normalise(items []LineItemRequest) ([]line, error) {
	if len(items) == 0 {
		return nil, transaction.ErrInvalidLineItems
	}

	index := make(map[uint]int, len(items))
	lines := make([]line, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, transaction.NewInvalidQuantityError(it.BookID)
		}
		if it.BookID == 0 {
			return nil, book.ErrBookNotFound
		}
		i, seen := index[it.BookID]
		if !seen {
			index[it.BookID] = len(lines)
			lines = append(lines, line{bookID: it.BookID, quantity: it.Quantity})
			continue
		}
		if lines[i].quantity > math.MaxInt32-it.Quantity {
			return nil, transaction.NewInvalidQuantityError(it.BookID)
		}
		lines[i].quantity += it.Quantity
	}
	return lines, nil
}

// lockOrder 加锁顺序:图书ID升序
func lockOrder(lines []line) []uint {
	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.bookID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
