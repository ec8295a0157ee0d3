// Package memory 单进程内存存储
//
// 与MySQL后端实现同一组仓储接口,语义保持一致:
//  1. 每本图书一把锁(容量为1的channel),LockByID在工作单元内获取,工作单元结束时释放
//  2. 获取锁的等待时间有上限(lock_wait),超时返回LockContention,由购买协调器重试
//  3. 工作单元内的每次写入都记录undo,出错时逆序回放,达到"全部成功或全部不生效"
//  4. 读操作不加图书锁,隔离级别相当于READ UNCOMMITTED:
//     GetStock、Stats、FindByID、交易查询可能读到进行中工作单元的写入,
//     该工作单元回滚后这些值随之撤销。写入之间仍由图书锁串行,
//     库存检查与扣减只依赖锁内读取,不受影响。MySQL后端为REPEATABLE READ,读不到未提交数据
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xiebiao/litshop/internal/domain/book"
	"github.com/xiebiao/litshop/internal/domain/genre"
	"github.com/xiebiao/litshop/internal/domain/transaction"
	"github.com/xiebiao/litshop/internal/domain/user"
	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

var _ transaction.TxManager = (*TxManager)(nil)

var (
	errLockWaitTimeout = errors.New("memory: book lock wait timeout")
	errNoUnitOfWork    = errors.New("memory: LockByID called outside a unit of work")
)

// Store 内存数据集合,所有仓储共享
type Store struct {
	mu       sync.RWMutex
	lockWait time.Duration
	locks    map[uint]chan struct{}

	books       map[uint]*bookRow
	nextBookID  uint
	genres      map[uint]*genre.Genre
	nextGenreID uint
	users       map[uint]*user.User
	nextUserID  uint
	txs         map[string]*transaction.Transaction
	nextItemID  uint
}

type bookRow struct {
	book    book.Book
	deleted bool
}

// NewStore 创建内存存储
// lockWait为等待单本图书锁的最长时间
func NewStore(lockWait time.Duration) *Store {
	if lockWait <= 0 {
		lockWait = 3 * time.Second
	}
	return &Store{
		lockWait: lockWait,
		locks:    make(map[uint]chan struct{}),
		books:    make(map[uint]*bookRow),
		genres:   make(map[uint]*genre.Genre),
		users:    make(map[uint]*user.User),
		txs:      make(map[string]*transaction.Transaction),
	}
}

// lockFor 获取(必要时创建)图书锁
func (s *Store) lockFor(id uint) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	return ch
}

// acquire 在lockWait内获取锁
func (s *Store) acquire(ctx context.Context, ch chan struct{}) error {
	select {
	case ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return apperrors.WrapCode(errLockWaitTimeout, apperrors.ErrCodeLockContention, "等待图书锁超时")
	case <-ctx.Done():
		return apperrors.Wrap(ctx.Err(), "工作单元已超时")
	}
}

// withBookLock 持有图书锁执行fn
// 工作单元内:锁挂到工作单元上,直到提交/回滚才释放
// 工作单元外:fn执行完立即释放
func (s *Store) withBookLock(ctx context.Context, id uint, fn func() error) error {
	if u, ok := uowFrom(ctx); ok {
		if err := u.lock(ctx, id); err != nil {
			return err
		}
		return fn()
	}

	ch := s.lockFor(id)
	if err := s.acquire(ctx, ch); err != nil {
		return err
	}
	defer func() { <-ch }()
	return fn()
}

// onRollback 在工作单元内登记undo;工作单元外的写入立即生效,无需登记
func onRollback(ctx context.Context, undo func()) {
	if u, ok := uowFrom(ctx); ok {
		u.undo = append(u.undo, undo)
	}
}

// =========================================
// 工作单元
// =========================================

type uowKey struct{}

type unitOfWork struct {
	store *Store
	held  map[uint]chan struct{}
	undo  []func()
}

func uowFrom(ctx context.Context) (*unitOfWork, bool) {
	u, ok := ctx.Value(uowKey{}).(*unitOfWork)
	return u, ok
}

func (u *unitOfWork) lock(ctx context.Context, id uint) error {
	if _, ok := u.held[id]; ok {
		return nil
	}
	ch := u.store.lockFor(id)
	if err := u.store.acquire(ctx, ch); err != nil {
		return err
	}
	u.held[id] = ch
	return nil
}

func (u *unitOfWork) rollback() {
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.undo = nil
}

func (u *unitOfWork) release() {
	for id, ch := range u.held {
		<-ch
		delete(u.held, id)
	}
}

// TxManager 内存事务管理器
type TxManager struct {
	store *Store
}

// NewTxManager 创建事务管理器
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Transaction 执行工作单元
// 1. fn返回error或panic时逆序回放undo,然后释放全部图书锁
// 2. fn成功但ctx已超时,同样回滚(与数据库COMMIT失败一致)
// 3. 嵌套调用复用外层工作单元
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := uowFrom(ctx); ok {
		return fn(ctx)
	}

	u := &unitOfWork{store: m.store, held: make(map[uint]chan struct{})}
	defer u.release()
	defer func() {
		if r := recover(); r != nil {
			u.rollback()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, uowKey{}, u)); err != nil {
		u.rollback()
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		u.rollback()
		return apperrors.Wrap(ctxErr, "提交失败:工作单元已超时")
	}
	return nil
}
