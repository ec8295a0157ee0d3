package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/litshop/internal/domain/book"
	"github.com/xiebiao/litshop/internal/domain/genre"
	"github.com/xiebiao/litshop/internal/domain/transaction"
	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

type fixture struct {
	store  *Store
	tm     *TxManager
	books  book.Repository
	genres genre.Repository
	txs    transaction.Repository
}

func newFixture(t *testing.T, lockWait time.Duration) *fixture {
	t.Helper()
	s := NewStore(lockWait)
	return &fixture{
		store:  s,
		tm:     NewTxManager(s),
		books:  NewBookRepository(s),
		genres: NewGenreRepository(s),
		txs:    NewTransactionRepository(s),
	}
}

func (f *fixture) seedBook(t *testing.T, title string, price int64, stock int) *book.Book {
	t.Helper()
	b := book.NewBook(title, "作者", "出版社", 2020, "", "", book.ConditionNew, price, stock, 1)
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func TestTransaction_CommitAppliesWrites(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	b := f.seedBook(t, "三体", 2300, 5)

	var created *transaction.Transaction
	err := f.tm.Transaction(ctx, func(ctx context.Context) error {
		locked, err := f.books.LockByID(ctx, b.ID)
		if err != nil {
			return err
		}
		if err := f.books.UpdateStock(ctx, b.ID, -2); err != nil {
			return err
		}
		tx, err := transaction.NewTransaction(7, []transaction.LineItem{
			transaction.NewLineItem(locked.ID, locked.Title, 2, locked.Price),
		})
		if err != nil {
			return err
		}
		created = tx
		return f.txs.Create(ctx, tx)
	})
	require.NoError(t, err)

	stock, err := f.books.GetStock(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stock)

	got, err := f.txs.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4600), got.TotalPrice)
	require.Len(t, got.Items, 1)
	assert.NotZero(t, got.Items[0].ID)
}

func TestTransaction_ErrorRollsBackEverything(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	a := f.seedBook(t, "A", 100, 5)
	b := f.seedBook(t, "B", 100, 5)

	boom := errors.New("ledger write failed")
	var txID string
	err := f.tm.Transaction(ctx, func(ctx context.Context) error {
		require.NoError(t, f.books.UpdateStock(ctx, a.ID, -3))
		require.NoError(t, f.books.UpdateStock(ctx, b.ID, -1))
		tx, err := transaction.NewTransaction(1, []transaction.LineItem{
			transaction.NewLineItem(a.ID, "A", 3, 100),
		})
		require.NoError(t, err)
		txID = tx.ID
		require.NoError(t, f.txs.Create(ctx, tx))
		return boom
	})
	require.ErrorIs(t, err, boom)

	sa, _ := f.books.GetStock(ctx, a.ID)
	sb, _ := f.books.GetStock(ctx, b.ID)
	assert.Equal(t, 5, sa)
	assert.Equal(t, 5, sb)

	_, err = f.txs.FindByID(ctx, txID)
	assert.ErrorIs(t, err, transaction.ErrTransactionNotFound)
}

func TestTransaction_PanicRollsBackAndReleasesLocks(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond)
	ctx := context.Background()
	b := f.seedBook(t, "A", 100, 5)

	assert.Panics(t, func() {
		_ = f.tm.Transaction(ctx, func(ctx context.Context) error {
			_, _ = f.books.LockByID(ctx, b.ID)
			_ = f.books.UpdateStock(ctx, b.ID, -5)
			panic("boom")
		})
	})

	stock, _ := f.books.GetStock(ctx, b.ID)
	assert.Equal(t, 5, stock)

	// 锁已释放,新的工作单元可以立即拿到
	err := f.tm.Transaction(ctx, func(ctx context.Context) error {
		_, err := f.books.LockByID(ctx, b.ID)
		return err
	})
	assert.NoError(t, err)
}

func TestTransaction_ReadersSeeUncommittedUntilRollback(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	b := f.seedBook(t, "A", 100, 5)

	boom := errors.New("boom")
	err := f.tm.Transaction(ctx, func(txCtx context.Context) error {
		if err := f.books.UpdateStock(txCtx, b.ID, -2); err != nil {
			return err
		}
		// 工作单元外的只读查询能看到未提交的扣减
		stock, err := f.books.GetStock(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stock)
		stats, err := f.books.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalStock)
		return boom
	})
	require.ErrorIs(t, err, boom)

	stock, err := f.books.GetStock(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stock)
}

func TestUpdateStock_InsufficientLeavesStockUnchanged(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	b := f.seedBook(t, "A", 100, 2)

	err := f.tm.Transaction(ctx, func(ctx context.Context) error {
		return f.books.UpdateStock(ctx, b.ID, -3)
	})
	require.ErrorIs(t, err, book.ErrInsufficientStock)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, 3, appErr.Details["requested"])
	assert.Equal(t, 2, appErr.Details["available"])
	assert.Equal(t, 1, appErr.Details["shortfall"])

	stock, _ := f.books.GetStock(ctx, b.ID)
	assert.Equal(t, 2, stock)
}

func TestLockByID_WaitTimeoutIsLockContention(t *testing.T) {
	f := newFixture(t, 30*time.Millisecond)
	ctx := context.Background()
	b := f.seedBook(t, "A", 100, 5)

	holding := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = f.tm.Transaction(ctx, func(ctx context.Context) error {
			_, err := f.books.LockByID(ctx, b.ID)
			close(holding)
			<-done
			return err
		})
	}()
	<-holding

	err := f.tm.Transaction(ctx, func(ctx context.Context) error {
		_, err := f.books.LockByID(ctx, b.ID)
		return err
	})
	close(done)

	assert.ErrorIs(t, err, apperrors.ErrLockContention)
}

func TestLockByID_OutsideUnitOfWork(t *testing.T) {
	f := newFixture(t, time.Second)
	b := f.seedBook(t, "A", 100, 5)

	_, err := f.books.LockByID(context.Background(), b.ID)
	assert.Error(t, err)
}

func TestLockByID_ReentrantWithinUnitOfWork(t *testing.T) {
	f := newFixture(t, 30*time.Millisecond)
	b := f.seedBook(t, "A", 100, 5)

	err := f.tm.Transaction(context.Background(), func(ctx context.Context) error {
		if _, err := f.books.LockByID(ctx, b.ID); err != nil {
			return err
		}
		_, err := f.books.LockByID(ctx, b.ID)
		return err
	})
	assert.NoError(t, err)
}

func TestTransaction_ConcurrentPurchasesNeverOversell(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	ctx := context.Background()
	b := f.seedBook(t, "A", 100, 5)

	const buyers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(uid uint) {
			defer wg.Done()
			err := f.tm.Transaction(ctx, func(ctx context.Context) error {
				locked, err := f.books.LockByID(ctx, b.ID)
				if err != nil {
					return err
				}
				if !locked.CanFulfil(1) {
					return book.NewInsufficientStockError(locked, 1)
				}
				if err := f.books.UpdateStock(ctx, b.ID, -1); err != nil {
					return err
				}
				tx, err := transaction.NewTransaction(uid, []transaction.LineItem{
					transaction.NewLineItem(locked.ID, locked.Title, 1, locked.Price),
				})
				if err != nil {
					return err
				}
				return f.txs.Create(ctx, tx)
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(uint(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	stock, _ := f.books.GetStock(ctx, b.ID)
	assert.Equal(t, 0, stock)

	_, total, err := f.txs.List(ctx, transaction.ListParams{Page: 1, PageSize: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}

func TestTransaction_ExpiredContextRollsBack(t *testing.T) {
	f := newFixture(t, time.Second)
	b := f.seedBook(t, "A", 100, 5)

	ctx, cancel := context.WithCancel(context.Background())
	err := f.tm.Transaction(ctx, func(ctx context.Context) error {
		if err := f.books.UpdateStock(ctx, b.ID, -1); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.ErrorIs(t, err, apperrors.ErrStorageFailure)

	stock, _ := f.books.GetStock(context.Background(), b.ID)
	assert.Equal(t, 5, stock)
}
