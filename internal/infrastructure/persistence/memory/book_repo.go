package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/litshop/internal/domain/book"
	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

type bookRepository struct {
	store *Store
}

// NewBookRepository 创建图书仓储(内存)
func NewBookRepository(store *Store) book.Repository {
	return &bookRepository{store: store}
}

// live 未删除的图书行,调用方持有s.mu
func (s *Store) live(id uint) (*bookRow, bool) {
	row, ok := s.books[id]
	if !ok || row.deleted {
		return nil, false
	}
	return row, true
}

// isbnTaken ISBN是否被其他未删除图书占用,调用方持有s.mu
func (s *Store) isbnTaken(isbn string, exceptID uint) bool {
	if isbn == "" {
		return false
	}
	for id, row := range s.books {
		if id != exceptID && !row.deleted && row.book.ISBN == isbn {
			return true
		}
	}
	return false
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isbnTaken(b.ISBN, 0) {
		return book.ErrISBNDuplicate
	}

	s.nextBookID++
	b.ID = s.nextBookID
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
	s.books[b.ID] = &bookRow{book: *b}

	id := b.ID
	onRollback(ctx, func() {
		s.mu.Lock()
		delete(s.books, id)
		s.mu.Unlock()
	})
	return nil
}

func (r *bookRepository) FindByID(_ context.Context, id uint) (*book.Book, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.live(id)
	if !ok {
		return nil, book.ErrBookNotFound
	}
	b := row.book
	return &b, nil
}

// Update 在当前行上应用patch,只改patch设置的字段
// 与MySQL一样只写修改过的列;调用方应已在工作单元内持有图书锁
func (r *bookRepository) Update(ctx context.Context, b *book.Book, p book.Patch) error {
	s := r.store
	return s.withBookLock(ctx, b.ID, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		row, ok := s.live(b.ID)
		if !ok {
			return book.ErrBookNotFound
		}
		if p.ISBN != nil && s.isbnTaken(b.ISBN, b.ID) {
			return book.ErrISBNDuplicate
		}

		old := row.book
		next := row.book
		if err := next.Apply(p); err != nil {
			return err
		}
		next.UpdatedAt = b.UpdatedAt
		row.book = next

		onRollback(ctx, func() {
			s.mu.Lock()
			row.book = old
			s.mu.Unlock()
		})
		return nil
	})
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	s := r.store
	return s.withBookLock(ctx, id, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		row, ok := s.live(id)
		if !ok {
			return book.ErrBookNotFound
		}
		row.deleted = true

		onRollback(ctx, func() {
			s.mu.Lock()
			row.deleted = false
			s.mu.Unlock()
		})
		return nil
	})
}

func (r *bookRepository) List(_ context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	s := r.store
	s.mu.RLock()
	keyword := strings.ToLower(params.Keyword)
	matched := make([]book.Book, 0, len(s.books))
	for _, row := range s.books {
		if row.deleted {
			continue
		}
		if params.GenreID > 0 && row.book.GenreID != params.GenreID {
			continue
		}
		if keyword != "" && !matchKeyword(&row.book, keyword) {
			continue
		}
		matched = append(matched, row.book)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch params.SortBy {
		case book.SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return a.ID < b.ID
		case book.SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
			return a.ID > b.ID
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	})

	total := int64(len(matched))
	start, end := pageBounds(len(matched), params.Page, params.PageSize)
	books := make([]*book.Book, 0, end-start)
	for i := start; i < end; i++ {
		b := matched[i]
		books = append(books, &b)
	}
	return books, total, nil
}

func matchKeyword(b *book.Book, keyword string) bool {
	return strings.Contains(strings.ToLower(b.Title), keyword) ||
		strings.Contains(strings.ToLower(b.Writer), keyword) ||
		strings.Contains(strings.ToLower(b.Publisher), keyword)
}

func (r *bookRepository) GetStock(_ context.Context, id uint) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.live(id)
	if !ok {
		return 0, book.ErrBookNotFound
	}
	return row.book.Stock, nil
}

// LockByID 获取图书锁后读取
// 锁挂在工作单元上,工作单元外调用是编程错误
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	u, ok := uowFrom(ctx)
	if !ok {
		return nil, apperrors.WrapCode(errNoUnitOfWork, apperrors.ErrCodeInternal, "系统内部错误")
	}
	if err := u.lock(ctx, id); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// UpdateStock 检查并修改库存
// 检查与修改在同一次s.mu临界区内完成
func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	s := r.store
	return s.withBookLock(ctx, id, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		row, ok := s.live(id)
		if !ok {
			return book.ErrBookNotFound
		}
		if row.book.Stock+delta < 0 {
			snapshot := row.book
			return book.NewInsufficientStockError(&snapshot, -delta)
		}

		old := row.book.Stock
		row.book.Stock += delta
		onRollback(ctx, func() {
			s.mu.Lock()
			row.book.Stock = old
			s.mu.Unlock()
		})
		return nil
	})
}

func (r *bookRepository) CountByGenre(_ context.Context, genreID uint) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, row := range s.books {
		if !row.deleted && row.book.GenreID == genreID {
			n++
		}
	}
	return n, nil
}

func (r *bookRepository) Stats(_ context.Context) (*book.Stats, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &book.Stats{}
	genres := make(map[uint]struct{})
	for _, row := range s.books {
		if row.deleted {
			continue
		}
		stats.TotalBooks++
		stats.TotalStock += int64(row.book.Stock)
		if row.book.Stock > 0 {
			stats.InStock++
		}
		genres[row.book.GenreID] = struct{}{}
	}
	stats.Genres = int64(len(genres))
	return stats, nil
}

// pageBounds 计算分页切片区间
func pageBounds(n, page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return 0, 0
	}
	start := (page - 1) * pageSize
	if start >= n {
		return n, n
	}
	end := start + pageSize
	if end > n {
		end = n
	}
	return start, end
}
