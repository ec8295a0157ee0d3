package book

import (
	"context"
	"regexp"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装图书的业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
// 3. 库存扣减不在这里,由购买协调器在工作单元内完成
type Service interface {
	// CreateBook 创建图书
	// 业务规则:
	// - 书名必填
	// - 价格、库存不能为负
	// - ISBN填写时格式必须合法且不能重复
	CreateBook(ctx context.Context, b *Book) error

	// GetBook 根据ID获取图书详情
	GetBook(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 局部更新图书
	// 先锁定图书行再读改写,必须在TxManager开启的工作单元内调用
	UpdateBook(ctx context.Context, id uint, p Patch) (*Book, error)

	// DeleteBook 删除图书(软删除,历史交易保留书名快照)
	DeleteBook(ctx context.Context, id uint) error

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, b *Book) error {
	if err := b.Validate(); err != nil {
		return err
	}
	// ISBN唯一性由存储层的唯一索引保证
	return s.repo.Create(ctx, b)
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	if id == 0 {
		return nil, ErrBookNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateBook 局部更新图书
func (s *service) UpdateBook(ctx context.Context, id uint, p Patch) (*Book, error) {
	if id == 0 {
		return nil, ErrBookNotFound
	}

	// 1. 锁定图书,直到工作单元结束,进行中的购买与本次修改串行
	b, err := s.repo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 应用修改并校验
	if err := b.Apply(p); err != nil {
		return nil, err
	}

	// 3. 只写修改过的列
	if err := s.repo.Update(ctx, b, p); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrBookNotFound
	}
	return s.repo.Delete(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

var isbnSeparators = regexp.MustCompile(`[-\s]`)
var isbnBody = regexp.MustCompile(`^(\d{9}[\dXx]|\d{13})$`)

// IsValidISBN 校验ISBN格式
// 支持ISBN-10(末位可为X)和ISBN-13,允许连字符分隔
// 简化实现:只检查位数,不校验校验位
func IsValidISBN(isbn string) bool {
	return isbnBody.MatchString(isbnSeparators.ReplaceAllString(isbn, ""))
}
