package mysql

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/litshop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. debug模式打印SQL，其他模式只打印慢SQL与错误
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	return Open(cfg.Database.DSN(), cfg.Server.Mode, cfg.Database)
}

// Open 按DSN打开连接并迁移（集成测试直接使用）
func Open(dsn, mode string, pool config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	log.Info().Str("host", pool.Host).Str("db", pool.DBName).Msg("数据库连接成功")

	// 生产环境应使用版本化的迁移脚本
	if err := db.AutoMigrate(
		&UserModel{},
		&GenreModel{},
		&BookModel{},
		&TransactionModel{},
		&LineItemModel{},
	); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// UserModel GORM用户模型
// domain/user/entity.go是领域实体，不依赖GORM；Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Username  string         `gorm:"size:50;not null;comment:用户名"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string {
	return "users"
}

// GenreModel GORM分类模型
type GenreModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:100;not null;comment:分类名"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (GenreModel) TableName() string {
	return "genres"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储最小货币单位
// 2. ISBN可为NULL,非NULL时唯一
type BookModel struct {
	ID              uint           `gorm:"primaryKey"`
	Title           string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Writer          string         `gorm:"index:idx_search;size:100;not null;default:'';comment:作者"`
	Publisher       string         `gorm:"size:100;not null;default:'';comment:出版社"`
	PublicationYear int            `gorm:"not null;default:0;comment:出版年份"`
	ISBN            *string        `gorm:"uniqueIndex;size:20;comment:ISBN号"`
	Description     string         `gorm:"type:text;comment:图书描述"`
	Condition       string         `gorm:"size:10;not null;default:'new';comment:成色(new/used)"`
	Price           int64          `gorm:"index:idx_list;not null;comment:价格"`
	Stock           int            `gorm:"not null;default:0;comment:库存数量"`
	GenreID         uint           `gorm:"index;not null;comment:分类ID"`
	CreatedAt       time.Time      `gorm:"index:idx_list;comment:创建时间"`
	UpdatedAt       time.Time      `gorm:"comment:更新时间"`
	DeletedAt       gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (BookModel) TableName() string {
	return "books"
}

// TransactionModel GORM交易模型
// 1. 与LineItemModel是一对多关系
// 2. 主键是UUIDv7字符串
// 3. (user_id, created_at)复合索引支持"我的交易"分页
type TransactionModel struct {
	ID            string          `gorm:"primaryKey;size:36"`
	UserID        uint            `gorm:"index:idx_user_created;not null;comment:买家用户ID"`
	TotalQuantity int             `gorm:"not null;comment:总件数"`
	TotalPrice    int64           `gorm:"not null;comment:总金额"`
	Items         []LineItemModel `gorm:"foreignKey:TransactionID"`
	CreatedAt     time.Time       `gorm:"index:idx_user_created;index;comment:创建时间"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

// LineItemModel GORM交易明细模型
// 记录购买时的书名与单价快照
type LineItemModel struct {
	ID            uint   `gorm:"primaryKey"`
	TransactionID string `gorm:"index;size:36;not null;comment:交易ID"`
	BookID        uint   `gorm:"index;not null;comment:图书ID"`
	BookTitle     string `gorm:"size:200;not null;comment:购买时书名"`
	Quantity      int    `gorm:"not null;comment:购买数量"`
	UnitPrice     int64  `gorm:"not null;comment:购买时单价"`
	Subtotal      int64  `gorm:"not null;comment:小计"`
}

func (LineItemModel) TableName() string {
	return "transaction_items"
}
