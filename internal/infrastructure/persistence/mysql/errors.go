package mysql

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

// MySQL错误码
const (
	errDuplicateEntry  = 1062 // Duplicate entry 'xxx' for key 'yyy'
	errLockWaitTimeout = 1205 // Lock wait timeout exceeded
	errDeadlock        = 1213 // Deadlock found when trying to get lock
)

// isDuplicateError 判断是否为唯一索引冲突
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errDuplicateEntry
}

// isLockContention 判断是否为死锁或锁等待超时
// InnoDB检测到死锁时会回滚其中一个事务，整个工作单元可以安全重试
func isLockContention(err error) bool {
	var myErr *mysqldriver.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == errDeadlock || myErr.Number == errLockWaitTimeout
}

// translate 将驱动错误转换为业务错误
// 锁竞争 → LockContention（由购买协调器重试），其他 → StorageFailure
func translate(err error, message string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	if isLockContention(err) {
		return apperrors.WrapCode(err, apperrors.ErrCodeLockContention, message)
	}
	return apperrors.Wrap(err, message)
}
