package transaction

import (
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

// NewID 生成交易ID
// UUIDv7前48位是毫秒时间戳,按字符串排序即按创建时间排序
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", apperrors.WrapCode(err, apperrors.ErrCodeInternal, "交易ID生成失败")
	}
	return id.String(), nil
}

// IsValidID 校验交易ID格式
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
