package genre

import (
	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

// 分类领域错误定义
var (
	ErrGenreNotFound  = apperrors.ErrGenreNotFound
	ErrGenreDuplicate = apperrors.New(apperrors.ErrCodeGenreDuplicate, "分类名已存在")
	ErrGenreInUse     = apperrors.New(apperrors.ErrCodeGenreInUse, "分类下仍有图书,无法删除")
	ErrInvalidName    = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名长度应为1-100个字符")
)
