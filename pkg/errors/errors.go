package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，HTTP状态码由HTTPStatus(Code)推导
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
// 4. Details是可选的结构化上下文（如库存不足时的图书ID和缺口），随响应返回
type AppError struct {
	Code    int                    `json:"code"`              // 业务错误码
	Message string                 `json:"message"`           // 用户友好的错误提示
	Details map[string]interface{} `json:"details,omitempty"` // 结构化上下文
	Err     error                  `json:"-"`                 // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码匹配
// 同一类错误（如库存不足）每次都会带上不同的上下文，指针比较无法识别，
// 因此errors.Is(err, ErrInsufficientStock)以Code为准
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetails 返回附带上下文的副本（不修改预定义错误）
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithMessage 返回替换提示信息的副本
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为存储故障，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeStorageFailure,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeStorageFailure,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapCode 用指定错误码包装底层错误
func WrapCode(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal       = 50000 // 内部错误
	ErrCodeStorageFailure = 50001 // 存储故障（数据库不可用、提交失败等）
	ErrCodeRedisError     = 50002 // Redis错误
	ErrCodeLockContention = 50003 // 锁竞争（死锁、锁等待超时），由协调器重试

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound            = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound        = 40401 // 用户不存在
	ErrCodeBookNotFound        = 40402 // 图书不存在
	ErrCodeTransactionNotFound = 40403 // 交易不存在
	ErrCodeGenreNotFound       = 40404 // 分类不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError     = 40000 // 业务错误(通用)
	ErrCodeInsufficientStock = 40001 // 库存不足
	ErrCodeGenreInUse        = 40002 // 分类下仍有图书
	ErrCodeEmailDuplicate    = 40003 // 邮箱已存在
	ErrCodeISBNDuplicate     = 40004 // ISBN已存在
	ErrCodeWeakPassword      = 40005 // 密码强度不足
	ErrCodeGenreDuplicate    = 40006 // 分类名已存在
	ErrCodeDuplicateEntry    = 40009 // 重复记录(通用)

	// 参数错误（40900-40999）
	ErrCodeInvalidParams    = 40900 // 参数错误
	ErrCodeBindError        = 40901 // 参数绑定失败
	ErrCodeInvalidQuantity  = 40902 // 购买数量不合法
	ErrCodeInvalidLineItems = 40903 // 交易明细不合法

	// 限流（42900）
	ErrCodeTooManyRequests = 42900
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal       = New(ErrCodeInternal, "系统内部错误")
	ErrStorageFailure = New(ErrCodeStorageFailure, "存储服务不可用，请稍后重试")
	ErrRedisError     = New(ErrCodeRedisError, "缓存服务错误")
	ErrLockContention = New(ErrCodeLockContention, "资源繁忙，请稍后重试")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "邮箱或密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrNotFound            = New(ErrCodeNotFound, "资源不存在")
	ErrUserNotFound        = New(ErrCodeUserNotFound, "用户不存在")
	ErrBookNotFound        = New(ErrCodeBookNotFound, "图书不存在")
	ErrTransactionNotFound = New(ErrCodeTransactionNotFound, "交易不存在")
	ErrGenreNotFound       = New(ErrCodeGenreNotFound, "分类不存在")

	// 业务规则
	ErrInsufficientStock = New(ErrCodeInsufficientStock, "库存不足")
	ErrEmailDuplicate    = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrISBNDuplicate     = New(ErrCodeISBNDuplicate, "ISBN号已存在")
	ErrWeakPassword      = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")

	// 参数错误
	ErrInvalidParams    = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError        = New(ErrCodeBindError, "参数格式错误")
	ErrInvalidQuantity  = New(ErrCodeInvalidQuantity, "购买数量必须为正整数")
	ErrInvalidLineItems = New(ErrCodeInvalidLineItems, "交易明细不能为空")

	ErrTooManyRequests = New(ErrCodeTooManyRequests, "请求过于频繁，请稍后再试")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: ErrCodeInternal, Message: "系统内部错误", Err: err}
}

// HTTPStatus 业务错误码 → HTTP状态码
func HTTPStatus(code int) int {
	switch code {
	case ErrCodeInsufficientStock, ErrCodeGenreInUse, ErrCodeEmailDuplicate,
		ErrCodeISBNDuplicate, ErrCodeGenreDuplicate, ErrCodeDuplicateEntry:
		return http.StatusConflict
	case ErrCodeInvalidQuantity, ErrCodeInvalidLineItems:
		return http.StatusUnprocessableEntity
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeLockContention:
		return http.StatusServiceUnavailable
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	}

	switch {
	case code >= 50000:
		return http.StatusInternalServerError
	case code >= 40900:
		return http.StatusBadRequest
	case code >= 40400:
		return http.StatusNotFound
	case code >= 40100:
		return http.StatusUnauthorized
	case code >= 40000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
