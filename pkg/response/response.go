package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/litshop/pkg/errors"
	"github.com/xiebiao/litshop/pkg/logger"
)

// Response 统一响应结构
// 设计说明：
// 1. Success标识请求是否成功，HTTP状态码同时表达错误类型
// 2. Message是用户友好的提示信息
// 3. Data是业务数据；失败时可携带结构化的错误上下文
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage 自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Created 资源创建成功（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	tx, err := createTransactionUseCase.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := apperrors.HTTPStatus(appErr.Code)

	// 内部错误只进日志
	if appErr.Err != nil || status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error().
			Err(err).
			Int("code", appErr.Code).
			Str("path", c.FullPath()).
			Msg("请求处理失败")
	}

	resp := Response{
		Success: false,
		Message: appErr.Message,
	}
	if len(appErr.Details) > 0 {
		resp.Data = appErr.Details
	}
	c.JSON(status, resp)
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(apperrors.HTTPStatus(code), Response{
		Success: false,
		Message: message,
	})
}

// Abort 错误响应并终止后续Handler（用于中间件）
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`        // 数据列表
	Total      int64       `json:"total"`       // 总记录数
	Page       int         `json:"page"`        // 当前页码
	PageSize   int         `json:"page_size"`   // 每页大小
	TotalPages int         `json:"total_pages"` // 总页数
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize != 0 {
			totalPages++
		}
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
