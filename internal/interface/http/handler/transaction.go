package handler

import (
	"github.com/gin-gonic/gin"

	apptx "github.com/xiebiao/litshop/internal/application/transaction"
	"github.com/xiebiao/litshop/internal/interface/http/dto"
	"github.com/xiebiao/litshop/internal/interface/http/middleware"
	"github.com/xiebiao/litshop/pkg/response"
)

// TransactionHandler 交易HTTP处理器
type TransactionHandler struct {
	createUseCase *apptx.CreateTransactionUseCase
	getUseCase    *apptx.GetTransactionUseCase
	listUseCase   *apptx.ListTransactionsUseCase
}

// NewTransactionHandler 创建交易处理器
func NewTransactionHandler(
	createUseCase *apptx.CreateTransactionUseCase,
	getUseCase *apptx.GetTransactionUseCase,
	listUseCase *apptx.ListTransactionsUseCase,
) *TransactionHandler {
	return &TransactionHandler{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
	}
}

// CreateTransaction 购买图书
// @Summary      创建交易
// @Description  一次购买一本或多本图书,库存校验、扣减与交易记录在同一个工作单元内完成
// @Tags         交易
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateTransactionRequest true "购买明细"
// @Success      201 {object} response.Response{data=dto.TransactionResponse}
// @Failure      400 {object} response.Response "参数格式错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "库存不足"
// @Failure      422 {object} response.Response "购买数量不合法"
// @Failure      429 {object} response.Response "请求过于频繁"
// @Failure      500 {object} response.Response "存储故障"
// @Router       /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	// 1. 参数绑定
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	items, err := req.ToItems()
	if err != nil {
		response.Error(c, err)
		return
	}

	// 2. 调用购买协调器
	tx, err := h.createUseCase.Execute(c.Request.Context(), apptx.CreateTransactionRequest{
		UserID: middleware.GetUserID(c),
		Items:  items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewTransactionResponse(tx))
}

// ListTransactions 当前用户的交易列表
// @Summary      交易列表
// @Tags         交易
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量(最大100)"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var req dto.ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), apptx.ListTransactionsRequest{
		UserID:   middleware.GetUserID(c),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, dto.NewTransactionList(result.Transactions), result.Total, result.Page, result.PageSize)
}

// GetTransaction 交易详情
// @Summary      交易详情
// @Description  他人的交易与不存在的交易同样返回404
// @Tags         交易
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "交易ID"
// @Success      200 {object} response.Response{data=dto.TransactionResponse}
// @Failure      404 {object} response.Response "交易不存在"
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	tx, err := h.getUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewTransactionResponse(tx))
}
