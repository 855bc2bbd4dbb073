package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/service"
)

type TransactionController struct {
	txnService *service.TransactionService
}

func NewTransactionController(txnService *service.TransactionService) *TransactionController {
	return &TransactionController{txnService: txnService}
}

// CreateTransaction 追加交易记录
// @Summary 给已有商品追加购入/售出记录
// @Tags Transaction
// @Param body body dto.TransactionCreateRequest true "交易信息"
// @Success 200 {object} model.Transaction
// @Router /api/transactions [post]
func (ctrl *TransactionController) CreateTransaction(c *gin.Context) {
	var req dto.TransactionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	txn, err := ctrl.txnService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": txn})
}
