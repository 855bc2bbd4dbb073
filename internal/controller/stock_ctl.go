package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/service"
)

type StockController struct {
	stockService *service.StockService
}

func NewStockController(stockService *service.StockService) *StockController {
	return &StockController{stockService: stockService}
}

// Adjust 库存调整
// @Summary 手动库存调整（set/add/subtract），落审计记录
// @Tags Stock
// @Param body body dto.StockAdjustRequest true "调整参数"
// @Success 200 {object} model.StockAdjustment
// @Router /api/stock/adjust [post]
func (ctrl *StockController) Adjust(c *gin.Context) {
	var req dto.StockAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	adj, err := ctrl.stockService.Adjust(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
		case errors.Is(err, service.ErrNegativeStock):
			c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		default:
			c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		}
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": adj})
}

// History 调整历史
// @Summary 某商品的库存调整历史
// @Tags Stock
// @Param itemId query string true "商品编号"
// @Success 200 {array} model.StockAdjustment
// @Router /api/stock/history [get]
func (ctrl *StockController) History(c *gin.Context) {
	itemID := c.Query("itemId")
	if itemID == "" {
		c.JSON(400, gin.H{"code": 400, "message": "缺少商品编号"})
		return
	}

	adjs, err := ctrl.stockService.History(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": adjs})
}
