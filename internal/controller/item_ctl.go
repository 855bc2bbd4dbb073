package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/repository"
	"resale_erp_202601/internal/service"
)

type ItemController struct {
	itemService    *service.ItemService
	importService  *service.ImportService
	pricingService *service.PricingService
}

func NewItemController(
	itemService *service.ItemService,
	importService *service.ImportService,
	pricingService *service.PricingService,
) *ItemController {
	return &ItemController{
		itemService:    itemService,
		importService:  importService,
		pricingService: pricingService,
	}
}

// ==================== 查询接口 ====================

// GetItems 商品列表
// @Summary 商品列表（筛选 + 排序 + 分页）
// @Tags Item
// @Param search query string false "关键词（名称/编号/品牌）"
// @Param itemType query string false "分类"
// @Param size query string false "尺码"
// @Param status query string false "订单状态"
// @Param platform query string false "购入/售出平台"
// @Param startDate query string false "购入开始日期"
// @Param endDate query string false "购入结束日期"
// @Param sortBy query string false "排序字段"
// @Param sortOrder query string false "asc|desc"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Success 200 {object} dto.PageResult
// @Router /api/items [get]
func (ctrl *ItemController) GetItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	filter := repository.ItemFilter{
		Search:    c.Query("search"),
		ItemType:  c.Query("itemType"),
		Size:      c.Query("size"),
		Status:    c.Query("status"),
		Platform:  c.Query("platform"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      page,
		PageSize:  pageSize,
	}
	if d, ok := service.ParseFlexibleDate(c.Query("startDate")); ok {
		filter.StartDate = &d
	}
	if d, ok := service.ParseFlexibleDate(c.Query("endDate")); ok {
		filter.EndDate = &d
	}

	items, total, err := ctrl.itemService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.PageResult{
			List:     items,
			Total:    total,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	})
}

// GetItem 商品详情
// @Summary 商品详情，带交易记录与仓位
// @Tags Item
// @Param itemId path string true "商品编号"
// @Success 200 {object} model.Item
// @Router /api/items/{itemId} [get]
func (ctrl *ItemController) GetItem(c *gin.Context) {
	itemID := c.Param("itemId")
	item, err := ctrl.itemService.Get(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": item})
}

// GetStats 总览统计
// @Summary 库存/已售/成本/营收/平均利润率统计
// @Tags Item
// @Success 200 {object} dto.ItemStats
// @Router /api/items/stats [get]
func (ctrl *ItemController) GetStats(c *gin.Context) {
	stats, err := ctrl.itemService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "统计失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": stats})
}

// GetMonths 购入月份
// @Summary 有购入记录的月份列表（倒序）
// @Tags Item
// @Success 200 {array} string
// @Router /api/items/months [get]
func (ctrl *ItemController) GetMonths(c *gin.Context) {
	months, err := ctrl.itemService.Months(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": months})
}

// GetCategories 商品分类
// @Summary 在册商品的分类列表
// @Tags Item
// @Success 200 {array} string
// @Router /api/items/categories [get]
func (ctrl *ItemController) GetCategories(c *gin.Context) {
	categories, err := ctrl.itemService.Categories(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": categories})
}

// GetGrouped 货号聚合列表
// @Summary 按货号聚合同款商品，带尺码明细和利润合计
// @Tags Item
// @Param search query string false "关键词（名称/货号/品牌）"
// @Param itemType query string false "分类"
// @Param status query string false "订单状态"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(24)
// @Success 200 {object} dto.PageResult
// @Router /api/items/grouped [get]
func (ctrl *ItemController) GetGrouped(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "24"))

	groups, total, err := ctrl.itemService.Grouped(c.Request.Context(), service.GroupedQuery{
		Search:   c.Query("search"),
		ItemType: c.Query("itemType"),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.PageResult{
			List:     groups,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		},
	})
}

// Autocomplete 输入联想
// @Summary 商品名/货号联想，少于 2 个字符返回空
// @Tags Item
// @Param q query string true "搜索词"
// @Param type query string false "name|number" default(name)
// @Success 200 {array} dto.AutocompleteSuggestion
// @Router /api/items/autocomplete [get]
func (ctrl *ItemController) Autocomplete(c *gin.Context) {
	suggestions, err := ctrl.itemService.Autocomplete(
		c.Request.Context(), c.Query("q"), c.DefaultQuery("type", "name"))
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": suggestions})
}

// ==================== 写接口 ====================

// CreateItem 创建商品
// @Summary 创建商品及首条交易记录
// @Tags Item
// @Param body body dto.ItemSaveRequest true "商品信息"
// @Success 200 {object} model.Item
// @Router /api/items [post]
func (ctrl *ItemController) CreateItem(c *gin.Context) {
	var req dto.ItemSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	item, err := ctrl.itemService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemExists):
			c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		case errors.Is(err, repository.ErrPositionFull):
			c.JSON(400, gin.H{"code": 400, "message": "仓位已满"})
		default:
			c.JSON(500, gin.H{"code": 500, "message": "创建失败: " + err.Error()})
		}
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": item})
}

// UpdateItem 更新商品
// @Summary 更新商品与最新交易记录
// @Tags Item
// @Param body body dto.ItemSaveRequest true "商品信息"
// @Success 200 {object} model.Item
// @Router /api/items [put]
func (ctrl *ItemController) UpdateItem(c *gin.Context) {
	var req dto.ItemSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	item, err := ctrl.itemService.Update(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
		case errors.Is(err, repository.ErrPositionFull):
			c.JSON(400, gin.H{"code": 400, "message": "仓位已满"})
		default:
			c.JSON(500, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		}
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": item})
}

// DeleteItem 删除商品
// @Summary 软删除商品及其交易记录，释放仓位
// @Tags Item
// @Param itemId query string true "商品编号"
// @Success 200 {object} gin.H
// @Router /api/items [delete]
func (ctrl *ItemController) DeleteItem(c *gin.Context) {
	itemID := c.Query("itemId")
	if itemID == "" {
		c.JSON(400, gin.H{"code": 400, "message": "缺少商品编号"})
		return
	}

	if err := ctrl.itemService.Delete(c.Request.Context(), itemID); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success"})
}

// CopyItem 复制商品
// @Summary 复制商品：新编号 + 空白购入记录，不继承仓位绑定
// @Tags Item
// @Param body body dto.CopyItemRequest true "源商品编号"
// @Success 200 {object} model.Item
// @Router /api/items/copy [post]
func (ctrl *ItemController) CopyItem(c *gin.Context) {
	var req dto.CopyItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	item, err := ctrl.itemService.Copy(c.Request.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "复制失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": item})
}

// ==================== SKU ====================

// CreateSKU 创建 SKU
// @Summary 创建不带交易记录的裸商品
// @Tags Item
// @Param body body dto.SKURequest true "SKU信息"
// @Success 200 {object} model.Item
// @Router /api/items/sku [post]
func (ctrl *ItemController) CreateSKU(c *gin.Context) {
	var req dto.SKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	item, err := ctrl.itemService.CreateSKU(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrItemExists) {
			c.JSON(400, gin.H{"code": 400, "message": err.Error()})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "创建失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": item})
}

// UpdateSKU 更新 SKU
// @Summary 更新 SKU 基础字段
// @Tags Item
// @Param body body dto.SKURequest true "SKU信息"
// @Success 200 {object} model.Item
// @Router /api/items/sku [put]
func (ctrl *ItemController) UpdateSKU(c *gin.Context) {
	var req dto.SKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	item, err := ctrl.itemService.UpdateSKU(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": item})
}

// DeleteSKU 删除 SKU
// @Summary 删除 SKU，存在交易记录时拒绝
// @Tags Item
// @Param itemId query string true "商品编号"
// @Success 200 {object} gin.H
// @Router /api/items/sku [delete]
func (ctrl *ItemController) DeleteSKU(c *gin.Context) {
	itemID := c.Query("itemId")
	if itemID == "" {
		c.JSON(400, gin.H{"code": 400, "message": "缺少商品编号"})
		return
	}

	if err := ctrl.itemService.DeleteSKU(c.Request.Context(), itemID); err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
		case errors.Is(err, service.ErrHasTransactions):
			c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		default:
			c.JSON(500, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		}
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success"})
}

// ==================== 批量操作 ====================

// BatchImport CSV 批量导入
// @Summary 上传 CSV 批量导入商品
// @Tags Item
// @Accept multipart/form-data
// @Param file formData file true "CSV 文件"
// @Success 200 {object} dto.ImportResult
// @Router /api/items/batch-import [post]
func (ctrl *ItemController) BatchImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "未上传文件"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "文件读取失败: " + err.Error()})
		return
	}
	defer f.Close()

	result, err := ctrl.importService.Import(c.Request.Context(), f)
	if err != nil {
		// 解析失败 400，事务失败 500
		if errors.Is(err, service.ErrUnreadableCSV) {
			c.JSON(400, gin.H{"code": 400, "message": err.Error()})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "导入失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": result})
}

// ExportItems CSV 导出
// @Summary 导出商品数据为 CSV，表头与导入一致，可直接再导入
// @Tags Item
// @Param body body dto.ExportRequest true "筛选条件"
// @Produce text/csv
// @Success 200 {string} string "CSV 文件"
// @Router /api/items/export [post]
func (ctrl *ItemController) ExportItems(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	data, filename, err := ctrl.importService.Export(c.Request.Context(), req.Month)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "导出失败: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "text/csv; charset=utf-8", data)
}

// BatchUpdateStatus 批量改状态
// @Summary 批量更新订单状态
// @Tags Item
// @Param body body dto.BatchUpdateStatusRequest true "编号列表与目标状态"
// @Success 200 {object} dto.BatchResult
// @Router /api/items/batch-update-status [post]
func (ctrl *ItemController) BatchUpdateStatus(c *gin.Context) {
	var req dto.BatchUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	result, err := ctrl.itemService.BatchUpdateStatus(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(400, gin.H{"code": 400, "message": err.Error()})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "操作失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": result})
}

// BatchSettlement 批量结算
// @Summary 已售出未结算商品按给定汇率结算转已完成
// @Tags Item
// @Param body body dto.BatchSettlementRequest true "编号列表与结算汇率"
// @Success 200 {object} dto.BatchResult
// @Router /api/items/batch-settlement [post]
func (ctrl *ItemController) BatchSettlement(c *gin.Context) {
	var req dto.BatchSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	result, err := ctrl.itemService.BatchSettlement(c.Request.Context(), &req)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "结算失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": result})
}

// PricePrediction 价格预测
// @Summary 成本拆解与建议售价
// @Tags Item
// @Param body body dto.PricePredictionRequest true "预测参数"
// @Success 200 {object} dto.PricePrediction
// @Router /api/items/price-prediction [post]
func (ctrl *ItemController) PricePrediction(c *gin.Context) {
	var req dto.PricePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	prediction, err := ctrl.pricingService.Predict(c.Request.Context(), &req)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "预测失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": prediction})
}
