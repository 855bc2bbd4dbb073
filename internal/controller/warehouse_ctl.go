package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/service"
)

type WarehouseController struct {
	warehouseService *service.WarehouseService
}

func NewWarehouseController(warehouseService *service.WarehouseService) *WarehouseController {
	return &WarehouseController{warehouseService: warehouseService}
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(400, gin.H{"code": 400, "message": "无效的ID"})
		return 0, false
	}
	return id, true
}

// ==================== 仓库 ====================

// GetWarehouses 仓库列表
// @Summary 仓库列表（带仓位与在库商品）
// @Tags Warehouse
// @Success 200 {array} model.Warehouse
// @Router /api/warehouses [get]
func (ctrl *WarehouseController) GetWarehouses(c *gin.Context) {
	warehouses, err := ctrl.warehouseService.List(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": warehouses})
}

// CreateWarehouse 创建仓库
// @Summary 创建仓库（名称唯一）
// @Tags Warehouse
// @Param body body dto.WarehouseRequest true "仓库信息"
// @Success 200 {object} model.Warehouse
// @Router /api/warehouses [post]
func (ctrl *WarehouseController) CreateWarehouse(c *gin.Context) {
	var req dto.WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	wh, err := ctrl.warehouseService.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": wh})
}

// UpdateWarehouse 更新仓库
// @Summary 更新仓库
// @Tags Warehouse
// @Param id path int true "仓库ID"
// @Param body body dto.WarehouseRequest true "仓库信息"
// @Success 200 {object} model.Warehouse
// @Router /api/warehouses/{id} [put]
func (ctrl *WarehouseController) UpdateWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	wh, err := ctrl.warehouseService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrWarehouseNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "仓库不存在"})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "更新失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": wh})
}

// DeleteWarehouse 删除仓库
// @Summary 删除仓库（仍有商品时拒绝）
// @Tags Warehouse
// @Param id path int true "仓库ID"
// @Success 200 {object} gin.H
// @Router /api/warehouses/{id} [delete]
func (ctrl *WarehouseController) DeleteWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.warehouseService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrWarehouseNotFound):
			c.JSON(404, gin.H{"code": 404, "message": "仓库不存在"})
		case errors.Is(err, service.ErrWarehouseInUse):
			c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		default:
			c.JSON(500, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		}
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success"})
}

// ==================== 仓位 ====================

// CreatePosition 创建仓位
// @Summary 创建仓位（同仓库内名称唯一）
// @Tags Warehouse
// @Param body body dto.PositionRequest true "仓位信息"
// @Success 200 {object} model.WarehousePosition
// @Router /api/warehouses/positions [post]
func (ctrl *WarehouseController) CreatePosition(c *gin.Context) {
	var req dto.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	pos, err := ctrl.warehouseService.CreatePosition(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrWarehouseNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "仓库不存在"})
			return
		}
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": pos})
}

// UpdatePosition 更新仓位
// @Summary 更新仓位（容量不得小于当前占用）
// @Tags Warehouse
// @Param id path int true "仓位ID"
// @Param body body dto.PositionRequest true "仓位信息"
// @Success 200 {object} model.WarehousePosition
// @Router /api/warehouses/positions/{id} [put]
func (ctrl *WarehouseController) UpdatePosition(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	pos, err := ctrl.warehouseService.UpdatePosition(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrPositionNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "仓位不存在"})
			return
		}
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": pos})
}

// DeletePosition 删除仓位
// @Summary 删除仓位（仍有商品时拒绝）
// @Tags Warehouse
// @Param id path int true "仓位ID"
// @Success 200 {object} gin.H
// @Router /api/warehouses/positions/{id} [delete]
func (ctrl *WarehouseController) DeletePosition(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.warehouseService.DeletePosition(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrPositionInUse) {
			c.JSON(400, gin.H{"code": 400, "message": err.Error()})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success"})
}

// AdjustUsage 手动调整仓位占用
// @Summary 仓位占用加减（越界拒绝）
// @Tags Warehouse
// @Param id path int true "仓位ID"
// @Param body body dto.PositionUsageRequest true "add|remove 与数量"
// @Success 200 {object} model.WarehousePosition
// @Router /api/warehouses/positions/{id}/usage [put]
func (ctrl *WarehouseController) AdjustUsage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.PositionUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	pos, err := ctrl.warehouseService.AdjustUsage(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrPositionNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "仓位不存在"})
			return
		}
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": pos})
}

// GetStats 仓库统计
// @Summary 仓库容量/占用聚合
// @Tags Warehouse
// @Success 200 {object} repository.WarehouseStats
// @Router /api/warehouses/stats [get]
func (ctrl *WarehouseController) GetStats(c *gin.Context) {
	stats, err := ctrl.warehouseService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "统计失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": stats})
}
