package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/service"
)

type ToyController struct {
	toyService *service.ToyService
}

func NewToyController(toyService *service.ToyService) *ToyController {
	return &ToyController{toyService: toyService}
}

// GetBrands 品牌列表
// @Summary 潮玩品牌列表
// @Tags Toy
// @Success 200 {array} model.ToyBrand
// @Router /api/toys/brands [get]
func (ctrl *ToyController) GetBrands(c *gin.Context) {
	brands, err := ctrl.toyService.ListBrands(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": brands})
}

// CreateBrand 创建品牌
// @Summary 创建潮玩品牌
// @Tags Toy
// @Param body body dto.ToyBrandRequest true "品牌信息"
// @Success 200 {object} model.ToyBrand
// @Router /api/toys/brands [post]
func (ctrl *ToyController) CreateBrand(c *gin.Context) {
	var req dto.ToyBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	brand, err := ctrl.toyService.CreateBrand(c.Request.Context(), &req)
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": brand})
}

// GetSeries 系列列表
// @Summary 潮玩系列列表，可按品牌筛选
// @Tags Toy
// @Param brandId query int false "品牌ID"
// @Success 200 {array} model.ToySeries
// @Router /api/toys/series [get]
func (ctrl *ToyController) GetSeries(c *gin.Context) {
	brandID, _ := strconv.ParseInt(c.Query("brandId"), 10, 64)

	series, err := ctrl.toyService.ListSeries(c.Request.Context(), brandID)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": series})
}

// CreateSeries 创建系列
// @Summary 创建潮玩系列（同品牌下名称唯一）
// @Tags Toy
// @Param body body dto.ToySeriesRequest true "系列信息"
// @Success 200 {object} model.ToySeries
// @Router /api/toys/series [post]
func (ctrl *ToyController) CreateSeries(c *gin.Context) {
	var req dto.ToySeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	series, err := ctrl.toyService.CreateSeries(c.Request.Context(), &req)
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": series})
}

// GetCharacters 角色列表
// @Summary 潮玩角色列表
// @Tags Toy
// @Param seriesId query int true "系列ID"
// @Success 200 {array} model.ToyCharacter
// @Router /api/toys/characters [get]
func (ctrl *ToyController) GetCharacters(c *gin.Context) {
	seriesID, err := strconv.ParseInt(c.Query("seriesId"), 10, 64)
	if err != nil || seriesID <= 0 {
		c.JSON(400, gin.H{"code": 400, "message": "无效的 seriesId"})
		return
	}

	chars, err := ctrl.toyService.ListCharacters(c.Request.Context(), seriesID)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": chars})
}

// CreateCharacter 创建角色
// @Summary 创建潮玩角色（同系列下名称唯一）
// @Tags Toy
// @Param body body dto.ToyCharacterRequest true "角色信息"
// @Success 200 {object} model.ToyCharacter
// @Router /api/toys/characters [post]
func (ctrl *ToyController) CreateCharacter(c *gin.Context) {
	var req dto.ToyCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	ch, err := ctrl.toyService.CreateCharacter(c.Request.Context(), &req)
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": ch})
}

// GetHierarchy 层级树
// @Summary 品牌→系列→角色树，节点带在册商品数
// @Tags Toy
// @Success 200 {array} dto.ToyHierarchyNode
// @Router /api/toys/hierarchy [get]
func (ctrl *ToyController) GetHierarchy(c *gin.Context) {
	tree, err := ctrl.toyService.Hierarchy(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": tree})
}
