package controller

import (
	"github.com/gin-gonic/gin"

	"resale_erp_202601/pkg/cache"
)

type CacheController struct {
	cache *cache.TagCache
}

func NewCacheController(tagCache *cache.TagCache) *CacheController {
	return &CacheController{cache: tagCache}
}

// Clear 清空缓存
// @Summary 清空全部读缓存
// @Tags Cache
// @Success 200 {object} gin.H
// @Router /api/cache/clear [post]
func (ctrl *CacheController) Clear(c *gin.Context) {
	ctrl.cache.Clear()
	c.JSON(200, gin.H{"code": 0, "message": "success"})
}
