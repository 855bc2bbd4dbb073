package controller

import (
	"io"

	"github.com/gin-gonic/gin"

	"resale_erp_202601/internal/service"
)

// 上传大小上限 10MB
const maxUploadSize = 10 << 20

type UploadController struct {
	storage service.StorageProvider
}

func NewUploadController(storage service.StorageProvider) *UploadController {
	return &UploadController{storage: storage}
}

// Upload 图片上传
// @Summary 上传商品图片，返回访问 URL
// @Tags Upload
// @Accept multipart/form-data
// @Param file formData file true "图片文件"
// @Success 200 {object} gin.H
// @Router /api/upload [post]
func (ctrl *UploadController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "未上传文件"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(400, gin.H{"code": 400, "message": "文件超过 10MB 限制"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "文件读取失败: " + err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "文件读取失败: " + err.Error()})
		return
	}

	url, err := ctrl.storage.Upload(
		c.Request.Context(),
		data,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "上传失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": gin.H{"url": url}})
}
