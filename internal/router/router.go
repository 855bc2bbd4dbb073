package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"resale_erp_202601/internal/controller"
	"resale_erp_202601/internal/middleware"

	_ "resale_erp_202601/docs"
)

// Controllers 路由需要的控制器集合
type Controllers struct {
	Auth        *controller.AuthController
	Item        *controller.ItemController
	Transaction *controller.TransactionController
	Warehouse   *controller.WarehouseController
	Toy         *controller.ToyController
	Stock       *controller.StockController
	Upload      *controller.UploadController
	Cache       *controller.CacheController
}

// SetupRouter 注册所有路由
func SetupRouter(ctrls *Controllers) *gin.Engine {
	r := gin.Default()

	// Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// auth 开放组
	auth := api.Group("/auth")
	{
		auth.POST("/login", ctrls.Auth.Login)
		auth.POST("/refresh", ctrls.Auth.Refresh)
		auth.POST("/logout", ctrls.Auth.Logout)
	}

	// 业务路由全部走 JWT 认证
	protected := api.Group("")
	protected.Use(middleware.JWTAuth())
	{
		items := protected.Group("/items")
		{
			items.GET("", ctrls.Item.GetItems)
			items.POST("", ctrls.Item.CreateItem)
			items.PUT("", ctrls.Item.UpdateItem)
			items.DELETE("", ctrls.Item.DeleteItem)

			items.GET("/stats", ctrls.Item.GetStats)
			items.GET("/months", ctrls.Item.GetMonths)
			items.GET("/categories", ctrls.Item.GetCategories)
			items.GET("/grouped", ctrls.Item.GetGrouped)
			items.GET("/autocomplete", ctrls.Item.Autocomplete)

			items.POST("/batch-import", ctrls.Item.BatchImport)
			items.POST("/export", ctrls.Item.ExportItems)
			items.POST("/copy", ctrls.Item.CopyItem)
			items.POST("/batch-update-status", ctrls.Item.BatchUpdateStatus)
			items.POST("/batch-settlement", ctrls.Item.BatchSettlement)
			items.POST("/price-prediction", ctrls.Item.PricePrediction)

			items.POST("/sku", ctrls.Item.CreateSKU)
			items.PUT("/sku", ctrls.Item.UpdateSKU)
			items.DELETE("/sku", ctrls.Item.DeleteSKU)

			// 放在最后，避免吞掉上面的静态子路径
			items.GET("/:itemId", ctrls.Item.GetItem)
		}

		protected.POST("/transactions", ctrls.Transaction.CreateTransaction)

		warehouses := protected.Group("/warehouses")
		{
			warehouses.GET("", ctrls.Warehouse.GetWarehouses)
			warehouses.POST("", ctrls.Warehouse.CreateWarehouse)
			warehouses.GET("/stats", ctrls.Warehouse.GetStats)

			warehouses.POST("/positions", ctrls.Warehouse.CreatePosition)
			warehouses.PUT("/positions/:id", ctrls.Warehouse.UpdatePosition)
			warehouses.DELETE("/positions/:id", ctrls.Warehouse.DeletePosition)
			warehouses.PUT("/positions/:id/usage", ctrls.Warehouse.AdjustUsage)

			warehouses.PUT("/:id", ctrls.Warehouse.UpdateWarehouse)
			warehouses.DELETE("/:id", ctrls.Warehouse.DeleteWarehouse)
		}

		toys := protected.Group("/toys")
		{
			toys.GET("/brands", ctrls.Toy.GetBrands)
			toys.POST("/brands", ctrls.Toy.CreateBrand)
			toys.GET("/series", ctrls.Toy.GetSeries)
			toys.POST("/series", ctrls.Toy.CreateSeries)
			toys.GET("/characters", ctrls.Toy.GetCharacters)
			toys.POST("/characters", ctrls.Toy.CreateCharacter)
			toys.GET("/hierarchy", ctrls.Toy.GetHierarchy)
		}

		stock := protected.Group("/stock")
		{
			stock.POST("/adjust", ctrls.Stock.Adjust)
			stock.GET("/history", ctrls.Stock.History)
		}

		protected.POST("/upload", ctrls.Upload.Upload)
		protected.POST("/cache/clear", ctrls.Cache.Clear)
	}

	return r
}
