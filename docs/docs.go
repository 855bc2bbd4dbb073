// Package docs 注册 Swagger 文档
// 正式文档由 swag init 生成，这里内置最小描述保证路由可用
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "二手转卖库存管理系统 API",
        "description": "商品/交易/仓库/潮玩分类管理与 CSV 批量导入",
        "version": "1.0"
    },
    "basePath": "/"
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "二手转卖库存管理系统 API",
	Description:      "商品/交易/仓库/潮玩分类管理与 CSV 批量导入",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
