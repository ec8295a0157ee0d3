// Package docs 由swag init生成的Swagger文档注册
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {"post": {"tags": ["认证"], "summary": "用户注册", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "注册成功"}, "400": {"description": "参数错误"}, "409": {"description": "邮箱已注册"}}}},
        "/auth/login": {"post": {"tags": ["认证"], "summary": "用户登录", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "登录成功"}, "401": {"description": "邮箱或密码错误"}}}},
        "/auth/refresh": {"post": {"tags": ["认证"], "summary": "刷新Access Token", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Refresh Token无效"}}}},
        "/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["认证"], "summary": "登出", "responses": {"200": {"description": "OK"}}}},
        "/books": {
            "get": {"tags": ["图书"], "summary": "图书列表", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["图书"], "summary": "上架图书", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "参数错误"}, "404": {"description": "分类不存在"}, "409": {"description": "ISBN重复"}}}
        },
        "/books/stats": {"get": {"tags": ["图书"], "summary": "库存统计", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/books/genre/{genre_id}": {"get": {"tags": ["图书"], "summary": "按分类查询图书", "parameters": [{"type": "integer", "name": "genre_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "分类不存在"}}}},
        "/books/{book_id}": {
            "get": {"tags": ["图书"], "summary": "图书详情", "parameters": [{"type": "integer", "name": "book_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "图书不存在"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["图书"], "summary": "修改图书", "parameters": [{"type": "integer", "name": "book_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "图书不存在"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["图书"], "summary": "下架图书", "parameters": [{"type": "integer", "name": "book_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "图书不存在"}}}
        },
        "/genre": {
            "get": {"tags": ["分类"], "summary": "分类列表", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["分类"], "summary": "创建分类", "responses": {"201": {"description": "Created"}, "409": {"description": "分类名重复"}}}
        },
        "/genre/{genre_id}": {
            "get": {"tags": ["分类"], "summary": "分类详情", "parameters": [{"type": "integer", "name": "genre_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "分类不存在"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["分类"], "summary": "重命名分类", "parameters": [{"type": "integer", "name": "genre_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["分类"], "summary": "删除分类", "parameters": [{"type": "integer", "name": "genre_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "分类下仍有图书"}}}
        },
        "/transactions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["交易"], "summary": "我的交易列表", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["交易"], "summary": "创建交易", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "参数格式错误"}, "401": {"description": "未登录"}, "404": {"description": "图书不存在"}, "409": {"description": "库存不足"}, "422": {"description": "购买数量不合法"}, "429": {"description": "请求过于频繁"}}}
        },
        "/transactions/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["交易"], "summary": "交易详情", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "交易不存在"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "IT Literature Shop API",
	Description:      "二手IT图书商城:图书与分类管理、购买与交易查询",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
