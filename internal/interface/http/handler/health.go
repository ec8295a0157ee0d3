package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康检查响应
type HealthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// HealthCheck 健康检查
// @Summary      健康检查
// @Tags         系统
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health-check [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Success: true,
		Message: "Hello World!",
		Date:    time.Now().Format("Mon Jan 02 2006"),
	})
}

// Welcome 根路径
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Welcome to IT Literature Shop API",
	})
}

// NotFound 未匹配的路由
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"message": "Route not found",
	})
}
