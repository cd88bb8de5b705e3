package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats 获取后台仪表盘统计
// 各项统计独立读取，任何一项查询失败都会让整个响应失败
func (a *API) GetDashboardStats(c *gin.Context) {
	stats, err := a.stats.Dashboard()
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetStorageStats 获取媒体库存储用量统计
func (a *API) GetStorageStats(c *gin.Context) {
	stats, err := a.stats.Storage()
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
