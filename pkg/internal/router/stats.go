package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/internal/handle"
	"github.com/yeisme/archivault/pkg/middleware"
)

// RegisterStatsRoutes 注册统计相关路由.
// 仪表盘聚合查询较重，叠加一层短 TTL 的响应缓存.
func RegisterStatsRoutes(g *gin.RouterGroup) {
	g.GET("/stats/dashboard", middleware.ResponseCacheMiddleware(30*time.Second), handle.DashboardStats)
}
