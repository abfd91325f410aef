// Package router 管理路由配置，把路径绑定到 pkg/internal/handle 提供的处理器.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAll 把全部业务路由注册到传入的路由组（通常是 /api/v1）.
func RegisterAll(g *gin.RouterGroup) {
	RegisterFilesRoutes(g)
	RegisterTransfersRoutes(g)
	RegisterNotificationsRoutes(g)
	RegisterStatsRoutes(g)
	RegisterHealthCheckRoute(g)
}
