package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/internal/handle"
)

// RegisterNotificationsRoutes 注册通知相关路由.
func RegisterNotificationsRoutes(g *gin.RouterGroup) {
	g.GET("/notifications", handle.ListNotifications)
}
