package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/internal/handle"
)

// RegisterSchedulerRoutes 注册调度器管理路由.
func RegisterSchedulerRoutes(g *gin.RouterGroup) {
	g.GET("/scheduler/jobs", handle.SchedulerJobs)

	g.DELETE("/scheduler/jobs/:name", handle.SchedulerRemoveJob)
}
