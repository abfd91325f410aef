// Package api 把业务路由组挂载到 gin 引擎.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/internal/router"
)

// RegisterGroup 注册 /api/v1 下的全部路由.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	v1 := e.Group("/api/v1")

	router.RegisterAll(v1)
	router.RegisterSchedulerRoutes(v1)

	return e
}
