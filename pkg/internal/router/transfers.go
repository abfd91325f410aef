package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/internal/handle"
)

// RegisterTransfersRoutes 注册档案流转相关路由.
func RegisterTransfersRoutes(g *gin.RouterGroup) {
	transfersRoutes := g.Group("/transfers")
	{
		// 发起流转（多收件人扇出）
		transfersRoutes.POST("", handle.SendTransfer)
		// 响应流转：accept / deny
		transfersRoutes.POST("/:id/respond", handle.RespondTransfer)
	}
}
