package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/internal/handle"
)

// RegisterFilesRoutes 注册档案操作相关路由.
func RegisterFilesRoutes(g *gin.RouterGroup) {
	filesRoutes := g.Group("/files")
	{
		// 登记新档案（可选申请电子副本上传）
		filesRoutes.POST("", handle.RegisterFile)

		// 单个档案操作
		singleGroup := filesRoutes.Group("/:id")
		{
			// 完整存放路径（文件详情页与扫码落地页共用）
			singleGroup.GET("/location", handle.GetFileLocation)
			// 活动历史
			singleGroup.GET("/history", handle.GetFileHistory)
			// 调整物理位置
			singleGroup.POST("/relocate", handle.RelocateFile)
			// 扫码取档
			singleGroup.POST("/scan", handle.ScanFile)
			// 电子副本访问（预签名下载）
			singleGroup.POST("/access", handle.GetDigitalAccess)
			// 纸质原件调阅申请
			singleGroup.POST("/request", handle.RequestPhysical)
		}
	}
}
