package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/internal/service"
)

// DashboardStats 仪表盘统计，优先返回缓存.
func DashboardStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := service.NewStatsService(ctx).Dashboard(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
