package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/internal/service"
)

// ListNotifications 通知列表，倒序分页.
// mark_read=true 时，本页内 pending 的通知被原子标记为已读.
func ListNotifications(c *gin.Context) {
	userID, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	markRead := c.DefaultQuery("mark_read", "false") == "true"

	ctx := c.Request.Context()

	resp, err := service.NewNotificationService(ctx).ListNotifications(ctx, userID, page, pageSize, markRead)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
