package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/internal/service"
	"github.com/yeisme/archivault/pkg/internal/types"
	"github.com/yeisme/archivault/pkg/log"
)

// SendTransfer 发起档案流转，支持多收件人.
func SendTransfer(c *gin.Context) {
	userID, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req types.SendTransferRequest
	if err := c.ShouldBind(&req); err != nil {
		l := log.Logger()
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if len(req.RecipientIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one recipient required"})
		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewTransferService(ctx).Send(ctx, userID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RespondTransfer 响应流转请求：accept 或 deny.
// 已被处理过的请求（包括并发双击的落败方）收到 404.
func RespondTransfer(c *gin.Context) {
	userID, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	txID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	var req types.RespondTransferRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewTransferService(ctx).Respond(ctx, txID, userID, req.Decision)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
