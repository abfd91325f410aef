package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/internal/service"
	"github.com/yeisme/archivault/pkg/internal/types"
	"github.com/yeisme/archivault/pkg/log"
)

// RegisterFile 登记新档案，可选附带电子副本的预签名上传 URL.
func RegisterFile(c *gin.Context) {
	userID, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req types.RegisterFileRequest
	if err := c.ShouldBind(&req); err != nil {
		l := log.Logger()
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewFileService(ctx).Register(ctx, userID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetFileLocation 查询档案完整存放路径.
func GetFileLocation(c *gin.Context) {
	fileID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	ctx := c.Request.Context()

	loc, err := service.NewLocationService(ctx).FullLocationPath(ctx, fileID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	// 档案不存在时服务层返回 nil（非错误），HTTP 层映射为 404
	if loc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	c.JSON(http.StatusOK, types.FileLocationResponse{FileID: fileID, Location: loc})
}

// GetFileHistory 查询档案活动历史，最新在前.
func GetFileHistory(c *gin.Context) {
	fileID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewNotificationService(ctx).FileActivityHistory(ctx, fileID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RelocateFile 调整档案物理位置.
func RelocateFile(c *gin.Context) {
	userID, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	fileID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	var req types.RelocateFileRequest
	if err := c.ShouldBind(&req); err != nil {
		l := log.Logger()
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewFileService(ctx).Relocate(ctx, userID, fileID, req.LocationID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ScanFile 扫码取档，返回档案名称与当前位置路径.
func ScanFile(c *gin.Context) {
	userID, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	fileID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewFileService(ctx).Scan(ctx, userID, fileID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetDigitalAccess 签发电子副本的预签名下载 URL.
func GetDigitalAccess(c *gin.Context) {
	userID, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	fileID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	var req types.DigitalAccessRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewFileService(ctx).DigitalAccess(ctx, userID, fileID, req.ExpirySeconds)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RequestPhysical 申请调阅纸质原件.
func RequestPhysical(c *gin.Context) {
	userID, err := checkUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	fileID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewFileService(ctx).PhysicalRequest(ctx, userID, fileID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
