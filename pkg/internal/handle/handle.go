// Package handle 提供HTTP请求处理器的实现.
package handle

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/internal/service"
	"github.com/yeisme/archivault/pkg/rule"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// checkUser 提取操作者的用户 ID：Header 优先 -> query 参数 -> 非 Release 模式默认 1（便于测试）.
// 账号体系在外部系统，这里只消费网关注入的身份.
func checkUser(c *gin.Context) (uint, error) {
	raw := c.GetHeader("X-User")
	if raw == "" {
		raw = c.Query("user")
	}

	if raw == "" && gin.Mode() != gin.ReleaseMode {
		raw = "1"
	}

	raw = strings.TrimSpace(raw)

	if err := rule.ValidateVar(raw, "required,number"); err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}

// pathID 解析路径参数里的数字 ID.
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}

// abortWithError 把业务错误映射为 HTTP 状态码.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoDigitalCopy), errors.Is(err, service.ErrUnknownTxType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		// 变更类操作只报一个笼统失败，不暴露内部细节
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}
