package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/archivault/pkg/scheduler"
)

const schedulerContextKey = "scheduler"

// SchedulerMiddleware 将调度器实例注入 gin 上下文，供管理端点使用.
func SchedulerMiddleware(s *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(schedulerContextKey, s)
		c.Next()
	}
}

// GetScheduler 从 gin 上下文获取调度器实例.
func GetScheduler(c *gin.Context) *scheduler.Scheduler {
	if v, ok := c.Get(schedulerContextKey); ok {
		if s, ok := v.(*scheduler.Scheduler); ok {
			return s
		}
	}

	return nil
}
