// Package middleware 提供 Gin 中间件：请求日志、CORS、监控、追踪、熔断与存储注入.
package middleware
