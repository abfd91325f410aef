package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/archivault/pkg/context"
	kvc "github.com/yeisme/archivault/pkg/internal/storage/kv"
)

const cacheBypassHeader = "X-Cache-Bypass"

// responseCacheEntry 序列化存储结构.
type responseCacheEntry struct {
	Status   int    `json:"s"`
	Body     []byte `json:"b,omitempty"`
	ETag     string `json:"e,omitempty"`
	StoredAt int64  `json:"t"` // unix nano, 用于 Age
}

// ResponseCacheMiddleware 针对只读端点的响应缓存.
// KV 客户端在请求期从存储管理器取得，未配置 KV 时中间件退化为直通.
// 支持 ETag / If-None-Match 与 X-Cache 命中标记，缓存读写失败不影响主流程.
//
// 未命中时响应体先在缓冲里收齐，算好 ETag 再整体写出，
// 客户端从第一次响应起就能协商重验证.
func ResponseCacheMiddleware(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || c.GetHeader(cacheBypassHeader) != "" {
			c.Next()
			return
		}

		kv := ctxPkg.GetKVClient(c.Request.Context())
		if kv == nil || ttl <= 0 {
			c.Next()
			return
		}

		key := buildCacheKey(c)
		if serveFromCache(c, kv, key) {
			return
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw
		c.Next()
		c.Writer = bw.ResponseWriter
		flushAndStore(c, kv, key, bw, ttl)
	}
}

// buildCacheKey 生成缓存键：方法 + 路径 + 路径参数 + 排序 query + 操作用户.
func buildCacheKey(c *gin.Context) string {
	var b strings.Builder
	b.Grow(64)

	b.WriteString(c.Request.Method)
	b.WriteByte(':')

	full := c.FullPath()
	if full == "" { // 未匹配路由时使用原始路径
		full = c.Request.URL.Path
	}

	b.WriteString(full)

	if q := c.Request.URL.Query(); len(q) > 0 { // 排序 query 保证键一致
		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}

		sort.Strings(keys)
		b.WriteByte('?')

		for i, k := range keys {
			if i > 0 {
				b.WriteByte('&')
			}

			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(strings.Join(q[k], ","))
		}
	}

	// 路径参数与操作用户都影响响应内容
	for _, p := range c.Params {
		b.WriteByte('|')
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}

	b.WriteString("|u=")
	b.WriteString(c.GetHeader("X-User"))

	return fmt.Sprintf("rc:%x", xxhash.Sum64String(b.String()))
}

// serveFromCache 尝试从缓存提供响应; 成功返回 true.
func serveFromCache(c *gin.Context, kv *kvc.Client, key string) bool {
	data, err := kv.Get(c.Request.Context(), key)
	if err != nil {
		return false
	}

	var entry responseCacheEntry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		return false
	}

	h := c.Writer.Header()
	if entry.ETag != "" {
		h.Set("ETag", entry.ETag)
	}

	age := time.Since(time.Unix(0, entry.StoredAt)).Seconds()
	h.Set("Age", fmt.Sprintf("%.0f", age))
	h.Set("X-Cache", "HIT")

	if entry.ETag != "" && c.GetHeader("If-None-Match") == entry.ETag { // 304 分支
		c.Status(http.StatusNotModified)
		c.Abort()

		return true
	}

	h.Set("Content-Type", "application/json; charset=utf-8")
	c.Status(entry.Status)
	_, _ = c.Writer.Write(entry.Body)
	c.Abort()

	return true
}

// flushAndStore 把缓冲的响应写给客户端；200 的响应先设置 ETag/X-Cache 并写入缓存.
func flushAndStore(c *gin.Context, kv *kvc.Client, key string, bw *bodyCaptureWriter, ttl time.Duration) {
	status := bw.status
	if status == 0 {
		status = http.StatusOK
	}

	body := bw.buf.Bytes()

	if status == http.StatusOK {
		etag := fmt.Sprintf("\"%x\"", xxhash.Sum64(body))
		c.Writer.Header().Set("ETag", etag)
		c.Writer.Header().Set("X-Cache", "MISS")

		entry := responseCacheEntry{
			Status:   status,
			Body:     body,
			ETag:     etag,
			StoredAt: time.Now().UnixNano(),
		}

		if data, err := sonic.Marshal(entry); err == nil {
			_ = kv.Set(c.Request.Context(), key, data, ttl)
		}
	}

	c.Writer.WriteHeader(status)
	_, _ = c.Writer.Write(body)
}

// bodyCaptureWriter 拦截状态码与响应体，写出延迟到缓存处理之后.
type bodyCaptureWriter struct {
	gin.ResponseWriter

	buf    bytes.Buffer
	status int
}

func (w *bodyCaptureWriter) WriteHeader(code int) {
	w.status = code
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}
